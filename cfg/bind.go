package cfg

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// Bind 将解码后的 map 绑定到结构体，字段名取 cfg tag
// key 匹配忽略大小写、下划线和中划线，max_age 可以匹配 maxAge
func Bind(m map[string]any, object any) error {
	rv := reflect.ValueOf(object)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("object must be a non-nil pointer")
	}
	return bindValue(m, rv.Elem(), "")
}

func bindValue(src any, dst reflect.Value, path string) error {
	if src == nil {
		return nil
	}

	if dst.Kind() == reflect.Pointer {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return bindValue(src, dst.Elem(), path)
	}

	if dst.Kind() == reflect.Interface {
		dst.Set(reflect.ValueOf(src))
		return nil
	}

	switch dst.Kind() {
	case reflect.Struct:
		if dst.Type() == timeType {
			return bindTime(src, dst, path)
		}
		m, ok := src.(map[string]any)
		if !ok {
			return errors.Errorf("%s: expect a map, got %T", path, src)
		}
		return bindStruct(m, dst, path)
	case reflect.Map:
		m, ok := src.(map[string]any)
		if !ok {
			return errors.Errorf("%s: expect a map, got %T", path, src)
		}
		if dst.IsNil() {
			dst.Set(reflect.MakeMapWithSize(dst.Type(), len(m)))
		}
		for k, v := range m {
			elem := reflect.New(dst.Type().Elem()).Elem()
			if err := bindValue(v, elem, join(path, k)); err != nil {
				return err
			}
			dst.SetMapIndex(reflect.ValueOf(k).Convert(dst.Type().Key()), elem)
		}
		return nil
	case reflect.Slice:
		items, ok := src.([]any)
		if !ok {
			// 逗号分隔的字符串，ini 和环境变量中常见
			if s, isStr := src.(string); isStr {
				return parseInto(dst, s)
			}
			return errors.Errorf("%s: expect a list, got %T", path, src)
		}
		slice := reflect.MakeSlice(dst.Type(), len(items), len(items))
		for i, item := range items {
			if err := bindValue(item, slice.Index(i), fmt.Sprintf("%s[%d]", path, i)); err != nil {
				return err
			}
		}
		dst.Set(slice)
		return nil
	}

	return bindScalar(src, dst, path)
}

func bindStruct(m map[string]any, dst reflect.Value, path string) error {
	index := make(map[string]any, len(m))
	for k, v := range m {
		index[normalizeKey(k)] = v
	}

	rt := dst.Type()
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := fieldName(field)
		if name == "-" {
			continue
		}
		v, ok := index[normalizeKey(name)]
		if !ok {
			continue
		}
		if err := bindValue(v, dst.Field(i), join(path, name)); err != nil {
			return err
		}
	}
	return nil
}

func bindScalar(src any, dst reflect.Value, path string) error {
	if s, ok := src.(string); ok {
		return errors.WithMessage(parseInto(dst, s), path)
	}

	sv := reflect.ValueOf(src)
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch {
		case sv.CanInt():
			dst.SetInt(sv.Int())
			return nil
		case sv.CanFloat() && sv.Float() == float64(int64(sv.Float())):
			dst.SetInt(int64(sv.Float()))
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if sv.CanInt() && sv.Int() >= 0 {
			dst.SetUint(uint64(sv.Int()))
			return nil
		}
		if sv.CanUint() {
			dst.SetUint(sv.Uint())
			return nil
		}
	case reflect.Float32, reflect.Float64:
		switch {
		case sv.CanFloat():
			dst.SetFloat(sv.Float())
			return nil
		case sv.CanInt():
			dst.SetFloat(float64(sv.Int()))
			return nil
		}
	case reflect.Bool:
		if b, ok := src.(bool); ok {
			dst.SetBool(b)
			return nil
		}
	case reflect.String:
		dst.SetString(fmt.Sprint(src))
		return nil
	}
	return errors.Errorf("%s: cannot bind %T to %s", path, src, dst.Type())
}

func bindTime(src any, dst reflect.Value, path string) error {
	switch v := src.(type) {
	case time.Time:
		dst.Set(reflect.ValueOf(v))
		return nil
	case string:
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return errors.Wrapf(err, "%s: invalid time", path)
		}
		dst.Set(reflect.ValueOf(t))
		return nil
	}
	return errors.Errorf("%s: cannot bind %T to time", path, src)
}

func fieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("cfg"), ",", 2)[0]
	if name == "" {
		return field.Name
	}
	return name
}

func normalizeKey(k string) string {
	k = strings.ToLower(k)
	return strings.NewReplacer("_", "", "-", "").Replace(k)
}

func join(path, key string) string {
	if path == "" {
		return key
	}
	return path + "." + key
}

// envName minPoolSize -> MIN_POOL_SIZE
func envName(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' && i > 0 {
			b.WriteByte('_')
		}
		if r == '-' || r == '.' {
			r = '_'
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(b.String())
}
