package cfg

import (
	"os"
	"reflect"
	"strings"

	"github.com/pkg/errors"
)

// ApplyEnv 用环境变量覆盖结构体中的标量字段
// 变量名为 prefix 加上 cfg tag 路径，如 AWESOME_DB_MIN_POOL_SIZE 对应 db.minPoolSize
func ApplyEnv(object any, prefix string) error {
	return applyEnv(object, prefix, os.LookupEnv)
}

func applyEnv(object any, prefix string, lookup func(string) (string, bool)) error {
	rv := reflect.ValueOf(object)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.New("object must be a non-nil pointer")
	}
	return applyEnvValue(rv.Elem(), strings.ToUpper(prefix), lookup)
}

func applyEnvValue(rv reflect.Value, name string, lookup func(string) (string, bool)) error {
	if rv.Kind() == reflect.Struct && rv.Type() != timeType {
		rt := rv.Type()
		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			if !field.IsExported() || fieldName(field) == "-" {
				continue
			}
			if err := applyEnvValue(rv.Field(i), name+"_"+envName(fieldName(field)), lookup); err != nil {
				return err
			}
		}
		return nil
	}

	if rv.Kind() == reflect.Map || rv.Kind() == reflect.Interface {
		return nil
	}

	s, ok := lookup(name)
	if !ok {
		return nil
	}
	if rv.Kind() == reflect.Pointer {
		if rv.Type().Elem().Kind() == reflect.Struct {
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}
	return errors.WithMessagef(parseInto(rv, s), "env %s", name)
}
