package orm

import (
	"fmt"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// coerce 将驱动返回的值转换为字段类型对应的 Go 类型
// String/Text -> string, Integer -> int64, Float -> float64, Boolean -> bool
func coerce(typ ColumnType, v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch typ {
	case String, Text:
		return ToString(v)
	case Integer:
		return ToInt64(v)
	case Float:
		return ToFloat64(v)
	case Boolean:
		return ToBool(v)
	default:
		return v, nil
	}
}

func ToString(v any) (string, error) {
	switch val := v.(type) {
	case string:
		return val, nil
	case []byte:
		return string(val), nil
	case time.Time:
		return val.Format(time.RFC3339Nano), nil
	case nil:
		return "", nil
	default:
		return fmt.Sprint(val), nil
	}
}

func ToInt64(v any) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case int:
		return int64(val), nil
	case int32:
		return int64(val), nil
	case uint64:
		return int64(val), nil
	case uint32:
		return int64(val), nil
	case float64:
		return int64(val), nil
	case float32:
		return int64(val), nil
	case bool:
		if val {
			return 1, nil
		}
		return 0, nil
	case string:
		n, err := strconv.ParseInt(val, 10, 64)
		return n, errors.Wrapf(err, "parse %q as integer", val)
	case []byte:
		return ToInt64(string(val))
	case nil:
		return 0, nil
	default:
		return 0, errors.Errorf("cannot convert %T to integer", v)
	}
}

func ToFloat64(v any) (float64, error) {
	switch val := v.(type) {
	case float64:
		return val, nil
	case float32:
		return float64(val), nil
	case int64:
		return float64(val), nil
	case int:
		return float64(val), nil
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, errors.Wrapf(err, "parse %q as float", val)
	case []byte:
		return ToFloat64(string(val))
	case nil:
		return 0, nil
	default:
		return 0, errors.Errorf("cannot convert %T to float", v)
	}
}

// ToBool MySQL 的 boolean 是 tinyint(1)，驱动返回整数
func ToBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case int64:
		return val != 0, nil
	case int:
		return val != 0, nil
	case float64:
		return val != 0, nil
	case string:
		b, err := strconv.ParseBool(val)
		return b, errors.Wrapf(err, "parse %q as bool", val)
	case []byte:
		return ToBool(string(val))
	case nil:
		return false, nil
	default:
		return false, errors.Errorf("cannot convert %T to bool", v)
	}
}

// numeric 文本形式的数值转换为 int64 或 float64，其他值原样返回
func numeric(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return v
}
