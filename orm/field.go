package orm

import "fmt"

// ColumnType 字段逻辑类型
type ColumnType string

const (
	String  ColumnType = "string"
	Integer ColumnType = "integer"
	Boolean ColumnType = "boolean"
	Float   ColumnType = "float"
	Text    ColumnType = "text"
)

// Field 描述一列
// Default 可以是字面值，也可以是 func() any 生成器，在保存时按需求值
type Field struct {
	Name       string
	Type       ColumnType
	DDL        string
	PrimaryKey bool
	Default    any
}

type FieldOption func(*Field)

// PrimaryKey 标记为主键
func PrimaryKey() FieldOption {
	return func(f *Field) { f.PrimaryKey = true }
}

// Default 字面默认值
func Default(v any) FieldOption {
	return func(f *Field) { f.Default = v }
}

// DefaultFunc 默认值生成器，每条记录最多调用一次
func DefaultFunc(fn func() any) FieldOption {
	return func(f *Field) { f.Default = fn }
}

// DDL 覆盖列定义，如 varchar(50)
func DDL(ddl string) FieldOption {
	return func(f *Field) { f.DDL = ddl }
}

func newField(name string, typ ColumnType, ddl string, def any, opts []FieldOption) Field {
	f := Field{Name: name, Type: typ, DDL: ddl, Default: def}
	for _, opt := range opts {
		opt(&f)
	}
	return f
}

func StringField(name string, opts ...FieldOption) Field {
	return newField(name, String, "varchar(100)", nil, opts)
}

func IntegerField(name string, opts ...FieldOption) Field {
	return newField(name, Integer, "bigint", int64(0), opts)
}

func BooleanField(name string, opts ...FieldOption) Field {
	return newField(name, Boolean, "boolean", false, opts)
}

func FloatField(name string, opts ...FieldOption) Field {
	return newField(name, Float, "float", float64(0), opts)
}

func TextField(name string, opts ...FieldOption) Field {
	return newField(name, Text, "text", nil, opts)
}

// Ptr 返回 v 的指针，用于给可空字段显式赋值
func Ptr[T any](v T) *T {
	return &v
}

// HasDefault 是否声明了默认值
func (f Field) HasDefault() bool {
	return f.Default != nil
}

// DefaultValue 求默认值，生成器每次调用都会重新求值
func (f Field) DefaultValue() (any, bool) {
	switch d := f.Default.(type) {
	case nil:
		return nil, false
	case func() any:
		return d(), true
	default:
		return d, true
	}
}

func (f Field) String() string {
	return fmt.Sprintf("<%s, %s: %s>", f.Type, f.DDL, f.Name)
}
