package orm

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
)

// TableMetadata 模型注册后的表元信息，构造后不可修改
type TableMetadata struct {
	table      string
	primaryKey Field
	fields     []Field
	mappings   map[string]Field
	selectSQL  string
	insertSQL  string
	updateSQL  string
	deleteSQL  string
}

func (m *TableMetadata) Table() string      { return m.table }
func (m *TableMetadata) PrimaryKey() string { return m.primaryKey.Name }
func (m *TableMetadata) SelectSQL() string  { return m.selectSQL }
func (m *TableMetadata) InsertSQL() string  { return m.insertSQL }
func (m *TableMetadata) UpdateSQL() string  { return m.updateSQL }
func (m *TableMetadata) DeleteSQL() string  { return m.deleteSQL }

// Fields 非主键字段名，按声明顺序，决定 SQL 中参数的位置
func (m *TableMetadata) Fields() []string {
	names := make([]string, len(m.fields))
	for i, f := range m.fields {
		names[i] = f.Name
	}
	return names
}

// Field 按名字查找字段定义，包括主键
func (m *TableMetadata) Field(name string) (Field, bool) {
	f, ok := m.mappings[name]
	return f, ok
}

// Columns 全部字段，主键在前
func (m *TableMetadata) Columns() []Field {
	columns := make([]Field, 0, len(m.fields)+1)
	columns = append(columns, m.primaryKey)
	return append(columns, m.fields...)
}

var registry sync.Map // reflect.Type -> *TableMetadata

// Register 注册模型 T，table 为空时使用类型名作为表名
// 同一类型只构建一次，之后返回缓存的元信息
func Register[T any](table string, fields ...Field) (*TableMetadata, error) {
	typ := reflect.TypeFor[T]()
	if v, ok := registry.Load(typ); ok {
		return v.(*TableMetadata), nil
	}

	name := typ.Name()
	if typ.Kind() == reflect.Pointer {
		name = typ.Elem().Name()
	}
	if table == "" {
		table = name
	}

	meta, err := buildTableMetadata(name, table, fields)
	if err != nil {
		return nil, err
	}

	actual, _ := registry.LoadOrStore(typ, meta)
	return actual.(*TableMetadata), nil
}

// MustRegister 注册失败直接 panic，在包初始化阶段使用
func MustRegister[T any](table string, fields ...Field) *TableMetadata {
	meta, err := Register[T](table, fields...)
	if err != nil {
		panic(err)
	}
	return meta
}

func buildTableMetadata(typeName string, table string, fields []Field) (*TableMetadata, error) {
	if table == "" {
		return nil, &SchemaError{Type: typeName, Reason: "table name is empty"}
	}

	meta := &TableMetadata{
		table:    table,
		mappings: make(map[string]Field, len(fields)),
	}

	var pk *Field
	for i := range fields {
		f := fields[i]
		if f.Name == "" {
			return nil, &SchemaError{Type: typeName, Reason: fmt.Sprintf("field #%d has no name", i)}
		}
		if _, ok := meta.mappings[f.Name]; ok {
			return nil, &SchemaError{Type: typeName, Reason: fmt.Sprintf("duplicate field %s", f.Name)}
		}
		meta.mappings[f.Name] = f

		if f.PrimaryKey {
			if pk != nil {
				return nil, &SchemaError{Type: typeName, Reason: fmt.Sprintf("duplicate primary key for fields: %s, %s", pk.Name, f.Name)}
			}
			pk = &f
			continue
		}
		meta.fields = append(meta.fields, f)
	}
	if pk == nil {
		return nil, &SchemaError{Type: typeName, Reason: "primary key not found"}
	}
	meta.primaryKey = *pk

	// 模板列顺序与参数组装都来自 meta.fields
	escaped := make([]string, len(meta.fields))
	assigns := make([]string, len(meta.fields))
	for i, f := range meta.fields {
		escaped[i] = quote(f.Name)
		assigns[i] = quote(f.Name) + "=?"
	}

	selectCols := quote(pk.Name)
	if len(escaped) > 0 {
		selectCols += ", " + strings.Join(escaped, ",")
	}
	meta.selectSQL = fmt.Sprintf("select %s from %s", selectCols, quote(table))
	meta.insertSQL = fmt.Sprintf("insert into %s (%s) values (%s)",
		quote(table), strings.Join(append(escaped, quote(pk.Name)), ","), placeholders(len(escaped)+1))
	meta.deleteSQL = fmt.Sprintf("delete from %s where %s=?", quote(table), quote(pk.Name))
	if len(assigns) > 0 {
		meta.updateSQL = fmt.Sprintf("update %s set %s where %s=?",
			quote(table), strings.Join(assigns, ","), quote(pk.Name))
	}

	return meta, nil
}

func quote(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}
