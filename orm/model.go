package orm

import (
	"context"
	"reflect"

	"github.com/hatlonely/awesome/log"
	"github.com/pkg/errors"
)

// Entity 记录实例，按字段名读写
// GetField 第二个返回值表示字段是否被显式赋值，Save 只对未赋值的字段使用默认值
// 默认值不是零值的字段，实体需要用指针等方式区分未赋值和零值，否则显式的零值会被默认值替换
type Entity interface {
	GetField(name string) (any, bool)
	SetField(name string, value any) error
}

// RowCountPolicy 写操作影响行数不为 1 时的处理方式
type RowCountPolicy int

const (
	// RowCountStrict 返回 *RowCountError
	RowCountStrict RowCountPolicy = iota
	// RowCountWarn 只记录 warn 日志
	RowCountWarn
)

// WriteResult 写操作结果
type WriteResult struct {
	Op           string
	RowsAffected int64
}

// OK 恰好影响一行
func (r WriteResult) OK() bool {
	return r.RowsAffected == 1
}

// Model 单表 CRUD
type Model[T Entity] struct {
	exec   *Executor
	meta   *TableMetadata
	newFn  func() T
	policy RowCountPolicy
	logger log.Logger
}

func NewModel[T Entity](exec *Executor, meta *TableMetadata, newFn func() T, opts ...Option) *Model[T] {
	s := newSettings(opts)
	return &Model[T]{
		exec:   exec,
		meta:   meta,
		newFn:  newFn,
		policy: s.policy,
		logger: s.logger.With("component", "model", "table", meta.Table()),
	}
}

func (m *Model[T]) Meta() *TableMetadata {
	return m.meta
}

// Find 按主键查找，没有记录时返回 false
func (m *Model[T]) Find(ctx context.Context, pk any) (T, bool, error) {
	var zero T
	query := m.meta.selectSQL + " where " + quote(m.meta.primaryKey.Name) + "=?"
	rows, err := m.exec.Select(ctx, query, []any{pk}, 1)
	if err != nil {
		return zero, false, err
	}
	if len(rows) == 0 {
		return zero, false, nil
	}
	e, err := m.build(rows[0])
	if err != nil {
		return zero, false, err
	}
	return e, true, nil
}

// FindAll 按条件查询，参见 Where, OrderBy, Limit
func (m *Model[T]) FindAll(ctx context.Context, opts ...FindOption) ([]T, error) {
	query, args, err := buildFindAll(m.meta, opts)
	if err != nil {
		return nil, err
	}
	rows, err := m.exec.Select(ctx, query, args, 0)
	if err != nil {
		return nil, err
	}
	result := make([]T, 0, len(rows))
	for _, row := range rows {
		e, err := m.build(row)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, nil
}

// FindNumber 执行 select <expr> as _value_，只接受 Where 选项
// 结果为 int64 或 float64，以文本返回的数值（如 mysql decimal）会被转换；没有结果行时返回 false
func (m *Model[T]) FindNumber(ctx context.Context, expr string, opts ...FindOption) (any, bool, error) {
	query, args, err := buildFindNumber(m.meta, expr, opts)
	if err != nil {
		return nil, false, err
	}
	rows, err := m.exec.Select(ctx, query, args, 1)
	if err != nil {
		return nil, false, err
	}
	if len(rows) == 0 {
		return nil, false, nil
	}
	v, _ := rows[0].Get(numberAlias)
	return numeric(v), true, nil
}

// Count 统计满足条件的记录数
func (m *Model[T]) Count(ctx context.Context, opts ...FindOption) (int64, error) {
	v, ok, err := m.FindNumber(ctx, "count("+quote(m.meta.primaryKey.Name)+")", opts...)
	if err != nil || !ok {
		return 0, err
	}
	return ToInt64(v)
}

// Save 插入记录，没有值的字段使用默认值
// 插入前把求出的默认值回写到记录上，主键缺失时记录保持不变
func (m *Model[T]) Save(ctx context.Context, e T) (WriteResult, error) {
	columns := make([]Field, 0, len(m.meta.fields)+1)
	columns = append(columns, m.meta.fields...)
	columns = append(columns, m.meta.primaryKey)

	args := make([]any, len(columns))
	var defaults []int
	for i, f := range columns {
		v, fromDefault := m.valueOrDefault(e, f)
		args[i] = v
		if fromDefault {
			defaults = append(defaults, i)
		}
	}
	if isZero(args[len(args)-1]) {
		return WriteResult{}, &InvalidArgumentError{Name: m.meta.primaryKey.Name, Reason: "primary key is absent"}
	}

	for _, i := range defaults {
		f := columns[i]
		if err := e.SetField(f.Name, args[i]); err != nil {
			return WriteResult{}, errors.WithMessagef(err, "set default of %s.%s", m.meta.table, f.Name)
		}
		m.logger.DebugContext(ctx, "using default value", "field", f.Name, "value", args[i])
	}

	n, err := m.exec.Execute(ctx, m.meta.insertSQL, args)
	return m.check(ctx, "insert", n, err)
}

// Update 按主键更新全部非主键字段，不使用默认值
func (m *Model[T]) Update(ctx context.Context, e T) (WriteResult, error) {
	if m.meta.updateSQL == "" {
		return WriteResult{}, &InvalidArgumentError{Name: m.meta.table, Reason: "no columns to update"}
	}
	pk, err := m.primaryKey(e)
	if err != nil {
		return WriteResult{}, err
	}

	args := make([]any, 0, len(m.meta.fields)+1)
	for _, f := range m.meta.fields {
		v, _ := e.GetField(f.Name)
		args = append(args, v)
	}
	args = append(args, pk)

	n, err := m.exec.Execute(ctx, m.meta.updateSQL, args)
	return m.check(ctx, "update", n, err)
}

// Remove 按主键删除
func (m *Model[T]) Remove(ctx context.Context, e T) (WriteResult, error) {
	pk, err := m.primaryKey(e)
	if err != nil {
		return WriteResult{}, err
	}
	n, err := m.exec.Execute(ctx, m.meta.deleteSQL, []any{pk})
	return m.check(ctx, "delete", n, err)
}

func (m *Model[T]) primaryKey(e T) (any, error) {
	pk, ok := e.GetField(m.meta.primaryKey.Name)
	if !ok || isZero(pk) {
		return nil, &InvalidArgumentError{Name: m.meta.primaryKey.Name, Reason: "primary key is absent"}
	}
	return pk, nil
}

// valueOrDefault 字段没有值时求默认值，第二个返回值表示是否来自默认值
func (m *Model[T]) valueOrDefault(e T, f Field) (any, bool) {
	v, ok := e.GetField(f.Name)
	if ok {
		return v, false
	}
	if d, ok := f.DefaultValue(); ok {
		return d, true
	}
	return v, false
}

func (m *Model[T]) check(ctx context.Context, op string, n int64, err error) (WriteResult, error) {
	if err != nil {
		return WriteResult{}, err
	}
	res := WriteResult{Op: op, RowsAffected: n}
	if res.OK() {
		return res, nil
	}
	if m.policy == RowCountWarn {
		m.logger.WarnContext(ctx, "unexpected affected rows", "op", op, "rows", n)
		return res, nil
	}
	return res, &RowCountError{Table: m.meta.table, Op: op, Result: res}
}

func (m *Model[T]) build(row Row) (T, error) {
	e := m.newFn()
	for i, col := range row.Columns {
		f, ok := m.meta.Field(col)
		if !ok {
			continue
		}
		v, err := coerce(f.Type, row.Values[i])
		if err != nil {
			var zero T
			return zero, errors.WithMessagef(err, "column %s.%s", m.meta.table, col)
		}
		if v == nil {
			continue
		}
		if err := e.SetField(col, v); err != nil {
			var zero T
			return zero, errors.WithMessagef(err, "column %s.%s", m.meta.table, col)
		}
	}
	return e, nil
}

func isZero(v any) bool {
	if v == nil {
		return true
	}
	return reflect.ValueOf(v).IsZero()
}
