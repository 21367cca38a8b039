package orm

import (
	"strings"

	"github.com/hatlonely/awesome/orm/cond"
	"github.com/pkg/errors"
)

type findOptions struct {
	where    string
	args     []any
	orderBy  string
	limit    []int
	hasLimit bool
	err      error
}

type FindOption func(*findOptions)

// Where 追加 where 条件，多次调用以 and 连接
func Where(expr string, args ...any) FindOption {
	return func(o *findOptions) {
		if strings.TrimSpace(expr) == "" {
			if len(args) > 0 {
				o.err = errors.Errorf("empty expression with %d args", len(args))
			}
			return
		}
		if o.where != "" {
			o.where = "(" + o.where + ") and (" + expr + ")"
		} else {
			o.where = expr
		}
		o.args = append(o.args, args...)
	}
}

// WhereCond 使用条件构造器生成 where 条件
func WhereCond(c cond.Condition) FindOption {
	return func(o *findOptions) {
		expr, args, err := c.ToSQL()
		if err != nil {
			o.err = err
			return
		}
		Where(expr, args...)(o)
	}
}

func OrderBy(expr string) FindOption {
	return func(o *findOptions) { o.orderBy = expr }
}

// Limit 只传 count，或者传 offset, count
func Limit(n ...int) FindOption {
	return func(o *findOptions) {
		o.limit = n
		o.hasLimit = true
	}
}

func newFindOptions(opts []FindOption) (*findOptions, error) {
	o := &findOptions{}
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return nil, &InvalidArgumentError{Name: "where", Reason: o.err.Error()}
	}
	if o.hasLimit {
		if len(o.limit) != 1 && len(o.limit) != 2 {
			return nil, &InvalidArgumentError{Name: "limit", Reason: "expect count or (offset, count)"}
		}
		for _, n := range o.limit {
			if n < 0 {
				return nil, &InvalidArgumentError{Name: "limit", Reason: "negative value"}
			}
		}
	}
	return o, nil
}

// buildFindAll 子句顺序 where, order by, limit，参数顺序与之一致
func buildFindAll(meta *TableMetadata, opts []FindOption) (string, []any, error) {
	o, err := newFindOptions(opts)
	if err != nil {
		return "", nil, err
	}

	var b strings.Builder
	b.WriteString(meta.selectSQL)
	var args []any
	if o.where != "" {
		b.WriteString(" where ")
		b.WriteString(o.where)
		args = append(args, o.args...)
	}
	if o.orderBy != "" {
		b.WriteString(" order by ")
		b.WriteString(o.orderBy)
	}
	if o.hasLimit {
		if len(o.limit) == 1 {
			b.WriteString(" limit ?")
			args = append(args, o.limit[0])
		} else {
			b.WriteString(" limit ?, ?")
			args = append(args, o.limit[0], o.limit[1])
		}
	}
	return b.String(), args, nil
}

const numberAlias = "_value_"

func buildFindNumber(meta *TableMetadata, expr string, opts []FindOption) (string, []any, error) {
	if strings.TrimSpace(expr) == "" {
		return "", nil, &InvalidArgumentError{Name: "expr", Reason: "empty aggregate expression"}
	}
	o, err := newFindOptions(opts)
	if err != nil {
		return "", nil, err
	}
	if o.orderBy != "" || o.hasLimit {
		return "", nil, &InvalidArgumentError{Name: "opts", Reason: "findNumber accepts where only"}
	}

	query := "select " + expr + " as " + numberAlias + " from " + quote(meta.table)
	if o.where != "" {
		query += " where " + o.where
	}
	return query, o.args, nil
}
