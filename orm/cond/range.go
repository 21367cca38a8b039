package cond

import "strings"

// RangeCond 范围查询，未设置的边界忽略
type RangeCond struct {
	Field string
	Gt    any
	Gte   any
	Lt    any
	Lte   any
}

func Range(field string) *RangeCond {
	return &RangeCond{Field: field}
}

func (c *RangeCond) WithGt(v any) *RangeCond  { c.Gt = v; return c }
func (c *RangeCond) WithGte(v any) *RangeCond { c.Gte = v; return c }
func (c *RangeCond) WithLt(v any) *RangeCond  { c.Lt = v; return c }
func (c *RangeCond) WithLte(v any) *RangeCond { c.Lte = v; return c }

func (c *RangeCond) Type() CondType {
	return CondTypeRange
}

func (c *RangeCond) ToSQL() (string, []any, error) {
	col, err := column(c.Field)
	if err != nil {
		return "", nil, err
	}

	var conditions []string
	var args []any
	for _, b := range []struct {
		op string
		v  any
	}{{">", c.Gt}, {">=", c.Gte}, {"<", c.Lt}, {"<=", c.Lte}} {
		if b.v == nil {
			continue
		}
		conditions = append(conditions, col+b.op+"?")
		args = append(args, b.v)
	}

	if len(conditions) == 0 {
		return "1=1", nil, nil
	}
	return strings.Join(conditions, " and "), args, nil
}
