package cond

import "strings"

// BoolCond 组合条件
// Must 之间 and，Should 之间 or，MustNot 每项取反后 and
type BoolCond struct {
	Must    []Condition
	Should  []Condition
	MustNot []Condition
}

func And(conds ...Condition) *BoolCond {
	return &BoolCond{Must: conds}
}

func Or(conds ...Condition) *BoolCond {
	return &BoolCond{Should: conds}
}

func Not(conds ...Condition) *BoolCond {
	return &BoolCond{MustNot: conds}
}

func (c *BoolCond) Type() CondType {
	return CondTypeBool
}

func (c *BoolCond) ToSQL() (string, []any, error) {
	var conditions []string
	var args []any

	build := func(items []Condition, sep string, negate bool) error {
		if len(items) == 0 {
			return nil
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			sql, itemArgs, err := item.ToSQL()
			if err != nil {
				return err
			}
			if negate {
				sql = "not (" + sql + ")"
			} else {
				sql = "(" + sql + ")"
			}
			parts = append(parts, sql)
			args = append(args, itemArgs...)
		}
		conditions = append(conditions, "("+strings.Join(parts, sep)+")")
		return nil
	}

	if err := build(c.Must, " and ", false); err != nil {
		return "", nil, err
	}
	if err := build(c.Should, " or ", false); err != nil {
		return "", nil, err
	}
	if err := build(c.MustNot, " and ", true); err != nil {
		return "", nil, err
	}

	if len(conditions) == 0 {
		return "1=1", nil, nil
	}
	return strings.Join(conditions, " and "), args, nil
}
