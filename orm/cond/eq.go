package cond

// EqCond 精确匹配，Value 为 nil 时生成 is null
type EqCond struct {
	Field string
	Value any
}

func Eq(field string, value any) *EqCond {
	return &EqCond{Field: field, Value: value}
}

func (c *EqCond) Type() CondType {
	return CondTypeEq
}

func (c *EqCond) ToSQL() (string, []any, error) {
	col, err := column(c.Field)
	if err != nil {
		return "", nil, err
	}
	if c.Value == nil {
		return col + " is null", nil, nil
	}
	return col + "=?", []any{c.Value}, nil
}

// InCond 集合匹配
type InCond struct {
	Field  string
	Values []any
}

func In(field string, values ...any) *InCond {
	return &InCond{Field: field, Values: values}
}

func (c *InCond) Type() CondType {
	return CondTypeIn
}

// ToSQL 空集合不匹配任何记录
func (c *InCond) ToSQL() (string, []any, error) {
	col, err := column(c.Field)
	if err != nil {
		return "", nil, err
	}
	if len(c.Values) == 0 {
		return "1=0", nil, nil
	}
	marks := make([]byte, 0, len(c.Values)*2)
	for i := range c.Values {
		if i > 0 {
			marks = append(marks, ',')
		}
		marks = append(marks, '?')
	}
	args := make([]any, len(c.Values))
	copy(args, c.Values)
	return col + " in (" + string(marks) + ")", args, nil
}
