package cond

import "strings"

// LikeCond 模式匹配，Pattern 原样传给 like
// Escape 非空时追加 escape 子句
type LikeCond struct {
	Field   string
	Pattern string
	Escape  string
}

func Like(field string, pattern string) *LikeCond {
	return &LikeCond{Field: field, Pattern: pattern}
}

// Prefix 前缀匹配，前缀中的 % 和 _ 会被转义
func Prefix(field string, prefix string) *LikeCond {
	return &LikeCond{Field: field, Pattern: escapeLike(prefix) + "%", Escape: likeEscape}
}

func (c *LikeCond) Type() CondType {
	return CondTypeLike
}

func (c *LikeCond) ToSQL() (string, []any, error) {
	col, err := column(c.Field)
	if err != nil {
		return "", nil, err
	}
	if c.Escape != "" {
		return col + " like ? escape '" + c.Escape + "'", []any{c.Pattern}, nil
	}
	return col + " like ?", []any{c.Pattern}, nil
}

// mysql 和 sqlite 对字符串字面量中反斜杠的处理不同，转义字符使用 !
const likeEscape = "!"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ExistsCond 字段非空
type ExistsCond struct {
	Field string
}

func Exists(field string) *ExistsCond {
	return &ExistsCond{Field: field}
}

func (c *ExistsCond) Type() CondType {
	return CondTypeExists
}

func (c *ExistsCond) ToSQL() (string, []any, error) {
	col, err := column(c.Field)
	if err != nil {
		return "", nil, err
	}
	return col + " is not null", nil, nil
}
