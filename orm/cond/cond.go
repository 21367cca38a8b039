package cond

import (
	"strings"

	"github.com/pkg/errors"
)

// CondType 条件类型
type CondType string

const (
	CondTypeBool   CondType = "bool"
	CondTypeEq     CondType = "eq"
	CondTypeIn     CondType = "in"
	CondTypeRange  CondType = "range"
	CondTypeLike   CondType = "like"
	CondTypeExists CondType = "exists"
)

// Condition where 条件节点
// ToSQL 返回的表达式使用 ? 占位，参数顺序与占位符一致
type Condition interface {
	Type() CondType
	ToSQL() (string, []any, error)
}

// ErrEmptyField 条件没有指定列名
var ErrEmptyField = errors.New("condition field is empty")

func column(field string) (string, error) {
	if field == "" {
		return "", ErrEmptyField
	}
	return "`" + strings.ReplaceAll(field, "`", "``") + "`", nil
}
