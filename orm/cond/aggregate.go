package cond

// AggType 聚合函数
type AggType string

const (
	AggTypeCount AggType = "count"
	AggTypeSum   AggType = "sum"
	AggTypeAvg   AggType = "avg"
	AggTypeMax   AggType = "max"
	AggTypeMin   AggType = "min"
)

// Aggregate 单列聚合表达式，用于 Model.FindNumber
type Aggregate struct {
	Func  AggType
	Field string
}

func Count(field string) *Aggregate { return &Aggregate{Func: AggTypeCount, Field: field} }
func Sum(field string) *Aggregate   { return &Aggregate{Func: AggTypeSum, Field: field} }
func Avg(field string) *Aggregate   { return &Aggregate{Func: AggTypeAvg, Field: field} }
func Max(field string) *Aggregate   { return &Aggregate{Func: AggTypeMax, Field: field} }
func Min(field string) *Aggregate   { return &Aggregate{Func: AggTypeMin, Field: field} }

// Expr 如 sum(`likes`)，count 的列为空时为 count(*)
func (a *Aggregate) Expr() (string, error) {
	if a.Func == AggTypeCount && a.Field == "" {
		return "count(*)", nil
	}
	col, err := column(a.Field)
	if err != nil {
		return "", err
	}
	return string(a.Func) + "(" + col + ")", nil
}

// String 出错时返回空串，FindNumber 会拒绝空表达式
func (a *Aggregate) String() string {
	expr, _ := a.Expr()
	return expr
}
