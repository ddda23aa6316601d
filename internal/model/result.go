package model

// EntityBreakdown 单实体的聚合结果
type EntityBreakdown struct {
	Name       string  `json:"name"`
	Revenue    float64 `json:"revenue"`
	Earnings   float64 `json:"earnings"`
	Rate       float64 `json:"rate"`
	Configured bool    `json:"configured"`
	Rows       int     `json:"rows"` // 参与汇总的行数
}

// PeriodBreakdown 单周期的聚合结果
// Entities 以归一化实体键索引
type PeriodBreakdown struct {
	Period   Period                      `json:"period"`
	Entities map[string]*EntityBreakdown `json:"entities"`
	Revenue  float64                     `json:"revenue"`
	Earnings float64                     `json:"earnings"`
}

// OverallBreakdown 跨周期的总计
type OverallBreakdown struct {
	Entities      map[string]*EntityBreakdown `json:"entities"`
	TotalRevenue  float64                     `json:"totalRevenue"`
	TotalEarnings float64                     `json:"totalEarnings"`
}

// Result 一次分析的完整聚合结果
// Periods 按周期序号升序排列；SkippedRows 与 Unconfigured 始终回报给调用方
type Result struct {
	Category     AnalysisCategory   `json:"category"`
	Periods      []*PeriodBreakdown `json:"periods"`
	Overall      *OverallBreakdown  `json:"overall"`
	SkippedRows  int                `json:"skippedRows"`
	Unconfigured []string           `json:"unconfigured"`
}
