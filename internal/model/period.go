package model

import "fmt"

// Period 报告周期
// Ordinal 为从标记行提取的序号，0 表示首个标记行之前的未分配周期
type Period struct {
	Ordinal int    `json:"ordinal"`
	Label   string `json:"label"`
}

// PeriodUnassigned 未分配周期（首个标记行之前的行）
var PeriodUnassigned = Period{Ordinal: 0, Label: "Before Week 1"}

// NewPeriod 根据序号创建周期
func NewPeriod(ordinal int) Period {
	if ordinal <= 0 {
		return PeriodUnassigned
	}
	return Period{
		Ordinal: ordinal,
		Label:   fmt.Sprintf("Week %d", ordinal),
	}
}
