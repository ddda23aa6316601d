package model

import (
	"errors"
	"strings"
)

// CalculationMethod 收益计算方式
type CalculationMethod string

const (
	// MethodPercentage 按营收百分比计算收益
	MethodPercentage CalculationMethod = "percentage"
	// MethodFlatRate 按笔数乘以固定单价计算收益
	MethodFlatRate CalculationMethod = "flat_rate"
	// MethodSumOnly 仅汇总营收，不计算收益
	MethodSumOnly CalculationMethod = "sum_only"
)

// Valid 判断计算方式是否合法
func (m CalculationMethod) Valid() bool {
	switch m {
	case MethodPercentage, MethodFlatRate, MethodSumOnly:
		return true
	}
	return false
}

// AnalysisCategory 分析类别描述
// 声明实体列、金额列与计算方式，由外部选择/建议步骤产出，单次分析内不可变
type AnalysisCategory struct {
	Name              string            `json:"name"`
	EntityColumn      string            `json:"entityColumn"`
	AmountColumns     []string          `json:"amountColumns"`
	MarkerColumn      string            `json:"markerColumn,omitempty"` // 周期标记所在列，留空时自动解析
	CalculationMethod CalculationMethod `json:"calculationMethod"`
	Description       string            `json:"description,omitempty"`
}

// ID 生成类别唯一标识，用于费率表存储
// 规则：名称转小写，空格替换为下划线
func (c *AnalysisCategory) ID() string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c.Name)), " ", "_")
}

// Validate 校验类别描述本身的完整性
func (c *AnalysisCategory) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("category name is empty")
	}
	if strings.TrimSpace(c.EntityColumn) == "" {
		return errors.New("entity column is empty")
	}
	if len(c.AmountColumns) == 0 {
		return errors.New("no amount columns configured")
	}
	if !c.CalculationMethod.Valid() {
		return errors.New("unknown calculation method: " + string(c.CalculationMethod))
	}
	return nil
}

// ResolveMarkerColumn 解析周期标记所在列
// 优先使用显式配置；否则找列名中含 broker 的列（原始报表的周标记写在 Broker 列）；
// 最后退回实体列
func (c *AnalysisCategory) ResolveMarkerColumn(d *Dataset) string {
	if c.MarkerColumn != "" && d.HasColumn(c.MarkerColumn) {
		return c.MarkerColumn
	}
	for _, col := range d.Columns {
		if strings.Contains(strings.ToLower(col), "broker") {
			return col
		}
	}
	return c.EntityColumn
}

// BuiltinCategories 内置类别预设
// 供调用方跳过外部类别建议步骤时直接选用
func BuiltinCategories() []AnalysisCategory {
	return []AnalysisCategory{
		{
			Name:              "Dispatcher Earnings",
			EntityColumn:      "Dispatch",
			AmountColumns:     []string{"Total Rate"},
			CalculationMethod: MethodPercentage,
			Description:       "按调度员分组的营收与提成",
		},
		{
			Name:              "Driver Payments",
			EntityColumn:      "Driver",
			AmountColumns:     []string{"Total Rate"},
			CalculationMethod: MethodPercentage,
			Description:       "按司机分组的营收与应付",
		},
		{
			Name:              "Broker Performance",
			EntityColumn:      "Broker",
			AmountColumns:     []string{"Total Rate"},
			CalculationMethod: MethodSumOnly,
			Description:       "按货代分组的营收汇总",
		},
	}
}
