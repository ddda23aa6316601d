package parser

import (
	"regexp"
	"strconv"
	"strings"

	"payscope/internal/model"
)

// 周期标记: "Week 4" / "week4" / "WEEK  12"
var periodMarkerRe = regexp.MustCompile(`(?i)week\s*(\d+)`)

// ExtractPeriodOrdinal 从标记文本中提取周期序号
func ExtractPeriodOrdinal(text string) (int, bool) {
	matches := periodMarkerRe.FindStringSubmatch(text)
	if len(matches) < 2 {
		return 0, false
	}
	ordinal, err := strconv.Atoi(matches[1])
	if err != nil {
		return 0, false
	}
	return ordinal, true
}

// IsMarkerRow 判断某行是否为周期标记行
// 标记行要求标记列命中周期关键词，且所有金额列为空，
// 以区分真正的标记行和正文里顺带提到 week 字样的普通数据行
func IsMarkerRow(d *model.Dataset, row []string, markerColumn string, amountColumns []string) (int, bool) {
	ordinal, ok := ExtractPeriodOrdinal(d.Cell(row, markerColumn))
	if !ok {
		return 0, false
	}
	for _, col := range amountColumns {
		if strings.TrimSpace(d.Cell(row, col)) != "" {
			return 0, false
		}
	}
	return ordinal, true
}

// Segment 为数据集的每一行标注周期
// 标记行把当前周期切换为其序号并继续向后填充；首个标记行之前的行归入未分配周期。
// 返回与 d.Rows 一一对应的周期切片，以及标记行行号集合（标记行自身不参与汇总）。
// 周期标注只读取标记列与金额列的原始值，与金额清洗互不依赖，二者按行号合并
func Segment(d *model.Dataset, markerColumn string, amountColumns []string) ([]model.Period, map[int]bool) {
	periods := make([]model.Period, len(d.Rows))
	markers := make(map[int]bool)

	current := model.PeriodUnassigned
	for i, row := range d.Rows {
		if ordinal, ok := IsMarkerRow(d, row, markerColumn, amountColumns); ok {
			current = model.NewPeriod(ordinal)
			markers[i] = true
		}
		periods[i] = current
	}

	return periods, markers
}
