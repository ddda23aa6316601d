package rateconfig

import (
	"strconv"
	"strings"

	"payscope/internal/model"
)

// LineError 单行解析错误
// 解析始终尽力而为：坏行只记录诊断，不中断其余行
type LineError struct {
	Line   int    `json:"line"`
	Text   string `json:"text"`
	Reason string `json:"reason"`
}

// ParseText 解析 "实体: 数值" 形式的费率配置文本
// 每行独立解析；数值允许携带 %、$ 和千分位逗号。
// 返回尽力解析出的费率表和逐行诊断，调用方自行决定是否继续
func ParseText(text string) (model.RateTable, []LineError) {
	table := make(model.RateTable)
	var errs []LineError

	for i, line := range strings.Split(strings.TrimSpace(text), "\n") {
		lineNo := i + 1
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		name, valueText, found := strings.Cut(trimmed, ":")
		if !found {
			errs = append(errs, LineError{Line: lineNo, Text: trimmed, Reason: "missing ':' separator"})
			continue
		}

		name = strings.TrimSpace(name)
		if name == "" {
			errs = append(errs, LineError{Line: lineNo, Text: trimmed, Reason: "empty entity name"})
			continue
		}

		value, err := parseRateValue(valueText)
		if err != nil {
			errs = append(errs, LineError{Line: lineNo, Text: trimmed, Reason: "invalid rate value: " + strings.TrimSpace(valueText)})
			continue
		}

		table.Set(name, value)
	}

	return table, errs
}

// parseRateValue 清洗并解析费率数值
func parseRateValue(text string) (float64, error) {
	cleaned := strings.NewReplacer("%", "", "$", "", ",", "").Replace(text)
	return strconv.ParseFloat(strings.TrimSpace(cleaned), 64)
}
