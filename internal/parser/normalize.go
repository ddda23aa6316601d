package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// 金额清洗：仅保留数字、小数点和负号
var amountCleanRe = regexp.MustCompile(`[^0-9.\-]`)

// NormalizeAmount 将混杂的金额单元格文本转换为数值
// 支持: "$1,500"、"1500$"、"$1500$"、"1,500"、"(1500)"、"1752$+LUMPE" 及纯数字
// 空单元格、纯文本或清洗后无法解析的串返回 ok=false，由调用方计入跳过行
func NormalizeAmount(cell string) (float64, bool) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, false
	}

	// 括号表示负数: (1,500) => -1500
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	cleaned := amountCleanRe.ReplaceAllString(s, "")
	if !strings.ContainsAny(cleaned, "0123456789") {
		return 0, false
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		// 清洗后仍有歧义，例如 "1.2.3" 或 "12-34"
		return 0, false
	}

	if negative {
		value = -value
	}
	return value, true
}
