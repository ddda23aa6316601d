package model

import (
	"fmt"
	"strings"
)

// RateEntry 单个实体的费率配置
// Name 保留配置时的原始写法，用于展示
type RateEntry struct {
	Name string  `json:"name"`
	Rate float64 `json:"rate"`
}

// RateTable 归一化实体键到费率的映射
// 键统一为去除首尾空白并转小写后的实体名
type RateTable map[string]RateEntry

// EntityKey 归一化实体键
func EntityKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Set 写入一条费率配置
func (t RateTable) Set(name string, rate float64) {
	t[EntityKey(name)] = RateEntry{
		Name: strings.TrimSpace(name),
		Rate: rate,
	}
}

// Lookup 按实体名查找费率（大小写不敏感）
func (t RateTable) Lookup(name string) (RateEntry, bool) {
	entry, ok := t[EntityKey(name)]
	return entry, ok
}

// Validate 按计算方式校验费率取值范围
// percentage 必须在 [0,100]，其余方式必须非负
func (t RateTable) Validate(method CalculationMethod) error {
	for _, entry := range t {
		if entry.Rate < 0 {
			return fmt.Errorf("rate for %s is negative: %v", entry.Name, entry.Rate)
		}
		if method == MethodPercentage && entry.Rate > 100 {
			return fmt.Errorf("percentage rate for %s exceeds 100: %v", entry.Name, entry.Rate)
		}
	}
	return nil
}
