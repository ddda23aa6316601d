package analyzer

import (
	"sort"
	"strings"

	"payscope/internal/model"
	"payscope/internal/parser"
)

// DataError 数据级错误
// 实体列缺失、数据集为空、金额列全部无法解析时整次分析失败
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return e.Reason
}

// group 按 (周期, 实体键) 累积的分组
type group struct {
	name    string // 数据中首次出现的实体写法
	revenue float64
	rows    int
}

// Analyze 对清洗后的数据集执行分组聚合
// 金额清洗与周期标注各自对行做一次线性扫描，结果按行号合并；
// 给定 (dataset, category, rates) 三元组时结果纯确定，可安全重试
func Analyze(dataset *model.Dataset, category model.AnalysisCategory, rates model.RateTable) (*model.Result, error) {
	if err := category.Validate(); err != nil {
		return nil, &DataError{Reason: err.Error()}
	}
	if dataset.Empty() {
		return nil, &DataError{Reason: "dataset is empty"}
	}
	if !dataset.HasColumn(category.EntityColumn) {
		return nil, &DataError{Reason: "entity column not found: " + category.EntityColumn}
	}

	// 只保留数据集中真实存在的金额列
	amountColumns := make([]string, 0, len(category.AmountColumns))
	for _, col := range category.AmountColumns {
		if dataset.HasColumn(col) {
			amountColumns = append(amountColumns, col)
		}
	}
	if len(amountColumns) == 0 {
		return nil, &DataError{Reason: "no amount columns resolvable"}
	}

	markerColumn := category.ResolveMarkerColumn(dataset)
	periods, markers := parser.Segment(dataset, markerColumn, amountColumns)

	groups := make(map[model.Period]map[string]*group)
	skipped := 0

	for i, row := range dataset.Rows {
		// 标记行本身不产生可汇总数据
		if markers[i] {
			continue
		}

		entity := strings.TrimSpace(dataset.Cell(row, category.EntityColumn))
		if entity == "" {
			skipped++
			continue
		}

		revenue := 0.0
		normalized := false
		for _, col := range amountColumns {
			if v, ok := parser.NormalizeAmount(dataset.Cell(row, col)); ok {
				revenue += v
				normalized = true
			}
		}
		// 所有金额列都清洗失败的行计入跳过，不报错
		if !normalized {
			skipped++
			continue
		}

		period := periods[i]
		byEntity, ok := groups[period]
		if !ok {
			byEntity = make(map[string]*group)
			groups[period] = byEntity
		}

		key := model.EntityKey(entity)
		g, ok := byEntity[key]
		if !ok {
			g = &group{name: entity}
			byEntity[key] = g
		}
		g.revenue += revenue
		g.rows++
	}

	result := &model.Result{
		Category:    category,
		Periods:     make([]*model.PeriodBreakdown, 0, len(groups)),
		SkippedRows: skipped,
	}

	// 周期按序号升序输出，与标记行在文件中的出现顺序无关
	orderedPeriods := make([]model.Period, 0, len(groups))
	for period := range groups {
		orderedPeriods = append(orderedPeriods, period)
	}
	sort.Slice(orderedPeriods, func(i, j int) bool {
		return orderedPeriods[i].Ordinal < orderedPeriods[j].Ordinal
	})

	unconfigured := make(map[string]string)
	for _, period := range orderedPeriods {
		breakdown := &model.PeriodBreakdown{
			Period:   period,
			Entities: make(map[string]*model.EntityBreakdown),
		}
		for key, g := range groups[period] {
			entity := applyMethod(g, key, category.CalculationMethod, rates)
			breakdown.Entities[key] = entity
			breakdown.Revenue += entity.Revenue
			breakdown.Earnings += entity.Earnings
			if !entity.Configured {
				unconfigured[key] = entity.Name
			}
		}
		result.Periods = append(result.Periods, breakdown)
	}

	result.Overall = buildOverall(groups, category.CalculationMethod, rates)

	names := make([]string, 0, len(unconfigured))
	for _, name := range unconfigured {
		names = append(names, name)
	}
	sort.Strings(names)
	result.Unconfigured = names

	return result, nil
}

// applyMethod 将计算方式应用到单个分组
func applyMethod(g *group, key string, method model.CalculationMethod, rates model.RateTable) *model.EntityBreakdown {
	entry, configured := rates[key]

	name := g.name
	if configured && entry.Name != "" {
		// 配置中的写法优先，保证报表口径一致
		name = entry.Name
	}

	breakdown := &model.EntityBreakdown{
		Name:       name,
		Revenue:    g.revenue,
		Rate:       entry.Rate,
		Configured: configured,
		Rows:       g.rows,
	}

	switch method {
	case model.MethodSumOnly:
		// 仅汇总时费率表无意义，所有实体视为已配置
		breakdown.Rate = 0
		breakdown.Configured = true
		breakdown.Earnings = g.revenue
	case model.MethodPercentage:
		breakdown.Earnings = g.revenue * entry.Rate / 100
	case model.MethodFlatRate:
		// 单价 × 笔数
		breakdown.Earnings = entry.Rate * float64(g.rows)
	}

	return breakdown
}

// buildOverall 跨周期重新聚合（包含未分配周期），不复用各周期的中间结果
func buildOverall(groups map[model.Period]map[string]*group, method model.CalculationMethod, rates model.RateTable) *model.OverallBreakdown {
	totals := make(map[string]*group)
	for _, byEntity := range groups {
		for key, g := range byEntity {
			total, ok := totals[key]
			if !ok {
				total = &group{name: g.name}
				totals[key] = total
			}
			total.revenue += g.revenue
			total.rows += g.rows
		}
	}

	overall := &model.OverallBreakdown{
		Entities: make(map[string]*model.EntityBreakdown),
	}
	for key, g := range totals {
		entity := applyMethod(g, key, method, rates)
		overall.Entities[key] = entity
		overall.TotalRevenue += entity.Revenue
		overall.TotalEarnings += entity.Earnings
	}

	// 费率表里有、数据里没有的实体以零营收列入总计，保证报表名单完整
	for key, entry := range rates {
		if _, ok := overall.Entities[key]; ok {
			continue
		}
		breakdown := &model.EntityBreakdown{
			Name:       entry.Name,
			Rate:       entry.Rate,
			Configured: true,
		}
		if method == model.MethodSumOnly {
			breakdown.Rate = 0
		}
		overall.Entities[key] = breakdown
	}

	return overall
}
