package analyzer

import (
	"errors"
	"math"
	"testing"

	"payscope/internal/model"
)

func dispatcherCategory(method model.CalculationMethod) model.AnalysisCategory {
	return model.AnalysisCategory{
		Name:              "Dispatcher Earnings",
		EntityColumn:      "Dispatch",
		AmountColumns:     []string{"Total Rate"},
		CalculationMethod: method,
	}
}

func weeklyDataset() *model.Dataset {
	return model.NewDataset(
		[]string{"Broker", "Dispatch", "Total Rate"},
		[][]string{
			{"Week 4", "", ""},
			{"ACME", "Java", "100"},
			{"TQL", "Java", "50$"},
			{"Week 5", "", ""},
			{"Coyote", "Java", "200"},
		},
	)
}

func ratesOf(pairs map[string]float64) model.RateTable {
	table := make(model.RateTable)
	for name, rate := range pairs {
		table.Set(name, rate)
	}
	return table
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestAnalyze_PercentageEndToEnd(t *testing.T) {
	t.Parallel()

	result, err := Analyze(weeklyDataset(), dispatcherCategory(model.MethodPercentage), ratesOf(map[string]float64{"Java": 10}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(result.Periods))
	}

	week4 := result.Periods[0]
	if week4.Period.Ordinal != 4 {
		t.Fatalf("first period: want week 4 got %+v", week4.Period)
	}
	java4 := week4.Entities["java"]
	if java4 == nil || !almostEqual(java4.Revenue, 150) || !almostEqual(java4.Earnings, 15) {
		t.Fatalf("week 4 java: %+v", java4)
	}

	week5 := result.Periods[1]
	java5 := week5.Entities["java"]
	if java5 == nil || !almostEqual(java5.Revenue, 200) || !almostEqual(java5.Earnings, 20) {
		t.Fatalf("week 5 java: %+v", java5)
	}

	if !almostEqual(result.Overall.TotalRevenue, 350) || !almostEqual(result.Overall.TotalEarnings, 35) {
		t.Fatalf("overall: revenue=%v earnings=%v", result.Overall.TotalRevenue, result.Overall.TotalEarnings)
	}
	if result.SkippedRows != 0 {
		t.Fatalf("expected no skipped rows, got %d", result.SkippedRows)
	}
	if len(result.Unconfigured) != 0 {
		t.Fatalf("expected no unconfigured entities, got %v", result.Unconfigured)
	}
}

func TestAnalyze_RevenueConservation(t *testing.T) {
	t.Parallel()

	d := model.NewDataset(
		[]string{"Broker", "Dispatch", "Total Rate"},
		[][]string{
			{"ACME", "Java", "10.10"},   // 首个标记前，归入未分配周期
			{"Week 2", "", ""},
			{"TQL", "Baxa", "$3,333.33"},
			{"Week 3", "", ""},
			{"Coyote", "Java", "(200)"},
			{"Landstar", "Mike", "99.99"},
		},
	)

	result, err := Analyze(d, dispatcherCategory(model.MethodPercentage), ratesOf(map[string]float64{"Java": 7.5}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	sum := 0.0
	for _, p := range result.Periods {
		sum += p.Revenue
	}
	if !almostEqual(sum, result.Overall.TotalRevenue) {
		t.Fatalf("conservation violated: periods=%v overall=%v", sum, result.Overall.TotalRevenue)
	}

	// 首个标记前的行单独回报，不被丢弃
	if result.Periods[0].Period != model.PeriodUnassigned {
		t.Fatalf("first period must be the unassigned one, got %+v", result.Periods[0].Period)
	}
}

func TestAnalyze_PeriodsOrderedByOrdinalNotDiscovery(t *testing.T) {
	t.Parallel()

	d := model.NewDataset(
		[]string{"Broker", "Dispatch", "Total Rate"},
		[][]string{
			{"Week 5", "", ""},
			{"ACME", "Java", "100"},
			{"Week 4", "", ""},
			{"TQL", "Java", "50"},
		},
	)

	result, err := Analyze(d, dispatcherCategory(model.MethodSumOnly), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Periods) != 2 {
		t.Fatalf("expected 2 periods, got %d", len(result.Periods))
	}
	if result.Periods[0].Period.Ordinal != 4 || result.Periods[1].Period.Ordinal != 5 {
		t.Fatalf("periods out of order: %+v %+v", result.Periods[0].Period, result.Periods[1].Period)
	}
}

func TestAnalyze_FlatRatePerContributingRow(t *testing.T) {
	t.Parallel()

	result, err := Analyze(weeklyDataset(), dispatcherCategory(model.MethodFlatRate), ratesOf(map[string]float64{"Java": 25}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	week4 := result.Periods[0].Entities["java"]
	if week4.Rows != 2 || !almostEqual(week4.Earnings, 50) {
		t.Fatalf("week 4: rows=%d earnings=%v", week4.Rows, week4.Earnings)
	}
	week5 := result.Periods[1].Entities["java"]
	if week5.Rows != 1 || !almostEqual(week5.Earnings, 25) {
		t.Fatalf("week 5: rows=%d earnings=%v", week5.Rows, week5.Earnings)
	}

	overall := result.Overall.Entities["java"]
	if overall.Rows != 3 || !almostEqual(overall.Earnings, 75) {
		t.Fatalf("overall: rows=%d earnings=%v", overall.Rows, overall.Earnings)
	}
}

func TestAnalyze_SumOnlyIgnoresRateTable(t *testing.T) {
	t.Parallel()

	result, err := Analyze(weeklyDataset(), dispatcherCategory(model.MethodSumOnly), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	overall := result.Overall.Entities["java"]
	if !overall.Configured {
		t.Fatalf("sum_only entities must always be configured")
	}
	if !almostEqual(overall.Earnings, overall.Revenue) {
		t.Fatalf("sum_only earnings must equal revenue: %+v", overall)
	}
	if len(result.Unconfigured) != 0 {
		t.Fatalf("sum_only must not report unconfigured entities: %v", result.Unconfigured)
	}
}

func TestAnalyze_UnconfiguredEntityIsSafe(t *testing.T) {
	t.Parallel()

	result, err := Analyze(weeklyDataset(), dispatcherCategory(model.MethodPercentage), ratesOf(nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	overall := result.Overall.Entities["java"]
	if overall.Configured {
		t.Fatalf("entity without a rate entry must be unconfigured")
	}
	if overall.Earnings != 0 {
		t.Fatalf("unconfigured entity must earn 0, got %v", overall.Earnings)
	}
	if len(result.Unconfigured) != 1 || result.Unconfigured[0] != "Java" {
		t.Fatalf("unconfigured list: %v", result.Unconfigured)
	}
}

func TestAnalyze_ConfiguredSpellingWinsAndRosterIsComplete(t *testing.T) {
	t.Parallel()

	rates := ratesOf(map[string]float64{"JAVA": 10, "Baxa": 5})

	result, err := Analyze(weeklyDataset(), dispatcherCategory(model.MethodPercentage), rates)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 费率表里的写法优先
	if got := result.Overall.Entities["java"].Name; got != "JAVA" {
		t.Fatalf("want configured spelling JAVA, got %q", got)
	}

	// 只在费率表出现的实体以零营收列入总计
	baxa := result.Overall.Entities["baxa"]
	if baxa == nil {
		t.Fatalf("configured-only entity missing from overall")
	}
	if baxa.Revenue != 0 || baxa.Earnings != 0 || !baxa.Configured {
		t.Fatalf("configured-only entity: %+v", baxa)
	}
	if !almostEqual(result.Overall.TotalRevenue, 350) {
		t.Fatalf("zero-revenue roster entries must not change totals: %v", result.Overall.TotalRevenue)
	}
}

func TestAnalyze_SkippedRowsAreCounted(t *testing.T) {
	t.Parallel()

	d := model.NewDataset(
		[]string{"Broker", "Dispatch", "Total Rate"},
		[][]string{
			{"Week 1", "", ""},
			{"ACME", "Java", "100"},
			{"TQL", "", "50"},       // 实体为空
			{"Coyote", "Java", "N/A"}, // 金额无法清洗
			{"Landstar", "Baxa", ""},  // 金额为空
		},
	)

	result, err := Analyze(d, dispatcherCategory(model.MethodSumOnly), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.SkippedRows != 3 {
		t.Fatalf("expected 3 skipped rows, got %d", result.SkippedRows)
	}
	if !almostEqual(result.Overall.TotalRevenue, 100) {
		t.Fatalf("overall revenue: %v", result.Overall.TotalRevenue)
	}
}

func TestAnalyze_DataErrors(t *testing.T) {
	t.Parallel()

	var dataErr *DataError

	// 空数据集
	empty := model.NewDataset([]string{"Dispatch", "Total Rate"}, nil)
	if _, err := Analyze(empty, dispatcherCategory(model.MethodPercentage), nil); !errors.As(err, &dataErr) {
		t.Fatalf("empty dataset: expected DataError, got %v", err)
	}

	// 实体列缺失
	d := model.NewDataset([]string{"Other", "Total Rate"}, [][]string{{"x", "100"}})
	if _, err := Analyze(d, dispatcherCategory(model.MethodPercentage), nil); !errors.As(err, &dataErr) {
		t.Fatalf("missing entity column: expected DataError, got %v", err)
	}

	// 金额列全部无法解析
	d = model.NewDataset([]string{"Dispatch", "Other"}, [][]string{{"Java", "100"}})
	if _, err := Analyze(d, dispatcherCategory(model.MethodPercentage), nil); !errors.As(err, &dataErr) {
		t.Fatalf("no amount columns: expected DataError, got %v", err)
	}
}
