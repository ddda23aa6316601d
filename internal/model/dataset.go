package model

import "strings"

// SheetInfo 工作表信息
type SheetInfo struct {
	Name     string `json:"name"`
	RowCount int    `json:"rowCount"`
}

// Dataset 从上传文件解析出的有序数据集
// Columns 来自表头行，Rows 与表头按列索引对齐
type Dataset struct {
	Columns []string
	Rows    [][]string

	colIndex map[string]int
}

// NewDataset 创建数据集
// 列名去除首尾空白后建立索引，重名列保留第一个
func NewDataset(columns []string, rows [][]string) *Dataset {
	cleaned := make([]string, len(columns))
	colIndex := make(map[string]int, len(columns))
	for i, col := range columns {
		name := strings.TrimSpace(col)
		cleaned[i] = name
		if _, ok := colIndex[name]; !ok {
			colIndex[name] = i
		}
	}

	return &Dataset{
		Columns:  cleaned,
		Rows:     rows,
		colIndex: colIndex,
	}
}

// HasColumn 判断列是否存在
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.colIndex[strings.TrimSpace(name)]
	return ok
}

// Cell 获取指定行中某列的原始单元格值
// 列不存在或该行长度不足时返回空串
func (d *Dataset) Cell(row []string, column string) string {
	idx, ok := d.colIndex[strings.TrimSpace(column)]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Empty 判断数据集是否没有数据行
func (d *Dataset) Empty() bool {
	return d == nil || len(d.Rows) == 0
}
