package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"payscope/internal/model"
	"payscope/internal/rateconfig"
)

// RatesRequest 费率配置请求
// Text 为 "实体: 数值" 形式的自由文本，逐行解析
type RatesRequest struct {
	Text              string                  `json:"text"`
	CalculationMethod model.CalculationMethod `json:"calculationMethod"`
}

// GetRates 获取指定类别的费率表
// GET /api/rates/:category
func (h *Handler) GetRates(c *gin.Context) {
	categoryID := c.Param("category")

	table, err := h.store.GetRateTable(categoryID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取费率配置失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"categoryId": categoryID,
		"rates":      table,
	})
}

// ValidateRates 试解析费率配置文本（不落盘）
// POST /api/rates/:category/validate
func (h *Handler) ValidateRates(c *gin.Context) {
	req, ok := bindRatesRequest(c)
	if !ok {
		return
	}

	table, lineErrs := rateconfig.ParseText(req.Text)

	valid := true
	var rangeError string
	if err := table.Validate(req.CalculationMethod); err != nil {
		valid = false
		rangeError = err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"rates":      table,
		"errors":     lineErrs,
		"valid":      valid && len(lineErrs) == 0,
		"rangeError": rangeError,
	})
}

// PutRates 校验并保存指定类别的费率表
// PUT /api/rates/:category
func (h *Handler) PutRates(c *gin.Context) {
	categoryID := c.Param("category")

	req, ok := bindRatesRequest(c)
	if !ok {
		return
	}

	table, lineErrs := rateconfig.ParseText(req.Text)
	if len(table) == 0 {
		// 完全解析不出任何条目才视为配置错误
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "费率配置无法解析",
			"errors": lineErrs,
		})
		return
	}

	if err := table.Validate(req.CalculationMethod); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.PutRateTable(categoryID, table); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存费率配置失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"saved":  len(table),
		"errors": lineErrs,
	})
}

// bindRatesRequest 解析费率请求体并校验计算方式
func bindRatesRequest(c *gin.Context) (RatesRequest, bool) {
	var req RatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return req, false
	}

	if req.CalculationMethod == "" {
		req.CalculationMethod = model.MethodPercentage
	}
	if !req.CalculationMethod.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未知的计算方式: " + string(req.CalculationMethod)})
		return req, false
	}

	return req, true
}
