package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"payscope/internal/analyzer"
	"payscope/internal/model"
)

// AnalyzeRequest 分析请求
type AnalyzeRequest struct {
	FileID   string                 `json:"fileId"`
	Sheet    string                 `json:"sheet"`
	Category model.AnalysisCategory `json:"category"`
}

// Analyze 执行一次分析
// POST /api/analyze
func (h *Handler) Analyze(c *gin.Context) {
	var req AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "请求格式错误"})
		return
	}

	dataset, err := h.openDataset(req.FileID, req.Sheet)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "文件不存在或工作表无法解析"})
		return
	}

	rates, err := h.store.GetRateTable(req.Category.ID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取费率配置失败"})
		return
	}

	result, err := analyzer.Analyze(dataset, req.Category, rates)
	if err != nil {
		var dataErr *analyzer.DataError
		if errors.As(err, &dataErr) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": dataErr.Reason})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "分析失败"})
		return
	}

	c.JSON(http.StatusOK, result)
}
