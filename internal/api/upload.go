package api

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"payscope/internal/config"
	"payscope/internal/model"
	"payscope/internal/parser"
)

// UploadResponse 上传响应
type UploadResponse struct {
	FileID   string            `json:"fileId"`
	Filename string            `json:"filename"`
	Sheets   []model.SheetInfo `json:"sheets"`
}

// Upload 上传 Excel 文件
// POST /api/upload
func (h *Handler) Upload(c *gin.Context) {
	uploadedFile, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "未找到上传文件"})
		return
	}

	p := parser.NewParser()

	dataDir, err := config.EnsureDataDir(h.cfg)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "数据目录不可用"})
		return
	}
	savePath := filepath.Join(dataDir, "uploads", fmt.Sprintf("%s_%s", p.FileID(), filepath.Base(uploadedFile.Filename)))

	if err := c.SaveUploadedFile(uploadedFile, savePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "保存文件失败"})
		return
	}

	// 立即解析一次，校验文件有效并取回工作表清单
	f, err := os.Open(savePath)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取文件失败"})
		return
	}
	defer f.Close()

	if err := p.LoadFile(f); err != nil {
		os.Remove(savePath)
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 Excel 文件"})
		return
	}
	defer p.Close()

	sheets, err := p.Sheets()
	if err != nil || len(sheets) == 0 {
		os.Remove(savePath)
		c.JSON(http.StatusBadRequest, gin.H{"error": "文件中没有可用工作表"})
		return
	}

	h.uploads.Put(p.FileID(), savePath)

	c.JSON(http.StatusOK, UploadResponse{
		FileID:   p.FileID(),
		Filename: uploadedFile.Filename,
		Sheets:   sheets,
	})
}

// ListSheets 获取上传文件的工作表列表
// GET /api/files/:id/sheets
func (h *Handler) ListSheets(c *gin.Context) {
	p, err := h.openUpload(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "文件不存在或已过期"})
		return
	}
	defer p.Close()

	sheets, err := p.Sheets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取工作表失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"sheets": sheets})
}

// ListColumns 获取指定工作表的列名
// GET /api/files/:id/columns?sheet=Sheet1
func (h *Handler) ListColumns(c *gin.Context) {
	dataset, err := h.openDataset(c.Param("id"), c.Query("sheet"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"columns":  dataset.Columns,
		"rowCount": len(dataset.Rows),
	})
}

// openUpload 按文件ID重新打开已上传的工作簿
func (h *Handler) openUpload(fileID string) (*parser.Parser, error) {
	path, ok := h.uploads.Get(fileID)
	if !ok {
		return nil, fmt.Errorf("file not found: %s", fileID)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	p := parser.NewParser()
	if err := p.LoadFile(f); err != nil {
		return nil, err
	}
	return p, nil
}

// openDataset 按文件ID和工作表名解析数据集
// sheet 为空时取第一个工作表
func (h *Handler) openDataset(fileID, sheet string) (*model.Dataset, error) {
	p, err := h.openUpload(fileID)
	if err != nil {
		return nil, err
	}
	defer p.Close()

	if sheet == "" {
		sheets, err := p.Sheets()
		if err != nil || len(sheets) == 0 {
			return nil, fmt.Errorf("no sheets available")
		}
		sheet = sheets[0].Name
	}

	return p.Dataset(sheet)
}
