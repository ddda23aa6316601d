package api

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"payscope/internal/config"
	"payscope/internal/model"
	"payscope/internal/store"
)

// Handler API 处理器
type Handler struct {
	store   *store.Store
	cfg     *config.AppConfig
	uploads *uploadStore
}

// NewHandler 创建 API 处理器
func NewHandler(store *store.Store, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:   store,
		cfg:     cfg,
		uploads: newUploadStore(),
	}
}

// RegisterRoutes 注册 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 文件上传与查看
	router.POST("/upload", h.Upload)
	router.GET("/files/:id/sheets", h.ListSheets)
	router.GET("/files/:id/columns", h.ListColumns)

	// 类别预设
	router.GET("/categories", h.ListCategories)

	// 分析
	router.POST("/analyze", h.Analyze)

	// 费率配置
	router.GET("/rates/:category", h.GetRates)
	router.POST("/rates/:category/validate", h.ValidateRates)
	router.PUT("/rates/:category", h.PutRates)
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	configured, err := h.store.ListCategories()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "读取配置状态失败"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":               "ok",
		"uploadedFiles":        h.uploads.Count(),
		"configuredCategories": configured,
	})
}

// ListCategories 获取内置类别预设
// GET /api/categories
func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": model.BuiltinCategories()})
}

// uploadStore 已上传文件登记表
type uploadStore struct {
	mu    sync.RWMutex
	files map[string]string // fileID -> 保存路径
}

// newUploadStore 创建登记表
func newUploadStore() *uploadStore {
	return &uploadStore{
		files: make(map[string]string),
	}
}

// Put 登记上传文件
func (u *uploadStore) Put(fileID, path string) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.files[fileID] = path
}

// Get 获取上传文件路径
func (u *uploadStore) Get(fileID string) (string, bool) {
	u.mu.RLock()
	defer u.mu.RUnlock()
	path, ok := u.files[fileID]
	return path, ok
}

// Count 获取登记数量
func (u *uploadStore) Count() int {
	u.mu.RLock()
	defer u.mu.RUnlock()
	return len(u.files)
}
