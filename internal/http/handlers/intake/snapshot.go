package intake

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/stockbook/internal/constants"
	"github.com/stockbook/internal/http/response"
	"github.com/stockbook/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadSnapshot 接收快照文件并在后台合并进目录。
// 响应立即返回 upload_id，进度通过轮询接口获取。
func (h *Handler) UploadSnapshot(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "snapshot file required", err)
		return
	}

	filename := filepath.Base(file.Filename)
	if !h.allowedExtension(filename) {
		respondError(c, response.CodeBadRequest, "unsupported file extension", nil)
		return
	}
	if h.Config.Intake.MaxSize > 0 && file.Size > h.Config.Intake.MaxSize {
		respondError(c, response.CodeBadRequest, "snapshot file too large", nil)
		return
	}

	// 同一快照处理中时拒绝并发导入
	existing, err := h.UploadRepo.GetByFilename(filename)
	if err != nil {
		respondError(c, response.CodeInternal, "snapshot lookup failed", err)
		return
	}
	if existing != nil && existing.Status == constants.UploadStatusProcessing {
		respondServiceError(c, service.ErrSnapshotProcessing, "")
		return
	}

	if err := os.MkdirAll(h.Config.Intake.ArchiveDir, 0o755); err != nil {
		respondError(c, response.CodeInternal, "archive dir unavailable", err)
		return
	}
	dst := filepath.Join(h.Config.Intake.ArchiveDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		respondError(c, response.CodeInternal, "snapshot save failed", err)
		return
	}

	uploadImages, _ := strconv.ParseBool(c.DefaultQuery("upload_images", "true"))
	uploadID := uuid.NewString()

	// 请求返回后 gin 上下文不可复用，日志实例先行捕获
	log := requestLog(c)
	go func() {
		_, err := h.IngestService.Ingest(context.Background(), dst, filename, service.IngestOptions{
			UploadImages: uploadImages,
			UploadID:     uploadID,
		})
		if err != nil {
			log.Warnw("snapshot_ingest_failed", "source_file", filename, "error", err)
		}
	}()

	response.Success(c, gin.H{
		"upload_id":   uploadID,
		"source_file": filename,
	})
}

// GetUploadProgress 轮询导入进度
func (h *Handler) GetUploadProgress(c *gin.Context) {
	uploadID := c.Param("upload_id")
	state, found, err := h.ProgressStore.Get(c.Request.Context(), uploadID)
	if err != nil {
		respondError(c, response.CodeInternal, "progress lookup failed", err)
		return
	}
	if !found {
		respondError(c, response.CodeNotFound, "upload not found", nil)
		return
	}
	response.Success(c, state)
}

// RetractSnapshot 撤回一份快照的全部贡献
func (h *Handler) RetractSnapshot(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	result, err := h.RetractionService.Retract(c.Request.Context(), filename)
	if err != nil {
		respondServiceError(c, err, "snapshot retraction failed")
		return
	}
	response.Success(c, result)
}

// SeasonalDrop 按在售快照下架缺席款式
func (h *Handler) SeasonalDrop(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "active snapshot file required", err)
		return
	}
	filename := filepath.Base(file.Filename)
	if !h.allowedExtension(filename) {
		respondError(c, response.CodeBadRequest, "unsupported file extension", nil)
		return
	}

	// 在售快照只读一次，不入归档
	tmp, err := os.CreateTemp("", "active-*"+filepath.Ext(filename))
	if err != nil {
		respondError(c, response.CodeInternal, "temp file unavailable", err)
		return
	}
	tmpPath := tmp.Name()
	tmp.Close()
	defer os.Remove(tmpPath)
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		respondError(c, response.CodeInternal, "snapshot save failed", err)
		return
	}

	result, err := h.SeasonalDropService.Drop(c.Request.Context(), tmpPath, filename)
	if err != nil {
		respondServiceError(c, err, "seasonal drop failed")
		return
	}
	response.Success(c, result)
}

func (h *Handler) allowedExtension(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, allowed := range h.Config.Intake.AllowedExtensions {
		if strings.ToLower(allowed) == ext {
			return true
		}
	}
	return false
}
