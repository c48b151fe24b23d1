package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"uni-scheduler/backend/internal/dto"
	"uni-scheduler/backend/internal/scheduler"
	"uni-scheduler/backend/internal/service"
	"uni-scheduler/backend/pkg/response"
)

// GenerationHandler 自动排课 HTTP 处理器
type GenerationHandler struct {
	generationSvc service.GenerationService
}

// NewGenerationHandler 创建 GenerationHandler
func NewGenerationHandler(generationSvc service.GenerationService) *GenerationHandler {
	return &GenerationHandler{generationSvc: generationSvc}
}

// Generate 按首次适配策略自动排课
// POST /api/v1/schedules/generate
//
// 课程列表非空但一门都未排入时返回 422，data 中包含每门课程的结果。
func (h *GenerationHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.generationSvc.Generate(c.Request.Context(), &req)
	if err != nil {
		// 中途失败：已提交部分随错误一并返回
		if result != nil && !isBusinessError(err) {
			response.ErrorWithData(c, http.StatusInternalServerError, 50000, "自动排课中断，已提交的排课已保留", result)
			return
		}
		handlePlacementError(c, err)
		return
	}

	if result.Status == string(scheduler.StatusNone) {
		response.ErrorWithData(c, http.StatusUnprocessableEntity, 16030, "没有课程能够排入", result)
		return
	}

	response.Created(c, result)
}

func isBusinessError(err error) bool {
	return errors.Is(err, service.ErrCourseNotFound) ||
		errors.Is(err, service.ErrInvalidTimeFormat) ||
		errors.Is(err, service.ErrGenerationInProgress)
}
