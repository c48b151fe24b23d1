package handler

import (
	"github.com/gin-gonic/gin"

	"uni-scheduler/backend/internal/dto"
	"uni-scheduler/backend/internal/service"
	"uni-scheduler/backend/pkg/response"
)

// ConflictHandler 冲突查询 HTTP 处理器
type ConflictHandler struct {
	conflictSvc service.ConflictService
}

// NewConflictHandler 创建 ConflictHandler
func NewConflictHandler(conflictSvc service.ConflictService) *ConflictHandler {
	return &ConflictHandler{conflictSvc: conflictSvc}
}

// RoomConflicts 查询教室在指定时段的冲突排课
// GET /api/v1/conflicts/rooms
func (h *ConflictHandler) RoomConflicts(c *gin.Context) {
	var req dto.RoomConflictRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.conflictSvc.FindRoomConflicts(c.Request.Context(), &req)
	if err != nil {
		handlePlacementError(c, err)
		return
	}

	response.OK(c, result)
}

// ProfessorConflicts 查询教师在指定时段的冲突排课
// GET /api/v1/conflicts/professors
func (h *ConflictHandler) ProfessorConflicts(c *gin.Context) {
	var req dto.ProfessorConflictRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.conflictSvc.FindProfessorConflicts(c.Request.Context(), &req)
	if err != nil {
		handlePlacementError(c, err)
		return
	}

	response.OK(c, result)
}
