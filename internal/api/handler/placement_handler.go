package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"uni-scheduler/backend/internal/dto"
	"uni-scheduler/backend/internal/model"
	"uni-scheduler/backend/internal/service"
	pkgerrors "uni-scheduler/backend/pkg/errors"
	"uni-scheduler/backend/pkg/response"
)

// PlacementHandler 排课记录 HTTP 处理器
type PlacementHandler struct {
	placementSvc service.PlacementService
}

// NewPlacementHandler 创建 PlacementHandler
func NewPlacementHandler(placementSvc service.PlacementService) *PlacementHandler {
	return &PlacementHandler{placementSvc: placementSvc}
}

// ListPlacements 获取排课列表
// GET /api/v1/placements
func (h *PlacementHandler) ListPlacements(c *gin.Context) {
	var req dto.PlacementListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	placements, err := h.placementSvc.List(c.Request.Context(), &req)
	if err != nil {
		handlePlacementError(c, err)
		return
	}

	response.OK(c, gin.H{"list": placements})
}

// GetPlacement 获取排课详情
// GET /api/v1/placements/:id
func (h *PlacementHandler) GetPlacement(c *gin.Context) {
	id, ok := placementIDParam(c)
	if !ok {
		return
	}

	placement, err := h.placementSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		handlePlacementError(c, err)
		return
	}

	response.OK(c, placement)
}

// CreatePlacement 创建排课
// POST /api/v1/placements
func (h *PlacementHandler) CreatePlacement(c *gin.Context) {
	var req dto.CreatePlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	placement, err := h.placementSvc.Create(c.Request.Context(), &req)
	if err != nil {
		handlePlacementError(c, err)
		return
	}

	response.Created(c, placement)
}

// UpdatePlacement 更新排课
// PUT /api/v1/placements/:id
func (h *PlacementHandler) UpdatePlacement(c *gin.Context) {
	id, ok := placementIDParam(c)
	if !ok {
		return
	}

	var req dto.UpdatePlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	placement, err := h.placementSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		handlePlacementError(c, err)
		return
	}

	response.OK(c, placement)
}

// DeletePlacement 删除排课
// DELETE /api/v1/placements/:id
func (h *PlacementHandler) DeletePlacement(c *gin.Context) {
	id, ok := placementIDParam(c)
	if !ok {
		return
	}

	if err := h.placementSvc.Delete(c.Request.Context(), id); err != nil {
		handlePlacementError(c, err)
		return
	}

	response.OK(c, nil)
}

// placementIDParam 读取路径参数 id；非 UUID 的 id 不可能对应任何排课，直接返回 404
func placementIDParam(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "排课ID不能为空")
		return "", false
	}
	if _, err := uuid.Parse(id); err != nil || len(id) != 36 {
		response.NotFound(c, 16001, "排课记录不存在")
		return "", false
	}
	return id, true
}

// handlePlacementError 统一处理排课相关业务错误（冲突查询与自动排课共用）
func handlePlacementError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrPlacementNotFound):
		response.NotFound(c, 16001, "排课记录不存在")
	case errors.Is(err, service.ErrCourseNotFound):
		response.NotFound(c, 16002, "课程不存在")
	case errors.Is(err, service.ErrProfessorNotFound):
		response.NotFound(c, 16003, "教师不存在")
	case errors.Is(err, service.ErrRoomNotFound):
		response.NotFound(c, 16004, "教室不存在")
	case errors.Is(err, model.ErrInvalidInterval):
		response.BadRequest(c, 16010, "结束时间必须晚于开始时间")
	case errors.Is(err, service.ErrInvalidTimeFormat):
		response.BadRequest(c, 16011, "时间格式无效，应为 HH:MM 或 HH:MM:SS")
	case errors.Is(err, service.ErrRoomConflict):
		response.Conflict(c, 16020, "该教室在此时段已有安排")
	case errors.Is(err, service.ErrProfessorConflict):
		response.Conflict(c, 16021, "该教师在此时段已有安排")
	case errors.Is(err, service.ErrSlotTaken):
		response.Conflict(c, 16022, "时段已被占用，请重新选择")
	case errors.Is(err, pkgerrors.ErrOptimisticLock):
		response.Conflict(c, 16023, "排课已被其他操作修改，请刷新后重试")
	case errors.Is(err, service.ErrGenerationInProgress):
		response.Conflict(c, 16031, "该学期正在自动排课，请稍后重试")
	default:
		response.InternalError(c)
	}
}
