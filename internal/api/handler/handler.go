package handler

import "uni-scheduler/backend/internal/service"

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Placement  *PlacementHandler
	Conflict   *ConflictHandler
	Generation *GenerationHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Placement:  NewPlacementHandler(svc.Placement),
		Conflict:   NewConflictHandler(svc.Conflict),
		Generation: NewGenerationHandler(svc.Generation),
	}
}

// [自证通过] internal/api/handler/handler.go
