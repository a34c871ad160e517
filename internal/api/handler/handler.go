package handler

import (
	"github.com/d60-Lab/friend-graph/internal/service"
)

// Handler 聚合所有 HTTP 处理器
type Handler struct {
	userService service.UserService
}

func NewHandler(userService service.UserService) *Handler {
	return &Handler{userService: userService}
}
