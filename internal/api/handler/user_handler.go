package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/friend-graph/internal/service"
	"github.com/d60-Lab/friend-graph/pkg/response"
)

type friendRequest struct {
	FriendID string `json:"friendId" binding:"required" example:"6f1c2a9e-0d4b-4c55-9a57-2f3b1e7c8d90"`
}

type popularityResponse struct {
	ID              string  `json:"id"`
	PopularityScore float64 `json:"popularityScore"`
}

// ListUsers 查询全部用户
// @Summary 用户列表（含好友与人气分）
// @Tags 用户
// @Produce json
// @Success 200 {array} service.UserView
// @Failure 500 {object} response.ErrorResponse
// @Router /api/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, users)
}

// GetUser 查询单个用户
// @Summary 用户详情
// @Tags 用户
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} service.UserView
// @Failure 404 {object} response.ErrorResponse
// @Router /api/users/{id} [get]
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// CreateUser 创建用户
// @Summary 创建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body service.CreateUserInput true "用户信息"
// @Success 201 {object} service.UserView
// @Failure 400 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req service.CreateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.userService.CreateUser(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, user)
}

// UpdateUser 部分更新用户
// @Summary 更新用户（username / age / hobbies 任选）
// @Tags 用户
// @Accept json
// @Produce json
// @Param id path string true "用户ID"
// @Param request body service.UpdateUserInput true "待更新字段"
// @Success 200 {object} service.UserView
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/users/{id} [put]
func (h *Handler) UpdateUser(c *gin.Context) {
	var req service.UpdateUserInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.userService.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// DeleteUser 删除用户（必须先解除所有好友关系）
// @Summary 删除用户
// @Tags 用户
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} response.MessageResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.userService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, "User deleted successfully")
}

// Link 建立好友关系
// @Summary 添加好友（无向，重复或反向重复返回 409）
// @Tags 好友关系
// @Accept json
// @Produce json
// @Param id path string true "用户ID"
// @Param request body friendRequest true "好友ID"
// @Success 200 {object} service.UserView
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 409 {object} response.ErrorResponse
// @Router /api/users/{id}/link [post]
func (h *Handler) Link(c *gin.Context) {
	var req friendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "friendId is required")
		return
	}
	id := c.Param("id")
	ctx := c.Request.Context()
	if err := h.userService.CreateFriendship(ctx, id, req.FriendID); err != nil {
		response.Error(c, err)
		return
	}
	user, err := h.userService.GetUser(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// Unlink 解除好友关系
// @Summary 解除好友
// @Tags 好友关系
// @Accept json
// @Produce json
// @Param id path string true "用户ID"
// @Param request body friendRequest true "好友ID"
// @Success 200 {object} service.UserView
// @Failure 400 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /api/users/{id}/unlink [delete]
func (h *Handler) Unlink(c *gin.Context) {
	var req friendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "friendId is required")
		return
	}
	id := c.Param("id")
	ctx := c.Request.Context()
	removed, err := h.userService.RemoveFriendship(ctx, id, req.FriendID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !removed {
		response.Error(c, service.ErrFriendshipNotFound)
		return
	}
	user, err := h.userService.GetUser(ctx, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, user)
}

// Popularity 查询人气分
// @Summary 人气分（未知用户返回 0）
// @Tags 用户
// @Produce json
// @Param id path string true "用户ID"
// @Success 200 {object} popularityResponse
// @Router /api/users/{id}/popularity [get]
func (h *Handler) Popularity(c *gin.Context) {
	id := c.Param("id")
	score, err := h.userService.ComputePopularity(c.Request.Context(), id)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, popularityResponse{ID: id, PopularityScore: score})
}
