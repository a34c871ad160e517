package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/friend-graph/pkg/response"
)

// Graph 图数据
// @Summary 关系图（节点 + 去重后的边）
// @Tags 关系图
// @Produce json
// @Success 200 {object} service.GraphData
// @Failure 500 {object} response.ErrorResponse
// @Router /api/graph [get]
func (h *Handler) Graph(c *gin.Context) {
	g, err := h.userService.Graph(c.Request.Context())
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Success(c, g)
}

// Health 健康检查
// @Summary 健康检查
// @Tags 系统
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
