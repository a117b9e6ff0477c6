package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"community-board/internal/dto"
	"community-board/internal/service"
)

// BlockHandler 封装了用户屏蔽相关的 HTTP 处理逻辑
type BlockHandler struct {
	blockService *service.BlockService
}

// NewBlockHandler 创建 BlockHandler 实例
func NewBlockHandler(blockService *service.BlockService) *BlockHandler {
	if blockService == nil {
		panic("BlockService cannot be nil for BlockHandler")
	}
	return &BlockHandler{blockService: blockService}
}

// Block 处理 POST /api/users/:userId/block
func (h *BlockHandler) Block(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := uintParam(c, "userId")
	if !ok {
		return
	}

	if err := h.blockService.BlockUser(c.Request.Context(), userID, targetID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "User blocked"})
}

// Unblock 处理 DELETE /api/users/:userId/block
func (h *BlockHandler) Unblock(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	targetID, ok := uintParam(c, "userId")
	if !ok {
		return
	}

	if err := h.blockService.UnblockUser(c.Request.Context(), userID, targetID); err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, gin.H{"message": "User unblocked"})
}

// List 处理 GET /api/users/blocks
func (h *BlockHandler) List(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	blocks, err := h.blockService.ListBlocked(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}
	SuccessResponse(c, http.StatusOK, dto.NewBlockResponses(blocks))
}
