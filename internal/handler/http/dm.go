package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"community-board/internal/dto"
	"community-board/internal/middleware"
	"community-board/internal/service"
)

// DmHandler 封装了私信相关的 HTTP 处理逻辑
type DmHandler struct {
	dmService *service.DmService
}

// NewDmHandler 创建 DmHandler 实例
func NewDmHandler(dmService *service.DmService) *DmHandler {
	if dmService == nil {
		panic("DmService cannot be nil for DmHandler")
	}
	return &DmHandler{dmService: dmService}
}

// SendDm 处理 POST /api/dm
func (h *DmHandler) SendDm(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req dto.SendDmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logrus.WithError(err).Warn("Handler.SendDm: Invalid input format")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "details": err.Error()})
		return
	}

	dm, err := h.dmService.SendDm(c.Request.Context(), middleware.CurrentNickname(c), userID, req.ReceiverID, req.Content)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, dto.NewDmResponse(*dm))
}

// GetDmList 处理 GET /api/dm/rooms/:roomId?cursor=&limit=
func (h *DmHandler) GetDmList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := uintParam(c, "roomId")
	if !ok {
		return
	}

	var query dto.DmPageQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query", "details": err.Error()})
		return
	}

	page, err := h.dmService.GetDmListWithCursorBasedPaging(c.Request.Context(), userID, roomID, query.Cursor, query.Limit)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, dto.NewDmPageResponse(page))
}

// DeleteRoom 处理 DELETE /api/dm/rooms/:roomId
func (h *DmHandler) DeleteRoom(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}
	roomID, ok := uintParam(c, "roomId")
	if !ok {
		return
	}

	if err := h.dmService.DeleteRoom(c.Request.Context(), userID, roomID); err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, gin.H{"message": "Room deleted"})
}

// GetRoomList 处理 GET /api/dm/rooms
func (h *DmHandler) GetRoomList(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	rooms, err := h.dmService.FindRoomList(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, dto.NewRoomSummaryResponses(rooms))
}

// GetUnreadCount 处理 GET /api/dm/unread-count
func (h *DmHandler) GetUnreadCount(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	count, err := h.dmService.FindUnreadDmCount(c.Request.Context(), userID)
	if err != nil {
		HandleServiceError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, dto.UnreadCountResponse{UnreadCount: count})
}
