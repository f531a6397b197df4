package handler

import (
	"Nexus/internal/api/dto"
	"Nexus/internal/pkg/response"
	"Nexus/internal/service"
	"strconv"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	messageService service.MessageService
}

func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

// SendMessage 发送消息接口
func (s *MessageHandler) SendMessage(c *gin.Context) {
	var req dto.SendMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	// 从 Context 中获取中间件解析出的当前用户 ID
	senderID := c.GetUint64("userID")

	res, err := s.messageService.SendMessage(c, senderID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetMessage 查询单条消息
func (s *MessageHandler) GetMessage(c *gin.Context) {
	userID := c.GetUint64("userID")

	res, err := s.messageService.GetMessage(c, userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// EditMessage 编辑消息接口
func (s *MessageHandler) EditMessage(c *gin.Context) {
	var req dto.EditMessageReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("userID")

	res, err := s.messageService.EditMessage(c, userID, c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// DeleteMessage 删除消息接口
func (s *MessageHandler) DeleteMessage(c *gin.Context) {
	userID := c.GetUint64("userID")

	if err := s.messageService.DeleteMessage(c, userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAsRead 标记已读接口
func (s *MessageHandler) MarkAsRead(c *gin.Context) {
	var req dto.MarkMessageReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("userID")

	if err := s.messageService.MarkAsRead(c, userID, req.MessageID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// AddReaction 添加表情回应
func (s *MessageHandler) AddReaction(c *gin.Context) {
	var req dto.ReactionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("userID")

	if err := s.messageService.AddReaction(c, userID, c.Param("id"), req.Emoji); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// RemoveReaction 移除表情回应
func (s *MessageHandler) RemoveReaction(c *gin.Context) {
	userID := c.GetUint64("userID")

	emoji := c.Query("emoji")
	if err := s.messageService.RemoveReaction(c, userID, c.Param("id"), emoji); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetChatHistory 获取历史消息
func (s *MessageHandler) GetChatHistory(c *gin.Context) {
	userID := c.GetUint64("userID")
	peerID, err := strconv.ParseUint(c.Query("peer_id"), 10, 64)
	if err != nil || peerID == 0 {
		response.Error(c, service.ErrParamInvalid)
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "50"))

	res, err := s.messageService.GetChatHistory(c, userID, peerID, page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// MarkConversationRead 会话级批量已读
func (s *MessageHandler) MarkConversationRead(c *gin.Context) {
	var req dto.MarkConversationReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("userID")

	count, err := s.messageService.MarkConversationRead(c, userID, req.PeerID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.MarkedCountDTO{MarkedCount: count})
}

// GetConversationList 获取会话列表
func (s *MessageHandler) GetConversationList(c *gin.Context) {
	userID := c.GetUint64("userID")
	res, err := s.messageService.GetConversationList(c, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetUnreadTotal 获取全局未读消息数
func (s *MessageHandler) GetUnreadTotal(c *gin.Context) {
	userID := c.GetUint64("userID")
	count, err := s.messageService.GetUnreadTotal(c, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.UnreadCountDTO{UnreadCount: count})
}
