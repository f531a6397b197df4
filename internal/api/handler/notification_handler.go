package handler

import (
	"Nexus/internal/api/dto"
	"Nexus/internal/pkg/response"
	"Nexus/internal/service"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notifyService service.NotificationService
}

func NewNotificationHandler(notifyService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifyService: notifyService}
}

// CreateNotification 创建通知，仅限管理员或内部调用
func (s *NotificationHandler) CreateNotification(c *gin.Context) {
	var req dto.CreateNotificationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	res, err := s.notifyService.CreateNotification(c, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetNotificationList 获取通知列表
func (s *NotificationHandler) GetNotificationList(c *gin.Context) {
	var req dto.NotificationListReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("userID")

	res, err := s.notifyService.GetNotificationList(c, userID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetNotification 查询单条通知
func (s *NotificationHandler) GetNotification(c *gin.Context) {
	userID := c.GetUint64("userID")

	res, err := s.notifyService.GetNotification(c, userID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// MarkAsRead 标记单条通知已读
func (s *NotificationHandler) MarkAsRead(c *gin.Context) {
	var req dto.MarkNotifyReadReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("userID")

	if err := s.notifyService.MarkAsRead(c, userID, req.NotificationID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// MarkAllAsRead 全部标记已读
func (s *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID := c.GetUint64("userID")

	count, err := s.notifyService.MarkAllAsRead(c, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.MarkedCountDTO{MarkedCount: count})
}

// Archive 归档通知
func (s *NotificationHandler) Archive(c *gin.Context) {
	var req dto.ArchiveNotifyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	userID := c.GetUint64("userID")

	if err := s.notifyService.Archive(c, userID, req.NotificationID); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}

// GetUnreadCount 获取未读通知数
func (s *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID := c.GetUint64("userID")

	count, err := s.notifyService.GetUnreadCount(c, userID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, &dto.UnreadCountDTO{UnreadCount: count})
}

// DeleteNotification 删除通知
func (s *NotificationHandler) DeleteNotification(c *gin.Context) {
	userID := c.GetUint64("userID")

	if err := s.notifyService.DeleteNotification(c, userID, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, nil)
}
