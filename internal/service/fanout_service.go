package service

import (
	"Nexus/internal/api/dto"
	"Nexus/internal/pkg/channel"
	"Nexus/internal/pkg/consts"
	"Nexus/internal/pkg/redis"
	"context"
	"strconv"
	"time"

	"github.com/goccy/go-json"
)

// FanoutService 实时推送服务接口定义：推送尽力而为，失败不影响落库结果
type FanoutService interface {
	PushToUser(userID uint64, event string, payload any)
	PushToProject(projectID uint64, event string, payload any)
	PushTyping(fromUserID, toUserID uint64, typing bool)
}

type fanoutServiceImpl struct {
	registry *channel.Registry
}

func NewFanoutService(registry *channel.Registry) FanoutService {
	return &fanoutServiceImpl{registry: registry}
}

// PushToUser 推送到接收者的【用户个人频道】，离线直接丢弃
func (s *fanoutServiceImpl) PushToUser(userID uint64, event string, payload any) {
	if !s.registry.IsOnline(userID) {
		return
	}
	s.publish(consts.IMUserKey+strconv.FormatUint(userID, 10), event, payload)
}

// PushToProject 推送到【项目频道】，由在线成员各自订阅
func (s *fanoutServiceImpl) PushToProject(projectID uint64, event string, payload any) {
	s.publish(consts.IMProjectKey+strconv.FormatUint(projectID, 10), event, payload)
}

// PushTyping 输入状态只走实时通道，不落库
func (s *fanoutServiceImpl) PushTyping(fromUserID, toUserID uint64, typing bool) {
	s.PushToUser(toUserID, "user_typing", &dto.TypingDTO{UserID: fromUserID, Typing: typing})
}

func (s *fanoutServiceImpl) publish(ch string, event string, payload any) {
	frame := &dto.ServerFrame{Type: event, Data: payload}
	data, err := json.Marshal(frame)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	_ = redis.Publish(ctx, ch, data)
}
