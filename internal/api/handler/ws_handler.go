package handler

import (
	"Nexus/internal/pkg/channel"
	"Nexus/internal/pkg/consts"
	"Nexus/internal/pkg/redis"
	"Nexus/internal/pkg/response"
	"Nexus/internal/pkg/security"
	"Nexus/internal/repository"
	"Nexus/internal/service"
	"context"
	log "log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/gorilla/websocket"
	goredis "github.com/redis/go-redis/v9"

	"Nexus/internal/api/dto"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type WsHandler struct {
	registry    *channel.Registry
	projectRepo repository.ProjectMemberRepo
	fanout      service.FanoutService
}

func NewWsHandler(registry *channel.Registry, projectRepo repository.ProjectMemberRepo, fanout service.FanoutService) *WsHandler {
	return &WsHandler{
		registry:    registry,
		projectRepo: projectRepo,
		fanout:      fanout,
	}
}

func (s *WsHandler) Connect(c *gin.Context) {
	// 鉴权
	token := c.Query("token")
	if token == "" {
		response.Error(c, service.UnauthorizedError)
		return
	}
	claims, err := security.ValidateToken(token)
	if err != nil {
		log.Warn("WS 鉴权失败", "err", err)
		response.Error(c, service.UnauthorizedError)
		return
	}
	userID := claims.UserID

	// 升级 Websocket
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error("WS 协议升级失败", "err", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	// 登记在线会话，离线期间的推送直接丢弃
	session := s.registry.Add(userID)
	defer s.registry.Remove(session)

	// 订阅用户个人频道，项目频道按需动态加订
	pubsub := redis.Subscribe(context.Background(), consts.IMUserKey+strconv.FormatUint(userID, 10))
	defer func() {
		_ = pubsub.Close()
	}()

	log.Info("用户 WS 连接已建立", "userID", userID)

	stopChan := make(chan struct{})

	// 读循环：处理客户端上行帧，连接断开时退出
	go func() {
		defer close(stopChan)
		joined := make(map[uint64]struct{})
		for {
			_, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var frame dto.ClientFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				continue
			}
			s.handleClientFrame(userID, &frame, pubsub, joined)
		}
	}()

	// 写循环：监听 Redis 并推送至客户端
	redisCh := pubsub.Channel()
	for {
		select {
		case msg := <-redisCh:
			_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				log.Error("WS 推送失败", "userID", userID, "err", err)
				return
			}
		case <-stopChan:
			log.Info("用户 WS 连接已断开", "userID", userID)
			return
		}
	}
}

// handleClientFrame 处理项目频道订阅与输入状态帧，重复加订/退订不报错
func (s *WsHandler) handleClientFrame(userID uint64, frame *dto.ClientFrame, pubsub *goredis.PubSub, joined map[uint64]struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	switch frame.Type {
	case "join_project":
		if _, ok := joined[frame.ProjectID]; ok {
			return
		}
		isMember, err := s.projectRepo.IsMember(ctx, frame.ProjectID, userID)
		if err != nil || !isMember {
			log.Warn("项目频道订阅被拒绝", "userID", userID, "projectID", frame.ProjectID, "err", err)
			return
		}
		if err := pubsub.Subscribe(ctx, consts.IMProjectKey+strconv.FormatUint(frame.ProjectID, 10)); err != nil {
			log.Error("项目频道订阅失败", "projectID", frame.ProjectID, "err", err)
			return
		}
		joined[frame.ProjectID] = struct{}{}
	case "leave_project":
		if _, ok := joined[frame.ProjectID]; !ok {
			return
		}
		_ = pubsub.Unsubscribe(ctx, consts.IMProjectKey+strconv.FormatUint(frame.ProjectID, 10))
		delete(joined, frame.ProjectID)
	case "typing_start":
		s.fanout.PushTyping(userID, frame.PeerID, true)
	case "typing_stop":
		s.fanout.PushTyping(userID, frame.PeerID, false)
	}
}
