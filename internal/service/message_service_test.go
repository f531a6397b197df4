package service

import (
	"Nexus/internal/api/dto"
	"Nexus/internal/model"
	mongodb "Nexus/internal/pkg/mongo"
	"Nexus/internal/pkg/redis"
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeMessageRepo 内存实现，语义对齐 Mongo 版仓储
type fakeMessageRepo struct {
	msgs    map[primitive.ObjectID]*mongodb.Message
	saveErr error
}

func newFakeMessageRepo() *fakeMessageRepo {
	return &fakeMessageRepo{msgs: make(map[primitive.ObjectID]*mongodb.Message)}
}

func (f *fakeMessageRepo) SaveMessage(_ context.Context, msg *mongodb.Message) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	if msg.ID.IsZero() {
		msg.ID = primitive.NewObjectID()
	}
	cp := *msg
	f.msgs[msg.ID] = &cp
	return nil
}

func (f *fakeMessageRepo) GetByID(_ context.Context, id primitive.ObjectID) (*mongodb.Message, error) {
	msg, ok := f.msgs[id]
	if !ok {
		return nil, nil
	}
	cp := *msg
	return &cp, nil
}

func (f *fakeMessageRepo) UpdateContent(_ context.Context, id primitive.ObjectID, content string, editedAt time.Time) error {
	msg, ok := f.msgs[id]
	if !ok || msg.IsDeleted {
		return errors.New("no documents")
	}
	msg.Content = content
	msg.IsEdited = true
	msg.EditedAt = &editedAt
	return nil
}

func (f *fakeMessageRepo) SoftDelete(_ context.Context, id primitive.ObjectID, deletedAt time.Time) error {
	msg, ok := f.msgs[id]
	if !ok || msg.IsDeleted {
		return nil
	}
	msg.IsDeleted = true
	msg.DeletedAt = &deletedAt
	return nil
}

func (f *fakeMessageRepo) MarkRead(_ context.Context, id primitive.ObjectID, readAt time.Time) error {
	msg, ok := f.msgs[id]
	if !ok || msg.IsRead {
		return nil
	}
	msg.IsRead = true
	msg.ReadAt = &readAt
	return nil
}

func (f *fakeMessageRepo) AddReaction(_ context.Context, id primitive.ObjectID, r mongodb.Reaction) error {
	msg, ok := f.msgs[id]
	if !ok {
		return errors.New("no documents")
	}
	for _, exist := range msg.Reactions {
		if exist == r {
			return nil
		}
	}
	msg.Reactions = append(msg.Reactions, r)
	return nil
}

func (f *fakeMessageRepo) RemoveReaction(_ context.Context, id primitive.ObjectID, r mongodb.Reaction) error {
	msg, ok := f.msgs[id]
	if !ok {
		return errors.New("no documents")
	}
	out := msg.Reactions[:0]
	for _, exist := range msg.Reactions {
		if exist != r {
			out = append(out, exist)
		}
	}
	msg.Reactions = out
	return nil
}

func (f *fakeMessageRepo) MarkConversationRead(_ context.Context, convKey string, readerID uint64, readAt time.Time) (int64, error) {
	var count int64
	for _, msg := range f.msgs {
		if msg.ConvKey == convKey && msg.RecipientID == readerID && !msg.IsRead {
			msg.IsRead = true
			msg.ReadAt = &readAt
			count++
		}
	}
	return count, nil
}

func (f *fakeMessageRepo) GetConversation(_ context.Context, convKey string, page, pageSize int) ([]*mongodb.Message, error) {
	var all []*mongodb.Message
	for _, msg := range f.msgs {
		if msg.ConvKey == convKey && !msg.IsDeleted {
			cp := *msg
			all = append(all, &cp)
		}
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	start := (page - 1) * pageSize
	if start >= len(all) {
		return nil, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (f *fakeMessageRepo) ListConversationSummaries(_ context.Context, userID uint64) ([]*mongodb.ConversationSummary, error) {
	byConv := make(map[string]*mongodb.ConversationSummary)
	for _, msg := range f.msgs {
		if msg.IsDeleted || !msg.IsParticipant(userID) {
			continue
		}
		cp := *msg
		sum := byConv[msg.ConvKey]
		if sum == nil {
			sum = &mongodb.ConversationSummary{ConvKey: msg.ConvKey}
			byConv[msg.ConvKey] = sum
		}
		if sum.LastMessage == nil || cp.CreatedAt.After(sum.LastMessage.CreatedAt) {
			sum.LastMessage = &cp
		}
		if msg.RecipientID == userID && !msg.IsRead {
			sum.UnreadCount++
		}
	}
	var list []*mongodb.ConversationSummary
	for _, sum := range byConv {
		list = append(list, sum)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].LastMessage.CreatedAt.After(list[j].LastMessage.CreatedAt)
	})
	return list, nil
}

func (f *fakeMessageRepo) CountUnread(_ context.Context, userID uint64) (int64, error) {
	var count int64
	for _, msg := range f.msgs {
		if msg.RecipientID == userID && !msg.IsRead && !msg.IsDeleted && msg.SenderID != userID {
			count++
		}
	}
	return count, nil
}

type fakeUserRepo struct {
	active map[uint64]bool
}

func (f *fakeUserRepo) GetUserById(_ context.Context, id uint64) (*model.User, error) {
	if !f.active[id] {
		return nil, nil
	}
	return &model.User{ID: id}, nil
}

func (f *fakeUserRepo) GetUserSimpleInfoByIds(_ context.Context, ids []uint64) ([]*model.UserDetail, error) {
	var list []*model.UserDetail
	for _, id := range ids {
		list = append(list, &model.UserDetail{UserID: id, Nickname: "user"})
	}
	return list, nil
}

func (f *fakeUserRepo) ExistsActiveUser(_ context.Context, id uint64) (bool, error) {
	return f.active[id], nil
}

// fakeFanout 记录推送调用
type pushRecord struct {
	userID    uint64
	projectID uint64
	event     string
	payload   any
}

type fakeFanout struct {
	pushes []pushRecord
}

func (f *fakeFanout) PushToUser(userID uint64, event string, payload any) {
	f.pushes = append(f.pushes, pushRecord{userID: userID, event: event, payload: payload})
}

func (f *fakeFanout) PushToProject(projectID uint64, event string, payload any) {
	f.pushes = append(f.pushes, pushRecord{projectID: projectID, event: event, payload: payload})
}

func (f *fakeFanout) PushTyping(fromUserID, toUserID uint64, typing bool) {
	f.pushes = append(f.pushes, pushRecord{userID: toUserID, event: "user_typing"})
}

func (f *fakeFanout) lastEvent() string {
	if len(f.pushes) == 0 {
		return ""
	}
	return f.pushes[len(f.pushes)-1].event
}

func newMessageService() (MessageService, *fakeMessageRepo, *fakeFanout) {
	repo := newFakeMessageRepo()
	fanout := &fakeFanout{}
	users := &fakeUserRepo{active: map[uint64]bool{1: true, 2: true, 3: true}}
	return NewMessageService(repo, users, fanout), repo, fanout
}

func TestSendMessagePushesAfterSave(t *testing.T) {
	svc, _, fanout := newMessageService()

	msg, err := svc.SendMessage(context.Background(), 1, &dto.SendMessageReq{
		RecipientID: 2,
		MsgType:     mongodb.MsgTypeText,
		Content:     "hello",
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if msg.ConvKey != "1_2" {
		t.Errorf("conv key = %q, want 1_2", msg.ConvKey)
	}
	if msg.IsRead {
		t.Error("new message should be unread")
	}
	if len(fanout.pushes) != 1 || fanout.pushes[0].userID != 2 || fanout.pushes[0].event != "new_message" {
		t.Errorf("unexpected pushes: %+v", fanout.pushes)
	}
}

func TestSendMessageNoPushOnSaveFailure(t *testing.T) {
	svc, repo, fanout := newMessageService()
	repo.saveErr = errors.New("mongo down")

	_, err := svc.SendMessage(context.Background(), 1, &dto.SendMessageReq{
		RecipientID: 2,
		MsgType:     mongodb.MsgTypeText,
		Content:     "hello",
	})
	if !errors.Is(err, UnExpectedError) {
		t.Fatalf("err = %v, want UnExpectedError", err)
	}
	if len(fanout.pushes) != 0 {
		t.Errorf("push must not happen when save fails: %+v", fanout.pushes)
	}
}

func TestSendMessageValidation(t *testing.T) {
	svc, _, _ := newMessageService()
	ctx := context.Background()

	if _, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{RecipientID: 2, MsgType: "voice", Content: "x"}); !errors.Is(err, ErrMsgTypeInvalid) {
		t.Errorf("invalid type: err = %v", err)
	}
	if _, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{RecipientID: 2, MsgType: mongodb.MsgTypeText}); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("empty text: err = %v", err)
	}
	if _, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{RecipientID: 2, MsgType: mongodb.MsgTypeImage}); !errors.Is(err, ErrParamInvalid) {
		t.Errorf("empty image without attachments: err = %v", err)
	}
	if _, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{
		RecipientID: 2,
		MsgType:     mongodb.MsgTypeImage,
		Attachments: []dto.AttachmentDTO{{URL: "https://cdn.example.com/cat.png", Filename: "cat.png", MimeType: "image/png"}},
	}); err != nil {
		t.Errorf("image with attachment should pass: err = %v", err)
	}

	long := make([]rune, 2001)
	for i := range long {
		long[i] = 'a'
	}
	if _, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{RecipientID: 2, MsgType: mongodb.MsgTypeText, Content: string(long)}); !errors.Is(err, ErrMsgContentTooLong) {
		t.Errorf("long content: err = %v", err)
	}

	if _, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{RecipientID: 99, MsgType: mongodb.MsgTypeText, Content: "hi"}); !errors.Is(err, ErrTargetUserInvalid) {
		t.Errorf("inactive recipient: err = %v", err)
	}
}

func TestSendMessageToSelfAutoRead(t *testing.T) {
	svc, _, _ := newMessageService()

	msg, err := svc.SendMessage(context.Background(), 1, &dto.SendMessageReq{
		RecipientID: 1,
		MsgType:     mongodb.MsgTypeText,
		Content:     "note to self",
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if !msg.IsRead || msg.ReadAt == nil {
		t.Error("self message should be created read")
	}
}

func TestSendMessageReplyMustBeSameConversation(t *testing.T) {
	svc, _, _ := newMessageService()
	ctx := context.Background()

	other, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{RecipientID: 3, MsgType: mongodb.MsgTypeText, Content: "side talk"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	_, err = svc.SendMessage(ctx, 1, &dto.SendMessageReq{
		RecipientID: 2,
		MsgType:     mongodb.MsgTypeText,
		Content:     "re",
		ReplyTo:     other.ID,
	})
	if !errors.Is(err, ErrReplyNotFound) {
		t.Errorf("cross-conversation reply: err = %v", err)
	}
}

func TestEditMessageRules(t *testing.T) {
	svc, repo, fanout := newMessageService()
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{RecipientID: 2, MsgType: mongodb.MsgTypeText, Content: "v1"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if _, err = svc.EditMessage(ctx, 2, msg.ID, &dto.EditMessageReq{Content: "v2"}); !errors.Is(err, UnauthorizedError) {
		t.Errorf("non-sender edit: err = %v", err)
	}

	edited, err := svc.EditMessage(ctx, 1, msg.ID, &dto.EditMessageReq{Content: "v2"})
	if err != nil {
		t.Fatalf("EditMessage: %v", err)
	}
	if !edited.IsEdited || edited.Content != "v2" || edited.EditedAt == nil {
		t.Errorf("edit not applied: %+v", edited)
	}
	if fanout.lastEvent() != "message_edited" {
		t.Errorf("last event = %q, want message_edited", fanout.lastEvent())
	}

	// 把创建时间拨回窗口之外
	id, _ := primitive.ObjectIDFromHex(msg.ID)
	repo.msgs[id].CreatedAt = time.Now().Add(-25 * time.Hour)
	if _, err = svc.EditMessage(ctx, 1, msg.ID, &dto.EditMessageReq{Content: "v3"}); !errors.Is(err, ErrEditWindowClosed) {
		t.Errorf("stale edit: err = %v", err)
	}
}

func TestDeleteMessageSoftAndIdempotent(t *testing.T) {
	svc, repo, _ := newMessageService()
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{RecipientID: 2, MsgType: mongodb.MsgTypeText, Content: "gone soon"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if err = svc.DeleteMessage(ctx, 3, msg.ID); !errors.Is(err, UnauthorizedError) {
		t.Errorf("outsider delete: err = %v", err)
	}
	if err = svc.DeleteMessage(ctx, 2, msg.ID); err != nil {
		t.Fatalf("DeleteMessage by recipient: %v", err)
	}
	if err = svc.DeleteMessage(ctx, 1, msg.ID); err != nil {
		t.Errorf("repeat delete should be nil, got %v", err)
	}

	// 内容保留，按 ID 审计读取仍可取回，列表中隐藏
	id, _ := primitive.ObjectIDFromHex(msg.ID)
	if repo.msgs[id].Content != "gone soon" {
		t.Error("soft delete must keep content")
	}
	got, err := svc.GetMessage(ctx, 1, msg.ID)
	if err != nil {
		t.Fatalf("GetMessage after delete: %v", err)
	}
	if !got.IsDeleted {
		t.Error("audit read must mark the record deleted")
	}
	history, err := svc.GetChatHistory(ctx, 1, 2, 1, 10)
	if err != nil {
		t.Fatalf("GetChatHistory: %v", err)
	}
	if len(history) != 0 {
		t.Errorf("deleted message still in history: %d", len(history))
	}

	// 已删除的消息不可再编辑
	if _, err = svc.EditMessage(ctx, 1, msg.ID, &dto.EditMessageReq{Content: "v2"}); !errors.Is(err, ErrMessageNotFound) {
		t.Errorf("edit deleted: err = %v", err)
	}
}

func TestMarkAsReadOnlyRecipient(t *testing.T) {
	svc, _, _ := newMessageService()
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{RecipientID: 2, MsgType: mongodb.MsgTypeText, Content: "hi"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if err = svc.MarkAsRead(ctx, 1, msg.ID); !errors.Is(err, UnauthorizedError) {
		t.Errorf("sender mark read: err = %v", err)
	}
	if err = svc.MarkAsRead(ctx, 2, msg.ID); err != nil {
		t.Fatalf("MarkAsRead: %v", err)
	}
	if err = svc.MarkAsRead(ctx, 2, msg.ID); err != nil {
		t.Errorf("repeat mark read should be nil, got %v", err)
	}

	count, err := svc.GetUnreadTotal(ctx, 2)
	if err != nil {
		t.Fatalf("GetUnreadTotal: %v", err)
	}
	if count != 0 {
		t.Errorf("unread total = %d, want 0", count)
	}
}

func TestReactionsIdempotent(t *testing.T) {
	svc, repo, _ := newMessageService()
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{RecipientID: 2, MsgType: mongodb.MsgTypeText, Content: "react me"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	id, _ := primitive.ObjectIDFromHex(msg.ID)

	if err = svc.AddReaction(ctx, 3, msg.ID, "👍"); !errors.Is(err, UnauthorizedError) {
		t.Errorf("outsider reaction: err = %v", err)
	}

	_ = svc.AddReaction(ctx, 2, msg.ID, "👍")
	_ = svc.AddReaction(ctx, 2, msg.ID, "👍")
	_ = svc.AddReaction(ctx, 1, msg.ID, "👍")
	if got := len(repo.msgs[id].Reactions); got != 2 {
		t.Errorf("reactions = %d, want 2", got)
	}

	if err = svc.RemoveReaction(ctx, 2, msg.ID, "🔥"); err != nil {
		t.Errorf("remove missing reaction should be nil, got %v", err)
	}
	_ = svc.RemoveReaction(ctx, 2, msg.ID, "👍")
	if got := len(repo.msgs[id].Reactions); got != 1 {
		t.Errorf("reactions after remove = %d, want 1", got)
	}
}

func TestReactionPushCarriesMessageLocation(t *testing.T) {
	svc, _, fanout := newMessageService()
	ctx := context.Background()

	msg, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{RecipientID: 2, MsgType: mongodb.MsgTypeText, Content: "react me"})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	if err = svc.AddReaction(ctx, 2, msg.ID, "👍"); err != nil {
		t.Fatalf("AddReaction: %v", err)
	}
	push := fanout.pushes[len(fanout.pushes)-1]
	if push.userID != 1 || push.event != "message_reaction" {
		t.Fatalf("unexpected push: %+v", push)
	}
	got, ok := push.payload.(*dto.MessageReactionDTO)
	if !ok {
		t.Fatalf("payload type = %T", push.payload)
	}
	if got.MessageID != msg.ID || got.ConvKey != msg.ConvKey || got.UserID != 2 || got.Emoji != "👍" {
		t.Errorf("payload = %+v", got)
	}

	if err = svc.RemoveReaction(ctx, 2, msg.ID, "👍"); err != nil {
		t.Fatalf("RemoveReaction: %v", err)
	}
	push = fanout.pushes[len(fanout.pushes)-1]
	if push.event != "message_reaction_removed" {
		t.Fatalf("unexpected push: %+v", push)
	}
	got, ok = push.payload.(*dto.MessageReactionDTO)
	if !ok || got.MessageID != msg.ID {
		t.Errorf("removed payload = %+v (type %T)", push.payload, push.payload)
	}
}

func TestMarkConversationRead(t *testing.T) {
	svc, _, _ := newMessageService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{RecipientID: 2, MsgType: mongodb.MsgTypeText, Content: "m"}); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
	}
	// 反向的一条不应被对方的批量已读触及
	if _, err := svc.SendMessage(ctx, 2, &dto.SendMessageReq{RecipientID: 1, MsgType: mongodb.MsgTypeText, Content: "back"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	count, err := svc.MarkConversationRead(ctx, 2, 1)
	if err != nil {
		t.Fatalf("MarkConversationRead: %v", err)
	}
	if count != 3 {
		t.Errorf("marked = %d, want 3", count)
	}

	count, err = svc.MarkConversationRead(ctx, 2, 1)
	if err != nil {
		t.Fatalf("MarkConversationRead: %v", err)
	}
	if count != 0 {
		t.Errorf("second pass marked = %d, want 0", count)
	}

	unread, _ := svc.GetUnreadTotal(ctx, 1)
	if unread != 1 {
		t.Errorf("peer unread = %d, want 1", unread)
	}
}

// 缓存不可用时会话列表回源数据库，这里故意指向一个打不通的地址
func withUnreachableCache(t *testing.T) {
	t.Helper()
	old := redis.Rdb
	redis.Rdb = goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() {
		_ = redis.Rdb.Close()
		redis.Rdb = old
	})
}

func (f *fakeMessageRepo) setCreatedAt(t *testing.T, hexID string, at time.Time) {
	t.Helper()
	id, err := primitive.ObjectIDFromHex(hexID)
	if err != nil {
		t.Fatalf("bad id %q: %v", hexID, err)
	}
	f.msgs[id].CreatedAt = at
}

func TestGetConversationListUnreadAndReset(t *testing.T) {
	svc, repo, _ := newMessageService()
	withUnreachableCache(t)
	ctx := context.Background()

	send := func(from, to uint64, content string) *dto.MessageDTO {
		msg, err := svc.SendMessage(ctx, from, &dto.SendMessageReq{RecipientID: to, MsgType: mongodb.MsgTypeText, Content: content})
		if err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
		return msg
	}

	m1 := send(1, 2, "first")
	m2 := send(1, 2, "second")
	m3 := send(2, 1, "reply")
	m4 := send(1, 3, "hey")

	// 固定时间线，避免同一纳秒内的并列
	base := time.Now()
	repo.setCreatedAt(t, m1.ID, base.Add(-3*time.Second))
	repo.setCreatedAt(t, m2.ID, base.Add(-2*time.Second))
	repo.setCreatedAt(t, m3.ID, base.Add(-time.Second))
	repo.setCreatedAt(t, m4.ID, base)

	// 用户 2 视角:单个会话,未读为收到的两条,最新消息是自己的回复
	list, err := svc.GetConversationList(ctx, 2)
	if err != nil {
		t.Fatalf("GetConversationList: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("conversations = %d, want 1", len(list))
	}
	conv := list[0]
	if conv.ConvKey != "1_2" || conv.PeerID != 1 {
		t.Errorf("conv = %+v", conv)
	}
	if conv.UnreadCount != 2 {
		t.Errorf("unread = %d, want 2", conv.UnreadCount)
	}
	if conv.LastMessage == nil || conv.LastMessage.ID != m3.ID {
		t.Errorf("last message = %+v, want %s", conv.LastMessage, m3.ID)
	}
	if conv.PeerNickname != "user" {
		t.Errorf("peer nickname = %q", conv.PeerNickname)
	}

	// 会话未读之和等于全局未读
	total, err := svc.GetUnreadTotal(ctx, 2)
	if err != nil {
		t.Fatalf("GetUnreadTotal: %v", err)
	}
	if total != conv.UnreadCount {
		t.Errorf("total unread = %d, conversations sum = %d", total, conv.UnreadCount)
	}

	// 用户 1 视角:两个会话,按最新消息倒序
	list, err = svc.GetConversationList(ctx, 1)
	if err != nil {
		t.Fatalf("GetConversationList: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("conversations = %d, want 2", len(list))
	}
	if list[0].ConvKey != "1_3" || list[1].ConvKey != "1_2" {
		t.Errorf("order = [%s, %s], want [1_3, 1_2]", list[0].ConvKey, list[1].ConvKey)
	}
	if list[1].UnreadCount != 1 {
		t.Errorf("user1 unread in 1_2 = %d, want 1", list[1].UnreadCount)
	}

	// 用户 2 的批量已读只清自己方向,对端未读不受影响
	count, err := svc.MarkConversationRead(ctx, 2, 1)
	if err != nil {
		t.Fatalf("MarkConversationRead: %v", err)
	}
	if count != 2 {
		t.Errorf("marked = %d, want 2", count)
	}

	list, err = svc.GetConversationList(ctx, 2)
	if err != nil {
		t.Fatalf("GetConversationList: %v", err)
	}
	if list[0].UnreadCount != 0 {
		t.Errorf("unread after reset = %d, want 0", list[0].UnreadCount)
	}

	list, err = svc.GetConversationList(ctx, 1)
	if err != nil {
		t.Fatalf("GetConversationList: %v", err)
	}
	if list[1].UnreadCount != 1 {
		t.Errorf("peer unread after reset = %d, want 1", list[1].UnreadCount)
	}
}

func TestGetChatHistoryOldestFirstWithinPage(t *testing.T) {
	svc, repo, _ := newMessageService()
	ctx := context.Background()

	base := time.Now().Add(-1 * time.Hour)
	for i := 0; i < 3; i++ {
		msg, err := svc.SendMessage(ctx, 1, &dto.SendMessageReq{RecipientID: 2, MsgType: mongodb.MsgTypeText, Content: string(rune('a' + i))})
		if err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
		id, _ := primitive.ObjectIDFromHex(msg.ID)
		repo.msgs[id].CreatedAt = base.Add(time.Duration(i) * time.Minute)
	}

	list, err := svc.GetChatHistory(ctx, 2, 1, 1, 10)
	if err != nil {
		t.Fatalf("GetChatHistory: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len = %d, want 3", len(list))
	}
	for i := 1; i < len(list); i++ {
		if list[i].CreatedAt.Before(list[i-1].CreatedAt) {
			t.Errorf("history not in ascending order at %d", i)
		}
	}
}
