package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type MessageRepo interface {
	SaveMessage(ctx context.Context, msg *Message) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Message, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string, editedAt time.Time) error
	SoftDelete(ctx context.Context, id primitive.ObjectID, deletedAt time.Time) error
	MarkRead(ctx context.Context, id primitive.ObjectID, readAt time.Time) error
	AddReaction(ctx context.Context, id primitive.ObjectID, r Reaction) error
	RemoveReaction(ctx context.Context, id primitive.ObjectID, r Reaction) error
	MarkConversationRead(ctx context.Context, convKey string, readerID uint64, readAt time.Time) (int64, error)
	GetConversation(ctx context.Context, convKey string, page, pageSize int) ([]*Message, error)
	ListConversationSummaries(ctx context.Context, userID uint64) ([]*ConversationSummary, error)
	CountUnread(ctx context.Context, userID uint64) (int64, error)
}

type messageRepoImpl struct {
	col *mongo.Collection
}

func NewMessageRepo(db *mongo.Database) MessageRepo {
	return &messageRepoImpl{
		col: db.Collection("messages"),
	}
}

// SaveMessage 将消息存入 MongoDB
func (s *messageRepoImpl) SaveMessage(ctx context.Context, msg *Message) error {
	res, err := s.col.InsertOne(ctx, msg)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		msg.ID = oid
	}
	return nil
}

// GetByID 精确查询，软删除的消息也可取回（审计用途）
func (s *messageRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*Message, error) {
	var msg Message
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&msg)
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// UpdateContent 编辑消息正文并打上编辑标记
func (s *messageRepoImpl) UpdateContent(ctx context.Context, id primitive.ObjectID, content string, editedAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"content":   content,
		"is_edited": true,
		"edited_at": editedAt,
	}}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// SoftDelete 仅打删除标记，内容保留
func (s *messageRepoImpl) SoftDelete(ctx context.Context, id primitive.ObjectID, deletedAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"is_deleted": true,
		"deleted_at": deletedAt,
	}}
	// 已删除的消息再删一次是幂等空操作
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id, "is_deleted": false}, update)
	return err
}

// MarkRead 未读 -> 已读的单向迁移，已读则不再触碰
func (s *messageRepoImpl) MarkRead(ctx context.Context, id primitive.ObjectID, readAt time.Time) error {
	update := bson.M{"$set": bson.M{
		"is_read": true,
		"read_at": readAt,
	}}
	_, err := s.col.UpdateOne(ctx, bson.M{"_id": id, "is_read": false}, update)
	return err
}

// AddReaction $addToSet 保证 (user, emoji) 对唯一，重复添加为空操作
func (s *messageRepoImpl) AddReaction(ctx context.Context, id primitive.ObjectID, r Reaction) error {
	update := bson.M{"$addToSet": bson.M{"reactions": r}}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// RemoveReaction $pull 移除不存在的对同样是空操作
func (s *messageRepoImpl) RemoveReaction(ctx context.Context, id primitive.ObjectID, r Reaction) error {
	update := bson.M{"$pull": bson.M{"reactions": r}}
	result, err := s.col.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// MarkConversationRead 单条 UpdateMany 批量已读，只影响发给 reader 的方向
func (s *messageRepoImpl) MarkConversationRead(ctx context.Context, convKey string, readerID uint64, readAt time.Time) (int64, error) {
	filter := bson.M{
		"conv_key":     convKey,
		"recipient_id": readerID,
		"is_read":      false,
	}
	update := bson.M{"$set": bson.M{"is_read": true, "read_at": readAt}}
	result, err := s.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// GetConversation 按时间倒序分页拉取会话内未删除的消息
func (s *messageRepoImpl) GetConversation(ctx context.Context, convKey string, page, pageSize int) ([]*Message, error) {
	filter := bson.M{
		"conv_key":   convKey,
		"is_deleted": false,
	}

	findOptions := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64((page - 1) * pageSize)).
		SetLimit(int64(pageSize))

	cursor, err := s.col.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var messages []*Message
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, err
	}
	return messages, nil
}

// ListConversationSummaries 聚合管道：按 conv_key 分组，
// 取每组最新一条消息并统计发给该用户的未读数
func (s *messageRepoImpl) ListConversationSummaries(ctx context.Context, userID uint64) ([]*ConversationSummary, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"is_deleted": false,
			"$or": bson.A{
				bson.M{"sender_id": userID},
				bson.M{"recipient_id": userID},
			},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":          "$conv_key",
			"last_message": bson.M{"$first": "$$ROOT"},
			"unread_count": bson.M{"$sum": bson.M{
				"$cond": bson.A{
					bson.M{"$and": bson.A{
						bson.M{"$eq": bson.A{"$recipient_id", userID}},
						bson.M{"$eq": bson.A{"$is_read", false}},
					}},
					1,
					0,
				},
			}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "last_message.created_at", Value: -1}}}},
	}

	cursor, err := s.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var summaries []*ConversationSummary
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

// CountUnread 全局未读数：未删除且发给该用户的未读消息
func (s *messageRepoImpl) CountUnread(ctx context.Context, userID uint64) (int64, error) {
	filter := bson.M{
		"recipient_id": userID,
		"is_read":      false,
		"is_deleted":   false,
	}
	return s.col.CountDocuments(ctx, filter)
}
