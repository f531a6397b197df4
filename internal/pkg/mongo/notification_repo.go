package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NotificationFilter 列表查询的可选过滤条件
type NotificationFilter struct {
	IsRead     *bool
	NotifyType string
	Category   string
	Priority   string
}

type NotificationRepo interface {
	CreateNotification(ctx context.Context, n *Notification) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*Notification, error)
	GetNotificationList(ctx context.Context, userID uint64, limit, offset int64, filter *NotificationFilter) ([]*Notification, error)
	MarkAsRead(ctx context.Context, userID uint64, id primitive.ObjectID, readAt time.Time) error
	MarkAllAsRead(ctx context.Context, userID uint64, readAt time.Time) (int64, error)
	Archive(ctx context.Context, userID uint64, id primitive.ObjectID, archivedAt time.Time) error
	GetUnreadCount(ctx context.Context, userID uint64) (int64, error)
	Delete(ctx context.Context, userID uint64, id primitive.ObjectID) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

type notificationRepoImpl struct {
	col *mongo.Collection
}

func NewNotificationRepo(db *mongo.Database) NotificationRepo {
	return &notificationRepoImpl{
		col: db.Collection("notifications"),
	}
}

// CreateNotification 插入新通知
func (s *notificationRepoImpl) CreateNotification(ctx context.Context, n *Notification) error {
	res, err := s.col.InsertOne(ctx, n)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		n.ID = oid
	}
	return nil
}

// GetByID 根据 ID 获取通知
func (s *notificationRepoImpl) GetByID(ctx context.Context, id primitive.ObjectID) (*Notification, error) {
	var n Notification
	err := s.col.FindOne(ctx, bson.M{"_id": id}).Decode(&n)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// GetNotificationList 分页获取通知列表 (按时间倒序)，
// 归档与过期的通知对列表不可见
func (s *notificationRepoImpl) GetNotificationList(ctx context.Context, userID uint64, limit, offset int64, filter *NotificationFilter) ([]*Notification, error) {
	query := bson.M{
		"owner_id":    userID,
		"is_archived": false,
		"expires_at":  bson.M{"$gt": time.Now()},
	}
	if filter != nil {
		if filter.IsRead != nil {
			query["is_read"] = *filter.IsRead
		}
		if filter.NotifyType != "" {
			query["notify_type"] = filter.NotifyType
		}
		if filter.Category != "" {
			query["category"] = filter.Category
		}
		if filter.Priority != "" {
			query["priority"] = filter.Priority
		}
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit).
		SetSkip(offset)

	cursor, err := s.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var list []*Notification
	if err = cursor.All(ctx, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// MarkAsRead 标记单条已读，已读的不再触碰
func (s *notificationRepoImpl) MarkAsRead(ctx context.Context, userID uint64, id primitive.ObjectID, readAt time.Time) error {
	filter := bson.M{"_id": id, "owner_id": userID, "is_read": false}
	update := bson.M{"$set": bson.M{"is_read": true, "read_at": readAt}}
	_, err := s.col.UpdateOne(ctx, filter, update)
	return err
}

// MarkAllAsRead 一键已读，返回本次实际迁移的条数
func (s *notificationRepoImpl) MarkAllAsRead(ctx context.Context, userID uint64, readAt time.Time) (int64, error) {
	filter := bson.M{"owner_id": userID, "is_read": false}
	update := bson.M{"$set": bson.M{"is_read": true, "read_at": readAt}}
	result, err := s.col.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// Archive 归档，与已读互相独立
func (s *notificationRepoImpl) Archive(ctx context.Context, userID uint64, id primitive.ObjectID, archivedAt time.Time) error {
	filter := bson.M{"_id": id, "owner_id": userID, "is_archived": false}
	update := bson.M{"$set": bson.M{"is_archived": true, "archived_at": archivedAt}}
	_, err := s.col.UpdateOne(ctx, filter, update)
	return err
}

// GetUnreadCount 未读数，不含已归档与已过期
func (s *notificationRepoImpl) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	filter := bson.M{
		"owner_id":    userID,
		"is_read":     false,
		"is_archived": false,
		"expires_at":  bson.M{"$gt": time.Now()},
	}
	return s.col.CountDocuments(ctx, filter)
}

// Delete 显式删除单条通知
func (s *notificationRepoImpl) Delete(ctx context.Context, userID uint64, id primitive.ObjectID) error {
	result, err := s.col.DeleteOne(ctx, bson.M{"_id": id, "owner_id": userID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}

// DeleteExpired 清理任务调用，移除所有已过期的通知
func (s *notificationRepoImpl) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.col.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now}})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}
