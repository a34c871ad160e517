package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/friend-graph/internal/model"
)

// FriendshipRepository 好友关系仓储；调用方负责传入规范顺序 (user1 < user2)
type FriendshipRepository interface {
	Create(ctx context.Context, user1ID, user2ID string) error
	Delete(ctx context.Context, user1ID, user2ID string) (bool, error)
	Exists(ctx context.Context, user1ID, user2ID string) (bool, error)
	ListFriendIDs(ctx context.Context, userID string) ([]string, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	List(ctx context.Context) ([]*model.Friendship, error)
}

type friendshipRepository struct {
	db *gorm.DB
}

func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

// Create 重复插入返回 ErrDuplicate（非幂等），任一用户不存在返回 ErrForeignKey
func (r *friendshipRepository) Create(ctx context.Context, user1ID, user2ID string) error {
	f := &model.Friendship{User1ID: user1ID, User2ID: user2ID}
	err := translate(r.db.WithContext(ctx).Create(f).Error)
	if err == nil || err == ErrDuplicate || err == ErrForeignKey {
		return err
	}
	// 部分驱动不翻译主键冲突，回查确认
	if ok, exErr := r.Exists(ctx, user1ID, user2ID); exErr == nil && ok {
		return ErrDuplicate
	}
	return err
}

func (r *friendshipRepository) Delete(ctx context.Context, user1ID, user2ID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).
		Delete(&model.Friendship{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *friendshipRepository) Exists(ctx context.Context, user1ID, user2ID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Friendship{}).
		Where("user1_id = ? AND user2_id = ?", user1ID, user2ID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *friendshipRepository) ListFriendIDs(ctx context.Context, userID string) ([]string, error) {
	var rows []*model.Friendship
	err := r.db.WithContext(ctx).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Order("created_at").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(rows))
	for i, f := range rows {
		ids[i] = f.Other(userID)
	}
	return ids, nil
}

func (r *friendshipRepository) CountByUser(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).
		Model(&model.Friendship{}).
		Where("user1_id = ? OR user2_id = ?", userID, userID).
		Count(&cnt).Error
	return cnt, err
}

func (r *friendshipRepository) List(ctx context.Context) ([]*model.Friendship, error) {
	var res []*model.Friendship
	err := r.db.WithContext(ctx).Order("created_at").Find(&res).Error
	return res, err
}
