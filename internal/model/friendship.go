package model

import "time"

// Friendship 好友关系（无向），按 User1ID < User2ID 规范化存储
// 复合主键 (user1_id, user2_id) 保证每个无序对只有一行
type Friendship struct {
	User1ID   string `gorm:"primaryKey;type:varchar(36);check:chk_friendships_order,user1_id < user2_id"`
	User2ID   string `gorm:"primaryKey;type:varchar(36);index:idx_friendships_user2"`
	CreatedAt time.Time

	// 外键：两端用户必须存在，存在好友关系的用户不可删除
	User1 *User `gorm:"foreignKey:User1ID;references:ID;constraint:OnDelete:RESTRICT"`
	User2 *User `gorm:"foreignKey:User2ID;references:ID;constraint:OnDelete:RESTRICT"`
}

func (Friendship) TableName() string { return "friendships" }

// CanonicalPair orders a and b so the smaller id comes first.
func CanonicalPair(a, b string) (string, string) {
	if a < b {
		return a, b
	}
	return b, a
}

// NewFriendship builds a friendship row in canonical order.
func NewFriendship(a, b string) *Friendship {
	u1, u2 := CanonicalPair(a, b)
	return &Friendship{User1ID: u1, User2ID: u2}
}

// PairKey is the dedup key shared by the store and the graph projection.
func (f Friendship) PairKey() string { return f.User1ID + "-" + f.User2ID }

// Other returns the id on the other side of the pair.
func (f Friendship) Other(userID string) string {
	if f.User1ID == userID {
		return f.User2ID
	}
	return f.User1ID
}
