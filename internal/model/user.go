package model

import "time"

// User 用户；Hobbies 以 JSON 数组序列化到单列
type User struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	Username  string    `gorm:"type:varchar(64);uniqueIndex:ux_users_username;not null"`
	Age       int       `gorm:"not null;default:0"`
	Hobbies   []string  `gorm:"serializer:json;type:text;not null"`
	CreatedAt time.Time `gorm:"index"`
}

func (User) TableName() string { return "users" }
