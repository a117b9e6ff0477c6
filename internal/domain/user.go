// Package domain 定义了应用程序中使用的核心数据结构 (数据库模型)。
package domain

import "time"

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User 表示社区中的用户。
type User struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"type:varchar(191);uniqueIndex:idx_users_email;not null"`
	Password  string    `gorm:"type:text;not null"` // bcrypt 哈希
	Nickname  string    `gorm:"type:varchar(50);uniqueIndex:idx_users_nickname;not null"`
	Role      string    `gorm:"type:varchar(20);not null;default:user"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
