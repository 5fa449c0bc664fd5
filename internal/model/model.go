package model

import "time"

// Model 记录只会新增和删除，不做软删除
type Model struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
