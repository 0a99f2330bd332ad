package model

import "time"

// ConsoleKV 控制台本地持久化的键值（登录 token 与用户信息）
type ConsoleKV struct {
	Key       string    `gorm:"column:kv_key;primaryKey;size:128" json:"key"`
	Value     string    `gorm:"type:text" json:"value"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (ConsoleKV) TableName() string {
	return "console_kv"
}
