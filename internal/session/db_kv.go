package session

import (
	"context"
	"english_admin/internal/model"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DBKV 存放在 console_kv 表，prefix 用于多个控制台实例共用一张表
type DBKV struct {
	db     *gorm.DB
	prefix string
}

func NewDBKV(db *gorm.DB, prefix string) *DBKV {
	return &DBKV{db: db, prefix: prefix}
}

func (d *DBKV) Get(ctx context.Context, key string) (string, bool, error) {
	var row model.ConsoleKV
	err := d.db.WithContext(ctx).Where("kv_key = ?", d.prefix+key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return row.Value, true, nil
}

func (d *DBKV) Set(ctx context.Context, key, value string) error {
	row := model.ConsoleKV{Key: d.prefix + key, Value: value, UpdatedAt: time.Now()}
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "kv_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&row).Error
}

func (d *DBKV) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = d.prefix + k
	}
	return d.db.WithContext(ctx).Where("kv_key IN ?", full).Delete(&model.ConsoleKV{}).Error
}
