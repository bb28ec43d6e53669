package kv

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EntryModel is the single table backing the SQL driver.
type EntryModel struct {
	Key       string    `gorm:"primaryKey;size:191"`
	Value     []byte    `gorm:"not null"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (EntryModel) TableName() string { return "kv_entries" }

type SQL struct {
	db     *gorm.DB
	prefix string
}

// NewSQL migrates the kv_entries table and returns the store. The store owns
// db from here on: Close closes it, and so does a failed migration.
func NewSQL(db *gorm.DB, prefix string) (*SQL, error) {
	s := &SQL{db: db, prefix: prefix}
	if err := db.AutoMigrate(&EntryModel{}); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	var e EntryModel
	err := s.db.WithContext(ctx).Where(&EntryModel{Key: s.prefix + key}).Take(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return e.Value, nil
}

func (s *SQL) Set(ctx context.Context, key string, val []byte) error {
	e := EntryModel{Key: s.prefix + key, Value: val}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&e).Error
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Where(&EntryModel{Key: s.prefix + key}).Delete(&EntryModel{}).Error
}

// Update locks the row with SELECT ... FOR UPDATE. When the row does not
// exist yet two writers may race on the insert; the loser retries.
func (s *SQL) Update(ctx context.Context, key string, fn MutateFunc) error {
	full := s.prefix + key
	for i := 0; i < maxRetries; i++ {
		err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var e EntryModel
			err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
				Where(&EntryModel{Key: full}).Take(&e).Error
			exists := true
			if errors.Is(err, gorm.ErrRecordNotFound) {
				exists, err = false, nil
			}
			if err != nil {
				return err
			}
			var cur []byte
			if exists {
				cur = e.Value
			}
			next, err := fn(cur)
			if err != nil || next == nil {
				return err
			}
			if exists {
				return tx.Model(&EntryModel{}).Where(&EntryModel{Key: full}).Update("value", next).Error
			}
			return tx.Create(&EntryModel{Key: full, Value: next}).Error
		})
		if err != nil && isDupKey(err) {
			continue
		}
		return err
	}
	return ErrContention
}

func (s *SQL) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isDupKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique violation")
}
