package kvstore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"

	"citysafe/pkg/errors"
)

// Store 设备端键值存储，对应移动端的 AsyncStorage。
// Every value is one JSON document under one named key; readers and writers
// always operate on the full value.
type Store struct {
	db *gorm.DB
}

type entry struct {
	Key       string `gorm:"primaryKey;size:255"`
	Value     []byte
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (entry) TableName() string { return "device_kv" }

// Open opens (creating if needed) the device store at path. An empty path
// yields an in-memory store, which tests rely on.
func Open(path string) (*Store, error) {
	dsn := "file::memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.WrapCode(errors.CodeStorage, err, "create device store dir")
		}
		dsn = path
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, errors.WrapCode(errors.CodeStorage, err, "open device store")
	}
	if path == "" {
		// A pooled second connection would see its own empty memory db.
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.SetMaxOpenConns(1)
		}
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, errors.WrapCode(errors.CodeStorage, err, "migrate device store")
	}
	return &Store{db: db}, nil
}

// Get unmarshals the value under key into out. The second return is false
// when the key has never been written.
func (s *Store) Get(key string, out interface{}) (bool, error) {
	var e entry
	err := s.db.First(&e, "key = ?", key).Error
	if err == gorm.ErrRecordNotFound {
		return false, nil
	}
	if err != nil {
		return false, errors.WrapCode(errors.CodeStorage, err, "read device store")
	}
	if err := json.Unmarshal(e.Value, out); err != nil {
		return false, errors.WrapCode(errors.CodeStorage, err, "decode device store value")
	}
	return true, nil
}

// Put serializes v as JSON and writes it under key, replacing any prior value.
func (s *Store) Put(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.WrapCode(errors.CodeStorage, err, "encode device store value")
	}
	e := entry{Key: key, Value: raw}
	if err := s.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(&e).Error; err != nil {
		return errors.WrapCode(errors.CodeStorage, err, "write device store")
	}
	return nil
}

// Delete removes the value under key. Deleting a missing key is not an error.
func (s *Store) Delete(key string) error {
	if err := s.db.Delete(&entry{}, "key = ?", key).Error; err != nil {
		return errors.WrapCode(errors.CodeStorage, err, "delete device store key")
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
