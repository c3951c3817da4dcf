package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/glebarez/sqlite" // 纯 Go SQLite 驱动（基于 modernc.org/sqlite）
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	ErrUnavailable = errors.New("device storage unavailable")
)

// 固定存储键。cartID 与令牌对是客户端唯一持久化的状态
const (
	KeyCartID       = "cartID"
	KeyAccessToken  = "access_token"
	KeyRefreshToken = "refresh_token"
)

const (
	defaultDeviceDirName  = ".luacheia"
	defaultDeviceFilename = "device.db"
)

// DeviceValue 设备级键值记录
type DeviceValue struct {
	Key       string    `gorm:"primarykey;type:varchar(64)"`
	Value     string    `gorm:"type:text;not null"`
	UpdatedAt time.Time `gorm:"index"`
}

// TableName 指定表名
func (DeviceValue) TableName() string {
	return "device_values"
}

// PoolConfig 存储连接池配置
type PoolConfig struct {
	MaxOpenConns           int
	MaxIdleConns           int
	ConnMaxLifetimeSeconds int
	ConnMaxIdleTimeSeconds int
}

// Store 本地设备存储
type Store struct {
	db *gorm.DB
}

// Open 打开设备存储并迁移表结构。dsn 为空时使用用户目录下的默认设备文件
func Open(driver, dsn string, pool PoolConfig) (*Store, error) {
	normalized := strings.ToLower(strings.TrimSpace(driver))

	var dialector gorm.Dialector
	switch normalized {
	case "", "sqlite":
		resolved, err := resolveSQLitePath(dsn)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		dialector = sqlite.Open(resolved)
	case "postgres", "postgresql":
		dialector = postgres.Open(dsn)
	default:
		return nil, fmt.Errorf("%w: unsupported driver %s", ErrUnavailable, driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	applyPool(sqlDB, pool)

	if err := db.AutoMigrate(&DeviceValue{}); err != nil {
		return nil, fmt.Errorf("%w: migrate failed: %v", ErrUnavailable, err)
	}
	return &Store{db: db}, nil
}

// Get 读取键值，第二个返回值表示键是否存在
func (s *Store) Get(key string) (string, bool, error) {
	var record DeviceValue
	err := s.db.Where("key = ?", key).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: read %s failed: %v", ErrUnavailable, key, err)
	}
	return record.Value, true, nil
}

// Set 写入键值（存在则更新）
func (s *Store) Set(key, value string) error {
	record := DeviceValue{Key: key, Value: value, UpdatedAt: time.Now()}

	var existing DeviceValue
	err := s.db.Where("key = ?", key).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.db.Create(&record).Error; err != nil {
			return fmt.Errorf("%w: write %s failed: %v", ErrUnavailable, key, err)
		}
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: read %s failed: %v", ErrUnavailable, key, err)
	}

	updates := map[string]interface{}{
		"value":      record.Value,
		"updated_at": record.UpdatedAt,
	}
	if err := s.db.Model(&existing).Updates(updates).Error; err != nil {
		return fmt.Errorf("%w: update %s failed: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Delete 删除键值，键不存在视为成功
func (s *Store) Delete(key string) error {
	if err := s.db.Where("key = ?", key).Delete(&DeviceValue{}).Error; err != nil {
		return fmt.Errorf("%w: delete %s failed: %v", ErrUnavailable, key, err)
	}
	return nil
}

// Close 关闭底层连接
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func resolveSQLitePath(dsn string) (string, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn != "" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return "", err
		}
		return dsn, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(home, defaultDeviceDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, defaultDeviceFilename), nil
}

func applyPool(sqlDB *sql.DB, pool PoolConfig) {
	if sqlDB == nil {
		return
	}
	if pool.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(pool.MaxOpenConns)
	}
	if pool.MaxIdleConns >= 0 {
		sqlDB.SetMaxIdleConns(pool.MaxIdleConns)
	}
	if pool.ConnMaxLifetimeSeconds > 0 {
		sqlDB.SetConnMaxLifetime(time.Duration(pool.ConnMaxLifetimeSeconds) * time.Second)
	}
	if pool.ConnMaxIdleTimeSeconds > 0 {
		sqlDB.SetConnMaxIdleTime(time.Duration(pool.ConnMaxIdleTimeSeconds) * time.Second)
	}
}
