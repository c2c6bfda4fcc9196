// Package db はGORMによるデータベース接続の確立とマイグレーションを提供します。
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// retryInterval は接続リトライの間隔です。
const retryInterval = 3 * time.Second

// Config はデータベース接続設定です。
type Config struct {
	Driver       string `yaml:"driver"`
	User         string `yaml:"user"`
	Password     string `yaml:"password"`
	Name         string `yaml:"name"`
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	SSLMode      string `yaml:"sslmode"`
	InstanceName string `yaml:"instance_connection_name"` // Cloud SQLのインスタンス接続名
	SQLitePath   string `yaml:"sqlite_path"`

	RunMigrations  bool          `yaml:"run_migrations"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// LoadConfigFromEnv は環境変数からデータベース設定を読み込みます。
func LoadConfigFromEnv() Config {
	cfg := Config{
		Driver:         getenv("DB_DRIVER", DriverPostgres),
		User:           os.Getenv("DB_USER"),
		Password:       os.Getenv("DB_PASSWORD"),
		Name:           os.Getenv("DB_NAME"),
		Host:           getenv("DB_HOST", "localhost"),
		Port:           getenv("DB_PORT", "5432"),
		SSLMode:        getenv("DB_SSLMODE", "disable"),
		InstanceName:   os.Getenv("INSTANCE_CONNECTION_NAME"),
		SQLitePath:     getenv("DB_SQLITE_PATH", "stock_tracker.db"),
		RunMigrations:  os.Getenv("RUN_MIGRATIONS") == "true",
		ConnectTimeout: 60 * time.Second,
	}
	return cfg
}

// BuildDSN はPostgreSQL用の接続文字列を組み立てます。
// InstanceNameが設定されている場合はCloud SQLのUnixソケットを優先します。
func BuildDSN(cfg Config) string {
	host, port := cfg.Host, cfg.Port
	if cfg.InstanceName != "" {
		host, port = "/cloudsql/"+cfg.InstanceName, ""
	}

	parts := []string{
		"host=" + host,
		"user=" + cfg.User,
		"password=" + cfg.Password,
		"dbname=" + cfg.Name,
	}
	if port != "" {
		parts = append(parts, "port="+port)
	}
	sslmode := cfg.SSLMode
	if sslmode == "" {
		sslmode = "disable"
	}
	parts = append(parts, "sslmode="+sslmode, "TimeZone=UTC")
	return strings.Join(parts, " ")
}

// ConnectWithRetry はopenerによる接続をtimeoutまで繰り返し試みます。
// コンテナ起動直後などDBがまだ応答しない状況を想定しています。
func ConnectWithRetry(dsn string, timeout time.Duration, opener func(string) (*gorm.DB, error)) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := opener(dsn)
		if err == nil {
			return db, nil
		}

		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil, fmt.Errorf("db connect failed after %s: %w", timeout, err)
		}
		slog.Warn("db connect failed, retrying", "error", err, "retry_in", retryInterval)
		time.Sleep(min(retryInterval, remaining))
	}
}

// gormConfig は一意制約違反などをgormのエラーに変換する設定を返します。
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

// Open はcfg.Driverに応じてデータベースへ接続し、必要であればmodelsをマイグレーションします。
func Open(cfg Config, models ...any) (*gorm.DB, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case DriverPostgres, "":
		db, err = ConnectWithRetry(BuildDSN(cfg), cfg.ConnectTimeout, func(dsn string) (*gorm.DB, error) {
			return gorm.Open(postgres.Open(dsn), gormConfig())
		})
	case DriverSQLite:
		db, err = openSQLite(cfg.SQLitePath)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	if cfg.RunMigrations {
		if err := Migrate(db, models...); err != nil {
			return nil, err
		}
	}
	return db, nil
}

// openSQLite はSQLiteファイル（または ":memory:"）を開きます。
// SQLiteは同時書き込みに弱いため、接続を1本に制限します。
func openSQLite(path string) (*gorm.DB, error) {
	if path == "" {
		return nil, errors.New("sqlite path is empty")
	}
	db, err := gorm.Open(sqlite.Open(path), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Migrate はテーブルが存在しなければ作成します。既存テーブルの変更は行いません。
func Migrate(db *gorm.DB, models ...any) error {
	if len(models) == 0 {
		return nil
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	slog.Info("database migrated", "models", len(models))
	return nil
}

// Ping はヘルスチェック用にデータベースへの疎通を確認します。
func Ping(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Close は下層の接続プールを閉じます。
func Close(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
