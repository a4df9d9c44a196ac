package repository

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"go_tenant_kernel/internal/tenancy"

	slogGorm "github.com/orandin/slog-gorm"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// サポートするDBプロバイダ
const (
	ProviderPostgres = "postgres"
	ProviderSQLite   = "sqlite"
)

// NewDB はプロバイダに応じたドライバでDBに接続します。
// ホストDBと共有アプリDBの初期接続に使う。テナント別の接続は Router が開く。
func NewDB(provider, dsn string, appLogger *slog.Logger) (*gorm.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), DefaultOpenTimeout)
	defer cancel()
	db, err := open(ctx, provider, tenancy.Target{ConnectionString: dsn}, appLogger)
	if err != nil {
		appLogger.Error("Failed to connect to database with GORM", "provider", provider, "error", err)
		return nil, err
	}
	appLogger.Info("Database connection established with GORM", "provider", provider)
	return db, nil
}

// DefaultOpenTimeout は接続確認（ping）までの上限です。
const DefaultOpenTimeout = 10 * time.Second

// open は Target に接続し、ping と接続プール設定まで行います。
// ping は ctx の期限とキャンセルに従う。
func open(ctx context.Context, provider string, target tenancy.Target, appLogger *slog.Logger) (*gorm.DB, error) {
	dialector, err := newDialector(provider, target, appLogger)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: newGormLogger(appLogger),
		// ドライバ固有の一意制約違反を gorm.ErrDuplicatedKey に変換する
		TranslateError: true,
		// ping は下で ctx 付きで行う
		DisableAutomaticPing: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open (%s): %w", provider, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	if err = sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if provider == ProviderSQLite {
		// SQLite は書き込みが単一接続に直列化される
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func newGormLogger(appLogger *slog.Logger) gormlogger.Interface {
	level := gormlogger.Warn
	if strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		level = gormlogger.Info
	}
	return slogGorm.New(
		slogGorm.WithHandler(appLogger.Handler()),
		slogGorm.WithTraceAll(),
		slogGorm.WithSlowThreshold(500*time.Millisecond),
	).LogMode(level)
}
