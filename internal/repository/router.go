package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go_tenant_kernel/internal/metrics"
	"go_tenant_kernel/internal/middleware"
	"go_tenant_kernel/internal/tenancy"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/lib/pq"
	"golang.org/x/sync/singleflight"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SearchPathStatement は物理接続を開いた直後に実行する search_path 設定文です。
func SearchPathStatement(schema string) string {
	return fmt.Sprintf("SET search_path TO %s, public", pq.QuoteIdentifier(schema))
}

// Router は現在のテナントに対応するアプリDBのハンドルを返します。
// ハンドルは接続先とスキーマの組ごとに1つ開かれ、共有される。
// テナントフィルタはハンドルに含めず、クエリごとに TenantScope で付与する。
type Router struct {
	provider string
	resolver *tenancy.ConnectionResolver
	logger   *slog.Logger
	metrics  *metrics.Metrics

	// 接続の確立はロックの外で行い、同じ接続先への同時オープンを1回にまとめる
	opening     singleflight.Group
	openTimeout time.Duration

	mu       sync.Mutex
	handles  map[tenancy.Target]*gorm.DB
	sessions map[ModelCacheKey]*gorm.DB
	failures map[tenancy.Target]failedOpen
}

// openRetryBackoff の間は失敗した接続先を再オープンせず、直前のエラーを返す。
const openRetryBackoff = 5 * time.Second

type failedOpen struct {
	err error
	at  time.Time
}

// ModelCacheKey はテナント別セッションのキャッシュキーです。
// SharedDb では同じ接続先でもフィルタ値（テナントID）ごとに別のセッションになる。
// プリペアドステートメントのキャッシュはハンドル単位で共有されるため、
// テナント間の分離はセッションではなくバインドされたフィルタ値が担う。
type ModelCacheKey struct {
	Target         tenancy.Target
	FilterTenantID int64
}

// ModelCacheKeyFor はコンテキストのテナントと接続先からキーを作ります。
func ModelCacheKeyFor(ctx context.Context, target tenancy.Target) ModelCacheKey {
	return ModelCacheKey{Target: target, FilterTenantID: tenancy.QueryFilterTenantID(ctx)}
}

func NewRouter(provider string, resolver *tenancy.ConnectionResolver, m *metrics.Metrics, logger *slog.Logger) *Router {
	return &Router{
		provider:    provider,
		resolver:    resolver,
		logger:      logger,
		metrics:     m,
		openTimeout: DefaultOpenTimeout,
		handles:     make(map[tenancy.Target]*gorm.DB),
		sessions:    make(map[ModelCacheKey]*gorm.DB),
		failures:    make(map[tenancy.Target]failedOpen),
	}
}

// For はコンテキストのテナント（未解決なら共有DB）のハンドルを ctx 付きで返します。
func (r *Router) For(ctx context.Context) (*gorm.DB, error) {
	tenant, _ := tenancy.FromContext(ctx)
	target, err := r.resolver.Resolve(tenant)
	if err != nil {
		return nil, err
	}

	db, err := r.session(ctx, target)
	if err != nil {
		return nil, err
	}
	return db.WithContext(ctx), nil
}

// session は ModelCacheKey ごとのセッションを返します。同じテナントのリクエスト間では共有される。
func (r *Router) session(ctx context.Context, target tenancy.Target) (*gorm.DB, error) {
	key := ModelCacheKeyFor(ctx, target)

	r.mu.Lock()
	if s, ok := r.sessions[key]; ok {
		r.mu.Unlock()
		return s, nil
	}
	r.mu.Unlock()

	db, err := r.handle(ctx, target)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[key]; ok {
		return s, nil
	}
	s := db.Session(&gorm.Session{PrepareStmt: true})
	r.sessions[key] = s
	return s, nil
}

// SessionCount はキャッシュされているセッション数を返します。
func (r *Router) SessionCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Attach は既に開いているハンドルを接続先に登録します（共有アプリDBの再利用やテスト用）。
func (r *Router) Attach(target tenancy.Target, db *gorm.DB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handles[target] = db
	delete(r.failures, target)
	for key := range r.sessions {
		if key.Target == target {
			delete(r.sessions, key)
		}
	}
	r.metrics.SetRoutedHandles(len(r.handles))
}

// handle は接続先のハンドルを返します。未オープンなら開く。
// 待機は呼び出し元の ctx で打ち切れるが、オープン自体は他の待機者のために続行する。
func (r *Router) handle(ctx context.Context, target tenancy.Target) (*gorm.DB, error) {
	r.mu.Lock()
	if db, ok := r.handles[target]; ok {
		r.mu.Unlock()
		return db, nil
	}
	if f, ok := r.failures[target]; ok && time.Since(f.at) < openRetryBackoff {
		r.mu.Unlock()
		return nil, f.err
	}
	r.mu.Unlock()

	logger := middleware.GetLogger(ctx)
	ch := r.opening.DoChan(target.SchemaName+"\x00"+target.ConnectionString, func() (interface{}, error) {
		r.mu.Lock()
		if db, ok := r.handles[target]; ok {
			r.mu.Unlock()
			return db, nil
		}
		r.mu.Unlock()

		openCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.openTimeout)
		defer cancel()

		logger.Info("Opening tenant database handle", "schema", target.SchemaName)
		db, err := open(openCtx, r.provider, target, r.logger)

		r.mu.Lock()
		defer r.mu.Unlock()
		if err != nil {
			err = fmt.Errorf("open tenant database: %w", err)
			r.failures[target] = failedOpen{err: err, at: time.Now()}
			logger.Error("Failed to open tenant database handle", "schema", target.SchemaName, "error", err)
			return nil, err
		}
		delete(r.failures, target)
		r.handles[target] = db
		r.metrics.SetRoutedHandles(len(r.handles))
		return db, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*gorm.DB), nil
	}
}

// Close は開いたすべてのハンドルを閉じます。
func (r *Router) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var firstErr error
	for target, db := range r.handles {
		if sqlDB, err := db.DB(); err == nil {
			if err := sqlDB.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
		delete(r.handles, target)
	}
	clear(r.sessions)
	clear(r.failures)
	r.metrics.SetRoutedHandles(0)
	return firstErr
}

// newDialector はプロバイダごとのダイアレクタを作成します。
// PostgreSQL でスキーマ指定がある場合、プールが新しい物理接続を開くたびに search_path を設定する。
func newDialector(provider string, target tenancy.Target, logger *slog.Logger) (gorm.Dialector, error) {
	switch provider {
	case ProviderPostgres:
		if target.SchemaName == "" {
			return postgres.Open(target.ConnectionString), nil
		}
		sqlDB, err := openSearchPathPool(target)
		if err != nil {
			return nil, err
		}
		return postgres.New(postgres.Config{Conn: sqlDB}), nil
	case ProviderSQLite:
		if target.SchemaName != "" {
			logger.Warn("SchemaPerTenant is active but the provider does not support search_path; skipped",
				"provider", provider, "schema", target.SchemaName)
		}
		return sqlite.Open(target.ConnectionString), nil
	default:
		return nil, fmt.Errorf("unsupported database provider %q", provider)
	}
}

func openSearchPathPool(target tenancy.Target) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(target.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}
	stmt := SearchPathStatement(target.SchemaName)
	return stdlib.OpenDB(*cfg, stdlib.OptionAfterConnect(func(ctx context.Context, conn *pgx.Conn) error {
		_, err := conn.Exec(ctx, stmt)
		return err
	})), nil
}
