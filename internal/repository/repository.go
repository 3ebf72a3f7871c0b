package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/config"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
)

const (
	DriverPostgres = "pgx"
	DriverMySQL    = "mysql"
)

type Repository struct {
	cfg    *config.Config
	dbpool *sql.DB
}

func NewRepository(cfg *config.Config, dbpool *sql.DB) *Repository {
	return &Repository{
		cfg:    cfg,
		dbpool: dbpool,
	}
}

func (r *Repository) Ping(ctx context.Context) error {
	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	return r.dbpool.PingContext(ctx)
}

func (r *Repository) queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
}

func (r *Repository) transactionContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
}

var placeholderRe = regexp.MustCompile(`\$\d+`)

// 所有 SQL 都按 PostgreSQL 的 $n 占位符编写，MySQL 下替换为 ?。
// 每个参数在语句中只出现一次且按顺序出现，所以替换是安全的。
func (r *Repository) rebind(query string) string {
	if r.cfg.Database.Driver != DriverMySQL {
		return query
	}
	return placeholderRe.ReplaceAllString(query, "?")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}

	return false
}

// 统一把驱动层的错误转换为 domain 中的错误类型
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrNotFound
	case isUniqueViolation(err):
		return errors.Join(domain.ErrConflict, err)
	default:
		return err
	}
}
