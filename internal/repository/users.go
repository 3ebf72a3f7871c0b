package repository

import (
	"context"
	"database/sql"

	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
)

func (r *Repository) GetUserByIdentifier(ctx context.Context, id string) (*domain.User, error) {
	query := `
		SELECT user_id, email, password, is_active, role_id, created_at
		FROM users WHERE user_id = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	user, err := scanUser(r.dbpool.QueryRowContext(ctx, r.rebind(query), id))
	if err != nil {
		return nil, translateError(err)
	}

	return user, nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	// 历史数据中邮箱没有唯一约束，取最早注册的那个账号
	query := `
		SELECT user_id, email, password, is_active, role_id, created_at
		FROM users WHERE email = $1
		ORDER BY created_at
		LIMIT 1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	user, err := scanUser(r.dbpool.QueryRowContext(ctx, r.rebind(query), email))
	if err != nil {
		return nil, translateError(err)
	}

	return user, nil
}

// CreateUser 在同一个事务中写入用户和其占位资料，保证每个用户恰好有一行资料
func (r *Repository) CreateUser(ctx context.Context, user *domain.User, profile *domain.Profile) error {
	ctx, cancel := r.transactionContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	// 先检查标识或邮箱是否已被占用
	existsQuery := `
		SELECT EXISTS (SELECT 1 FROM users WHERE user_id = $1 OR email = $2)
	`
	isExists := false
	if err := tx.QueryRowContext(ctx, r.rebind(existsQuery), user.ID, user.Email).Scan(&isExists); err != nil {
		return err
	}
	if isExists {
		return domain.ErrConflict
	}

	userQuery := `
		INSERT INTO users (user_id, email, password, is_active, role_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	args := []any{user.ID, user.Email, user.PasswordHash, user.IsActive, user.RoleID, user.CreatedAt}
	if _, err := tx.ExecContext(ctx, r.rebind(userQuery), args...); err != nil {
		return translateError(err)
	}

	profileQuery := `
		INSERT INTO user_profile (p_no, ` + profileColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	args = append([]any{profile.PNo}, profile.FieldValues()...)
	if _, err := tx.ExecContext(ctx, r.rebind(profileQuery), args...); err != nil {
		return translateError(err)
	}

	return tx.Commit()
}

func (r *Repository) UpdatePassword(ctx context.Context, email string, passwordHash string) (*domain.User, error) {
	ctx, cancel := r.transactionContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT user_id, email, password, is_active, role_id, created_at
		FROM users WHERE email = $1
		ORDER BY created_at
		LIMIT 1
		FOR UPDATE
	`
	user, err := scanUser(tx.QueryRowContext(ctx, r.rebind(selectQuery), email))
	if err != nil {
		return nil, translateError(err)
	}

	updateQuery := `
		UPDATE users SET password = $1 WHERE user_id = $2
	`
	if _, err := tx.ExecContext(ctx, r.rebind(updateQuery), passwordHash, user.ID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	user.PasswordHash = passwordHash
	return user, nil
}

// scanUser 读取一行 user_id, email, password, is_active, role_id, created_at。
// 早期通过第三方登录创建的账号 password 为 NULL，读出为空字符串，任何密码都无法与之匹配。
func scanUser(row *sql.Row) (*domain.User, error) {
	user := &domain.User{}
	password := sql.NullString{}
	if err := row.Scan(&user.ID, &user.Email, &password, &user.IsActive, &user.RoleID, &user.CreatedAt); err != nil {
		return nil, err
	}

	user.PasswordHash = password.String
	return user, nil
}
