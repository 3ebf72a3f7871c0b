package repository

import (
	"context"

	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
)

// 列顺序与 domain.ProfileFields 一致
const profileColumns = `name, alias, dob, gender, email, email2, number, number2, base, marital_status, ` +
	`employment, seniority, height, weight, eye_color, hair_color, image`

func (r *Repository) GetProfile(ctx context.Context, pNo string) (*domain.Profile, error) {
	query := `
		SELECT p_no, ` + profileColumns + `
		FROM user_profile WHERE p_no = $1
	`

	ctx, cancel := r.queryContext(ctx)
	defer cancel()

	profile := &domain.Profile{}
	dst := append([]any{&profile.PNo}, profile.FieldPointers()...)
	if err := r.dbpool.QueryRowContext(ctx, r.rebind(query), pNo).Scan(dst...); err != nil {
		return nil, translateError(err)
	}

	return profile, nil
}

// UpdateProfile 将 patch 合并到当前资料后整行写回。
// 读取时对该行加锁，同一用户的并发更新会串行执行，不会互相覆盖对方修改的字段。
func (r *Repository) UpdateProfile(ctx context.Context, pNo string, patch domain.ProfilePatch) (*domain.Profile, error) {
	ctx, cancel := r.transactionContext(ctx)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT p_no, ` + profileColumns + `
		FROM user_profile WHERE p_no = $1
		FOR UPDATE
	`
	current := &domain.Profile{}
	dst := append([]any{&current.PNo}, current.FieldPointers()...)
	if err := tx.QueryRowContext(ctx, r.rebind(selectQuery), pNo).Scan(dst...); err != nil {
		return nil, translateError(err)
	}

	merged := domain.MergeProfile(*current, patch)

	updateQuery := `
		UPDATE user_profile
		SET
			name = $1,
			alias = $2,
			dob = $3,
			gender = $4,
			email = $5,
			email2 = $6,
			number = $7,
			number2 = $8,
			base = $9,
			marital_status = $10,
			employment = $11,
			seniority = $12,
			height = $13,
			weight = $14,
			eye_color = $15,
			hair_color = $16,
			image = $17
		WHERE p_no = $18
	`
	args := append(merged.FieldValues(), merged.PNo)
	if _, err := tx.ExecContext(ctx, r.rebind(updateQuery), args...); err != nil {
		return nil, translateError(err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &merged, nil
}
