package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/sysu-ecnc-dev/crew-data/backend/internal/domain"
	"github.com/sysu-ecnc-dev/crew-data/backend/internal/secret"
)

var (
	ErrUnknownIdentity = fmt.Errorf("%w: unknown identifier", domain.ErrUnauthenticated)
	ErrWrongPassword   = fmt.Errorf("%w: wrong password", domain.ErrUnauthenticated)
	ErrSecretMismatch  = fmt.Errorf("%w: secret mismatch", domain.ErrUnauthenticated)
)

type UserFinder interface {
	GetUserByIdentifier(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// Verifier 支持两种校验方式：标识 + 密码，以及标识 + 登录时下发的临时密钥
type Verifier struct {
	users        UserFinder
	secrets      secret.Store
	secretDigits int
}

func NewVerifier(users UserFinder, secrets secret.Store, secretDigits int) *Verifier {
	return &Verifier{
		users:        users,
		secrets:      secrets,
		secretDigits: secretDigits,
	}
}

// VerifyPassword 先按标识查找用户，找不到时再按邮箱查找
func (v *Verifier) VerifyPassword(ctx context.Context, identity, password string) (*domain.User, error) {
	user, err := v.users.GetUserByIdentifier(ctx, identity)
	if errors.Is(err, domain.ErrNotFound) {
		user, err = v.users.GetUserByEmail(ctx, identity)
	}
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrUnknownIdentity
		}
		return nil, err
	}

	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return nil, err
	}

	return user, nil
}

func (v *Verifier) VerifySecret(ctx context.Context, identifier, presented string) error {
	stored, ok, err := v.secrets.Get(ctx, identifier)
	if err != nil {
		return err
	}
	if !ok || stored != presented {
		return ErrSecretMismatch
	}
	return nil
}

// IssueSecret 生成新的临时密钥并覆盖该用户之前的密钥
func (v *Verifier) IssueSecret(ctx context.Context, identifier string) (string, error) {
	value, err := secret.Generate(v.secretDigits)
	if err != nil {
		return "", err
	}

	if err := v.secrets.Put(ctx, identifier, value); err != nil {
		return "", err
	}

	return value, nil
}
