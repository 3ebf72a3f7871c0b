package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePassword 在摘要无法验证该密码时返回 ErrWrongPassword。
// 空摘要和非 bcrypt 格式的历史摘要（如 pbkdf2）同样视为不匹配，底层错误保留在错误链中。
func ComparePassword(hash, password string) error {
	if hash == "" {
		return ErrWrongPassword
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrWrongPassword
	default:
		return fmt.Errorf("%w: %w", ErrWrongPassword, err)
	}
}
