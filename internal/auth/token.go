package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrEmptySecret  = errors.New("token signing secret must not be empty")
)

// TokenIssuer 签发的令牌不设置过期时间，一经签发永久有效，只能通过更换 JWT_SECRET 使其全部失效
type TokenIssuer struct {
	secret []byte
	now    func() time.Time
}

// NewTokenIssuer 拒绝空密钥，否则任何人都可以伪造令牌
func NewTokenIssuer(secret string) (*TokenIssuer, error) {
	if secret == "" {
		return nil, ErrEmptySecret
	}

	return &TokenIssuer{
		secret: []byte(secret),
		now:    time.Now,
	}, nil
}

func (t *TokenIssuer) Issue(subject string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:  subject,
		IssuedAt: jwt.NewNumericDate(t.now()),
	})
	return token.SignedString(t.secret)
}

// Subject 校验令牌签名并返回其中的用户标识
func (t *TokenIssuer) Subject(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return t.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", errors.Join(ErrInvalidToken, err)
	}

	if claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
