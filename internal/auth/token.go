// Package auth は署名付きセッショントークンと認証境界を提供します。
// コア側が要求するのは「トークンから安定した利用者IDへ解決するか、
// 拒否するか」だけです。
package auth

import (
	"fmt"
	"time"

	"yt-blog-web/internal/domain"

	"github.com/golang-jwt/jwt/v5"
)

// Identity は検証済みトークンから解決された利用者です。
type Identity struct {
	ID    string
	Email string
	Name  string
}

// TokenVerifier はトークン検証の契約です。ハンドラーとミドルウェアは
// この契約だけに依存します。
type TokenVerifier interface {
	Verify(token string) (Identity, error)
}

// TokenService は HS256 署名のセッショントークンを発行・検証します。
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService は TokenService を構築します。
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

type sessionClaims struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	jwt.RegisteredClaims
}

// Issue は利用者のセッショントークンを発行します。
func (s *TokenService) Issue(user domain.User) (string, error) {
	now := time.Now()
	claims := sessionClaims{
		Email: user.Email,
		Name:  user.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, nil
}

// Verify はトークンを検証し、利用者のアイデンティティへ解決します。
// 期限切れ・署名不正・アルゴリズム不一致はすべて拒否です。
func (s *TokenService) Verify(raw string) (Identity, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(t *jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid session token: %w", err)
	}
	if claims.Subject == "" {
		return Identity{}, fmt.Errorf("session token has no subject")
	}

	return Identity{
		ID:    claims.Subject,
		Email: claims.Email,
		Name:  claims.Name,
	}, nil
}
