// Package store は利用者と生成済み記事の永続化境界を定義します。
package store

import (
	"context"
	"errors"

	"yt-blog-web/internal/domain"
)

var (
	// ErrNotFound は対象レコードが存在しないことを示します。
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail は登録済みメールアドレスの再登録を示します。
	ErrDuplicateEmail = errors.New("email is already registered")
)

// UserStore は利用者アカウントの永続化契約です。
type UserStore interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
}

// PostStore は生成済み記事の永続化契約です。記事の保存は生成の
// 完全成功時にのみ、ちょうど1回行われます。
type PostStore interface {
	CreatePost(ctx context.Context, post domain.Post) error
	ListPostsByAuthor(ctx context.Context, authorID string) ([]domain.Post, error)
}
