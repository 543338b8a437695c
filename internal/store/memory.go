package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"yt-blog-web/internal/domain"
)

// MemoryStore は UserStore と PostStore のインメモリ実装です。
// 単一プロセスでの運用とテストを想定しています。
type MemoryStore struct {
	mu           sync.RWMutex
	usersByID    map[string]domain.User
	usersByEmail map[string]string
	posts        map[string][]domain.Post
}

// NewMemoryStore は空の MemoryStore を構築します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		usersByID:    make(map[string]domain.User),
		usersByEmail: make(map[string]string),
		posts:        make(map[string][]domain.Post),
	}
}

// CreateUser は利用者を登録します。メールアドレスは大文字小文字を
// 区別せず一意です。
func (s *MemoryStore) CreateUser(_ context.Context, user domain.User) error {
	key := normalizeEmail(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.usersByEmail[key]; exists {
		return ErrDuplicateEmail
	}
	s.usersByID[user.ID] = user
	s.usersByEmail[key] = user.ID
	return nil
}

// GetUserByEmail はメールアドレスで利用者を検索します。
func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usersByEmail[normalizeEmail(email)]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return s.usersByID[id], nil
}

// CreatePost は生成済み記事を保存します。
func (s *MemoryStore) CreatePost(_ context.Context, post domain.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts[post.AuthorID] = append(s.posts[post.AuthorID], post)
	return nil
}

// ListPostsByAuthor は指定利用者の記事を新しい順で返します。
func (s *MemoryStore) ListPostsByAuthor(_ context.Context, authorID string) ([]domain.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	src := s.posts[authorID]
	out := make([]domain.Post, len(src))
	copy(out, src)

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
