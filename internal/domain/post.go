package domain

import "time"

// User は認証境界から解決される利用者です。
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PostImage は記事に紐づく画像レコードです。1記事につき高々1件です。
type PostImage struct {
	URL string `json:"url"`
}

// Post は永続化されたブログ記事です。パイプラインの成功1回につき
// ちょうど1件作成され、パイプライン自身が更新することはありません。
type Post struct {
	ID             string      `json:"id"`
	AuthorID       string      `json:"authorId"`
	Title          string      `json:"title"`
	Content        string      `json:"content"`
	VideoURL       string      `json:"videoUrl"`
	Tone           BlogTone    `json:"tone"`
	Length         BlogLength  `json:"length"`
	ContentType    ContentType `json:"contentType"`
	GeneratedImage bool        `json:"generatedImage"`
	Images         []PostImage `json:"images"`
	CreatedAt      time.Time   `json:"createdAt"`
}
