package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type User struct {
	UserID       string     `json:"userId" db:"user_id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Posts        PostIDList `json:"posts" db:"posts"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

type Post struct {
	PostID  string    `json:"postId" db:"post_id"`
	UserID  string    `json:"user" db:"user_id"`
	Name    string    `json:"name" db:"name"`
	Title   string    `json:"title" db:"title"`
	Content string    `json:"content" db:"content"`
	Date    time.Time `json:"date" db:"date"`
	Images  MediaList `json:"images" db:"images"`
	Video   MediaFile `json:"video" db:"video"`
}

// MediaFile - ссылка на файл во внешнем хранилище.
// Пустой public_id означает, что файл не размещен этим сервисом
// (внешнее видео по URL либо отсутствие видео).
type MediaFile struct {
	PublicID string `json:"public_id"`
	URL      string `json:"url"`
}

func (m MediaFile) Value() (driver.Value, error) {
	return json.Marshal(m)
}

func (m *MediaFile) Scan(src interface{}) error {
	return scanJSONB(src, m)
}

type MediaList []MediaFile

func (l MediaList) Value() (driver.Value, error) {
	if l == nil {
		l = MediaList{}
	}
	return json.Marshal(l)
}

func (l *MediaList) Scan(src interface{}) error {
	return scanJSONB(src, l)
}

// PostIDList - денормализованный список постов пользователя
type PostIDList []string

func (l PostIDList) Value() (driver.Value, error) {
	if l == nil {
		l = PostIDList{}
	}
	return json.Marshal(l)
}

func (l *PostIDList) Scan(src interface{}) error {
	return scanJSONB(src, l)
}

func scanJSONB(src interface{}, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("неподдерживаемый тип jsonb колонки: %T", src)
	}
}
