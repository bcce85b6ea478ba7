package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"mediablog/internal/models"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type PostRepositoryImpl struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) *PostRepositoryImpl {
	return &PostRepositoryImpl{db: db}
}

// Create вставляет пост и добавляет его id в список постов владельца
// в одной транзакции
func (r *PostRepositoryImpl) Create(ctx context.Context, post *models.Post) error {
	if post.PostID == "" {
		post.PostID = uuid.New().String()
	}
	if post.Date.IsZero() {
		post.Date = time.Now()
	}
	if post.Images == nil {
		post.Images = models.MediaList{}
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback()

	query := `
        INSERT INTO posts (post_id, user_id, name, title, content, date, images, video)
        VALUES (:post_id, :user_id, :name, :title, :content, :date, :images, :video)
    `

	_, err = tx.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("ошибка при создании поста: %w", err)
	}

	appendQuery := `
		UPDATE users
		SET posts = COALESCE(posts, '[]'::jsonb) || jsonb_build_array($1::text)
		WHERE user_id = $2
	`

	_, err = tx.ExecContext(ctx, appendQuery, post.PostID, post.UserID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении списка постов пользователя: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return nil
}

func (r *PostRepositoryImpl) GetByID(ctx context.Context, postID string) (*models.Post, error) {
	query := `SELECT * FROM posts WHERE post_id = $1`

	var post models.Post
	err := r.db.GetContext(ctx, &post, query, postID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("пост с ID %s не найден", postID)
		}
		return nil, fmt.Errorf("ошибка при получении поста: %w", err)
	}

	return &post, nil
}

func (r *PostRepositoryImpl) GetByUserID(ctx context.Context, userID string) ([]models.Post, error) {
	query := `SELECT * FROM posts WHERE user_id = $1`

	posts := []models.Post{}
	err := r.db.SelectContext(ctx, &posts, query, userID)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении постов пользователя: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) GetAll(ctx context.Context) ([]models.Post, error) {
	query := `SELECT * FROM posts`

	posts := []models.Post{}
	err := r.db.SelectContext(ctx, &posts, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при получении постов: %w", err)
	}

	return posts, nil
}

// Search - полнотекстовый поиск по заголовку и тексту, ранжирование ts_rank
func (r *PostRepositoryImpl) Search(ctx context.Context, query string) ([]models.Post, error) {
	searchQuery := `
        SELECT * FROM posts
        WHERE to_tsvector('english', title || ' ' || content) @@ plainto_tsquery('english', $1)
        ORDER BY ts_rank(to_tsvector('english', title || ' ' || content), plainto_tsquery('english', $1)) DESC
    `

	posts := []models.Post{}
	err := r.db.SelectContext(ctx, &posts, searchQuery, query)
	if err != nil {
		return nil, fmt.Errorf("ошибка при поиске постов: %w", err)
	}

	return posts, nil
}

func (r *PostRepositoryImpl) Update(ctx context.Context, post *models.Post) error {
	query := `
		UPDATE posts SET
			title = :title,
			content = :content,
			images = :images,
			video = :video
		WHERE post_id = :post_id
	`

	result, err := r.db.NamedExecContext(ctx, query, post)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке обновленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост с ID %s не найден", post.PostID)
	}

	return nil
}

// Delete удаляет пост и убирает его id из списка постов владельца
// в одной транзакции
func (r *PostRepositoryImpl) Delete(ctx context.Context, postID, userID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("ошибка открытия транзакции: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM posts WHERE post_id = $1`, postID)
	if err != nil {
		return fmt.Errorf("ошибка при удалении поста: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("ошибка при проверке удаленных строк: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("пост с ID %s не найден", postID)
	}

	removeQuery := `
		UPDATE users
		SET posts = (
			SELECT COALESCE(jsonb_agg(elem), '[]'::jsonb)
			FROM jsonb_array_elements(posts) AS elem
			WHERE elem <> to_jsonb($1::text)
		)
		WHERE user_id = $2
	`

	_, err = tx.ExecContext(ctx, removeQuery, postID, userID)
	if err != nil {
		return fmt.Errorf("ошибка при обновлении списка постов пользователя: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("ошибка фиксации транзакции: %w", err)
	}

	return nil
}
