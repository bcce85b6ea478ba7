package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"mediablog/internal/config"
	"mediablog/internal/models"
	"mediablog/internal/repository"
	"mediablog/internal/storage"
)

// UploadFile - файл из multipart-формы, уже открытый хендлером
type UploadFile struct {
	FileName string
	Size     int64
	File     io.Reader
}

type ComposeRequest struct {
	UserID   string
	Title    string
	Content  string
	VideoURL string
	Images   []UploadFile
	Video    *UploadFile
}

type UpdateRequest struct {
	PostID      string
	UserID      string
	Title       string
	Content     string
	RemoveFiles []models.MediaFile
	NewImages   []UploadFile
	VideoURL    string
	Video       *UploadFile
	VideoChange bool
}

type PostService interface {
	Compose(ctx context.Context, req ComposeRequest) (*models.Post, error)
	Update(ctx context.Context, req UpdateRequest) (*models.Post, error)
	Delete(ctx context.Context, postID, userID string) error
}

type postService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	storage  storage.Storage
	cfg      *config.Config
}

func NewPostService(postRepo repository.PostRepository, userRepo repository.UserRepository, storage storage.Storage, cfg *config.Config) PostService {
	return &postService{
		postRepo: postRepo,
		userRepo: userRepo,
		storage:  storage,
		cfg:      cfg,
	}
}

// Compose загружает медиа, снимает имя автора и сохраняет пост.
// Откатов нет: уже загруженные файлы при ошибке сохранения остаются
// в хранилище.
func (p *postService) Compose(ctx context.Context, req ComposeRequest) (*models.Post, error) {
	images, err := p.uploadImages(ctx, req.Images)
	if err != nil {
		return nil, err
	}

	video := models.MediaFile{PublicID: "", URL: req.VideoURL}
	if req.Video != nil {
		video, err = p.storage.Upload(ctx, req.Video.FileName, req.Video.File, req.Video.Size, storage.ResourceTypeVideo)
		if err != nil {
			return nil, fmt.Errorf("ошибка загрузки видео: %w", err)
		}
	}

	// снимок имени автора на момент создания
	user, err := p.userRepo.GetUserByID(ctx, req.UserID)
	if err != nil {
		return nil, err
	}

	post := &models.Post{
		UserID:  req.UserID,
		Name:    user.Name,
		Title:   req.Title,
		Content: req.Content,
		Images:  images,
		Video:   video,
	}

	err = p.postRepo.Create(ctx, post)
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) Update(ctx context.Context, req UpdateRequest) (*models.Post, error) {
	post, err := p.postRepo.GetByID(ctx, req.PostID)
	if err != nil {
		return nil, err
	}

	if post.UserID != req.UserID {
		return nil, fmt.Errorf("нет прав на изменение поста")
	}

	if req.Title != "" {
		post.Title = req.Title
	}
	if req.Content != "" {
		post.Content = req.Content
	}

	// удаляемые файлы: запрос на удаление не блокирует обновление,
	// из списка поста они убираются независимо от результата
	for _, file := range req.RemoveFiles {
		p.destroyAsync(file.PublicID, storage.ResourceTypeImage)
	}

	if len(req.RemoveFiles) > 0 {
		images := make(models.MediaList, 0, len(post.Images))
		for _, image := range post.Images {
			removed := false
			for _, file := range req.RemoveFiles {
				if file.PublicID == image.PublicID {
					removed = true
					break
				}
			}
			if !removed {
				images = append(images, image)
			}
		}
		post.Images = images
	}

	newImages, err := p.uploadImages(ctx, req.NewImages)
	if err != nil {
		return nil, err
	}
	post.Images = append(post.Images, newImages...)

	// политика замены видео, в порядке приоритета:
	// внешний url -> новый файл -> флаг сброса -> без изменений
	switch {
	case req.VideoURL != "":
		if post.Video.PublicID != "" {
			p.destroyAsync(post.Video.PublicID, storage.ResourceTypeVideo)
		}
		post.Video = models.MediaFile{PublicID: "", URL: req.VideoURL}
	case req.Video != nil:
		if post.Video.PublicID != "" {
			p.destroyAsync(post.Video.PublicID, storage.ResourceTypeVideo)
		}
		video, err := p.storage.Upload(ctx, req.Video.FileName, req.Video.File, req.Video.Size, storage.ResourceTypeVideo)
		if err != nil {
			return nil, fmt.Errorf("ошибка загрузки видео: %w", err)
		}
		post.Video = video
	case req.VideoChange:
		if post.Video.PublicID != "" {
			p.destroyAsync(post.Video.PublicID, storage.ResourceTypeVideo)
		}
		post.Video = models.MediaFile{PublicID: "", URL: ""}
	}

	err = p.postRepo.Update(ctx, post)
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (p *postService) Delete(ctx context.Context, postID, userID string) error {
	post, err := p.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}

	if post.UserID != userID {
		return fmt.Errorf("нет прав на изменение поста")
	}

	for _, image := range post.Images {
		p.destroyAsync(image.PublicID, storage.ResourceTypeImage)
	}
	if post.Video.PublicID != "" {
		p.destroyAsync(post.Video.PublicID, storage.ResourceTypeVideo)
	}

	return p.postRepo.Delete(ctx, postID, userID)
}

// uploadImages загружает изображения одновременно; порядок результатов -
// порядок завершения загрузок, не порядок во входной форме
func (p *postService) uploadImages(ctx context.Context, files []UploadFile) (models.MediaList, error) {
	images := make(models.MediaList, 0, len(files))
	if len(files) == 0 {
		return images, nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for _, file := range files {
		file := file
		g.Go(func() error {
			media, err := p.storage.Upload(gctx, file.FileName, file.File, file.Size, storage.ResourceTypeImage)
			if err != nil {
				return err
			}

			mu.Lock()
			images = append(images, media)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("ошибка загрузки изображения: %w", err)
	}

	return images, nil
}

// destroyAsync - удаление по принципу "выстрелил и забыл":
// результат не ожидается, ошибка только пишется в лог
func (p *postService) destroyAsync(publicID, resourceType string) {
	if publicID == "" {
		return
	}

	go func() {
		if err := p.storage.Destroy(context.Background(), publicID, resourceType); err != nil {
			log.Printf("Предупреждение: не удалось удалить %s из хранилища: %v", publicID, err)
		}
	}()
}
