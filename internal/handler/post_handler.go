package handlers

import (
	"encoding/json"
	"log"
	"mediablog/internal/models"
	"mediablog/internal/service"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type composeForm struct {
	Title   string `validate:"required"`
	Content string `validate:"required"`
}

var composeMessages = map[string]string{
	"title":   "Enter a valid title",
	"content": "Content must be atleast 5 characters",
}

func (h *Handlers) Compose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "Ошибка при обработке формы", http.StatusBadRequest)
		return
	}

	title := r.FormValue("title")
	content := r.FormValue("content")
	videoURL := r.FormValue("videourl")

	// проверяется только наличие полей
	if err := h.Validate.Struct(composeForm{Title: title, Content: content}); err != nil {
		writeValidationErrors(w, validationFieldErrors(err, composeMessages))
		return
	}

	images, closers, err := openFormFiles(r, "file")
	if err != nil {
		WriteError(w, "Не удалось получить файл", http.StatusBadRequest)
		return
	}
	defer closeAll(closers)

	video, videoCloser, err := openFormFile(r, "video")
	if err != nil {
		WriteError(w, "Не удалось получить файл", http.StatusBadRequest)
		return
	}
	if videoCloser != nil {
		defer videoCloser.Close()
	}

	post, err := h.PostService.Compose(r.Context(), service.ComposeRequest{
		UserID:   userID,
		Title:    title,
		Content:  content,
		VideoURL: videoURL,
		Images:   images,
		Video:    video,
	})
	if err != nil {
		log.Printf("Ошибка создания поста: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, post, http.StatusOK)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		WriteError(w, "Ошибка при обработке формы", http.StatusBadRequest)
		return
	}

	// removeFiles приходит строкой с JSON-массивом {public_id}
	var removeFiles []models.MediaFile
	if raw := r.FormValue("removeFiles"); raw != "" {
		if err := json.Unmarshal([]byte(raw), &removeFiles); err != nil {
			WriteError(w, "Неверный формат removeFiles", http.StatusBadRequest)
			return
		}
	}

	newImages, closers, err := openFormFiles(r, "file")
	if err != nil {
		WriteError(w, "Не удалось получить файл", http.StatusBadRequest)
		return
	}
	defer closeAll(closers)

	video, videoCloser, err := openFormFile(r, "video")
	if err != nil {
		WriteError(w, "Не удалось получить файл", http.StatusBadRequest)
		return
	}
	if videoCloser != nil {
		defer videoCloser.Close()
	}

	post, err := h.PostService.Update(r.Context(), service.UpdateRequest{
		PostID:      postID,
		UserID:      userID,
		Title:       r.FormValue("title"),
		Content:     r.FormValue("content"),
		RemoveFiles: removeFiles,
		NewImages:   newImages,
		VideoURL:    r.FormValue("videourl"),
		Video:       video,
		VideoChange: r.FormValue("videochange") != "",
	})
	if err != nil {
		writePostError(w, err)
		return
	}

	WriteSuccess(w, post, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	postID := mux.Vars(r)["id"]

	if err := h.PostService.Delete(r.Context(), postID, userID); err != nil {
		writePostError(w, err)
		return
	}

	WriteSuccess(w, true, http.StatusOK)
}

func (h *Handlers) FetchPosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		WriteError(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	posts, err := h.PostRepo.GetByUserID(r.Context(), userID)
	if err != nil {
		log.Printf("Ошибка получения постов: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) FetchAllPosts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	posts, err := h.PostRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("Ошибка получения постов: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, posts, http.StatusOK)
}

func (h *Handlers) Search(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	query := mux.Vars(r)["query"]

	posts, err := h.PostRepo.Search(r.Context(), query)
	if err != nil {
		log.Printf("Ошибка поиска: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, posts, http.StatusOK)
}

// GetPost возвращает список из одного поста, для отсутствующего id -
// пустой список, не 404
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	postID := mux.Vars(r)["id"]

	post, err := h.PostRepo.GetByID(r.Context(), postID)
	if err != nil {
		if strings.Contains(err.Error(), "не найден") {
			WriteSuccess(w, []models.Post{}, http.StatusOK)
			return
		}
		log.Printf("Ошибка получения поста: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	WriteSuccess(w, []models.Post{*post}, http.StatusOK)
}

func writePostError(w http.ResponseWriter, err error) {
	switch {
	case strings.Contains(err.Error(), "не найден"):
		http.Error(w, "Not found", http.StatusNotFound)
	case strings.Contains(err.Error(), "нет прав"):
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	default:
		log.Printf("Ошибка обработки поста: %v", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// openFormFiles открывает все файлы поля формы
func openFormFiles(r *http.Request, field string) ([]service.UploadFile, []multipart.File, error) {
	files := []service.UploadFile{}
	closers := []multipart.File{}

	if r.MultipartForm == nil {
		return files, closers, nil
	}

	for _, header := range r.MultipartForm.File[field] {
		f, err := header.Open()
		if err != nil {
			closeAll(closers)
			return nil, nil, err
		}
		closers = append(closers, f)
		files = append(files, service.UploadFile{
			FileName: header.Filename,
			Size:     header.Size,
			File:     f,
		})
	}

	return files, closers, nil
}

// openFormFile открывает первый файл поля формы, если он есть
func openFormFile(r *http.Request, field string) (*service.UploadFile, multipart.File, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File[field]) == 0 {
		return nil, nil, nil
	}

	header := r.MultipartForm.File[field][0]
	f, err := header.Open()
	if err != nil {
		return nil, nil, err
	}

	return &service.UploadFile{
		FileName: header.Filename,
		Size:     header.Size,
		File:     f,
	}, f, nil
}

func closeAll(closers []multipart.File) {
	for _, c := range closers {
		c.Close()
	}
}
