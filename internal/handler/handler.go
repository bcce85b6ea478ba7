package handlers

import (
	"github.com/go-playground/validator/v10"
	"mediablog/internal/config"
	"mediablog/internal/repository"
	"mediablog/internal/service"
	"net/http"
)

type Handlers struct {
	AuthService service.AuthService
	PostService service.PostService
	PostRepo    repository.PostRepository
	UserRepo    repository.UserRepository
	Cfg         *config.Config
	Validate    *validator.Validate
}

func NewHandlers(repo *repository.Repository, service *service.Service, config *config.Config) *Handlers {
	return &Handlers{
		AuthService: service.Auth,
		PostService: service.Post,
		PostRepo:    repo.Post,
		UserRepo:    repo.User,
		Cfg:         config,
		Validate:    validator.New(),
	}
}

func CheckServerHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("server is running"))
}
