package service

import (
	"mediablog/internal/config"
	"mediablog/internal/repository"
	"mediablog/internal/storage"
)

type Service struct {
	Auth AuthService
	Post PostService
}

func NewService(rep *repository.Repository, cfg *config.Config, storage storage.Storage) *Service {
	return &Service{
		Auth: NewAuthService(rep.User, cfg),
		Post: NewPostService(rep.Post, rep.User, storage, cfg),
	}
}
