package app

import (
	"log"

	"mediablog/internal/config"
	"mediablog/internal/database"
	"mediablog/internal/repository"
	"mediablog/internal/service"
	"mediablog/internal/storage"
)

const migrationsFile = "migrations/001_create_tables.sql"

// App собирает приложение: БД со схемой, медиа-хранилище,
// репозитории и сервисы поверх них
func App(cfg *config.Config) (*database.DB, *repository.Repository, *service.Service) {
	db, err := database.ConnectDB(cfg)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}

	// схема накатывается на старте, провал не фатален
	if err := db.RunMigrations(migrationsFile); err != nil {
		log.Printf("Внимание: ошибка при применении миграций: %v", err)
	}

	minioClient, err := storage.NewMinIOClient(cfg)
	if err != nil {
		log.Fatalf("Не удалось инициализировать MinIO: %v", err)
	}

	repo := repository.NewRepository(db.DB)
	services := service.NewService(repo, cfg, minioClient)

	return db, repo, services
}
