package main

import (
	"fmt"
	"log"
	"mediablog/cmd/app"
	"mediablog/internal/config"
	handlers "mediablog/internal/handler"
	"mediablog/internal/middleware"
	"net/http"

	"github.com/gorilla/mux"
)

func main() {
	// setting up config
	cfg := config.LoadConfig()

	if cfg.JWTSecretKey == "" {
		log.Fatal("JWT_SECRET_KEY не установлен в .env файле")
	}

	db, repo, services := app.App(cfg)
	defer db.CloseDB()

	handler := handlers.NewHandlers(repo, services, cfg)

	router := mux.NewRouter()

	// public routes
	router.HandleFunc("/checkserver", handlers.CheckServerHandler).Methods(http.MethodGet)
	router.HandleFunc("/signup", handler.Signup).Methods(http.MethodPost)
	router.HandleFunc("/login", handler.Login).Methods(http.MethodPost)
	router.HandleFunc("/isloggedin", handler.IsLoggedIn).Methods(http.MethodGet)
	router.HandleFunc("/fetchallposts", handler.FetchAllPosts).Methods(http.MethodGet)
	router.HandleFunc("/search/{query}", handler.Search).Methods(http.MethodGet)
	router.HandleFunc("/post/{id}", handler.GetPost).Methods(http.MethodGet)

	// protected routes
	auth := middleware.AuthMiddleware(cfg)
	router.Handle("/compose", auth(http.HandlerFunc(handler.Compose))).Methods(http.MethodPost)
	router.Handle("/updatepost/{id}", auth(http.HandlerFunc(handler.UpdatePost))).Methods(http.MethodPut)
	router.Handle("/deletepost/{id}", auth(http.HandlerFunc(handler.DeletePost))).Methods(http.MethodDelete)
	router.Handle("/fetchposts", auth(http.HandlerFunc(handler.FetchPosts))).Methods(http.MethodGet)

	handlerChain := middleware.Chain(
		router,
		middleware.LoggingMiddleware,
		middleware.CORSMiddleware,
	)

	// Starting the server
	addr := fmt.Sprintf(":%d", cfg.ServerPort)
	log.Printf("Сервер запущен на %s", addr)
	log.Printf("База данных: %s", cfg.DB.DbNAME)

	if err := http.ListenAndServe(addr, handlerChain); err != nil {
		log.Fatalf("Ошибка запуска сервера: %v", err)
	}
}
