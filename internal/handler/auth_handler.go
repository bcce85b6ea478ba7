package handlers

import (
	"encoding/json"
	"log"
	"mediablog/internal/service"
	"net/http"
	"strings"
)

var loginMessages = map[string]string{
	"email":    "Enter a valid email",
	"password": "Password cannot be blank",
}

type SignupRequest struct {
	Name     string `json:"name" validate:"required,min=3"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=5"`
}

type AuthResponse struct {
	Success   bool   `json:"success"`
	AuthToken string `json:"authtoken"`
}

func (h *Handlers) Signup(w http.ResponseWriter, r *http.Request) {
	// check method
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	// в ответе сообщение по полю - само имя поля
	if err := h.Validate.Struct(req); err != nil {
		writeValidationErrors(w, validationFieldErrors(err, nil))
		return
	}

	token, err := h.AuthService.Signup(r.Context(), service.SignupRequest{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if strings.Contains(err.Error(), "уже существует") {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"errors":  []FieldError{{Msg: "exist"}},
			})
		} else {
			log.Printf("Ошибка регистрации: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("Новый пользователь %s зарегистрирован", req.Email)

	WriteSuccess(w, AuthResponse{Success: true, AuthToken: token}, http.StatusOK)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	// check method
	if r.Method != http.MethodPost {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		writeValidationErrors(w, validationFieldErrors(err, loginMessages))
		return
	}

	token, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		// один и тот же ответ для неизвестного email и неверного пароля
		if strings.Contains(err.Error(), "не найден") || strings.Contains(err.Error(), "неверный пароль") {
			log.Printf("Неудачный вход %s", req.Email)
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]interface{}{
				"success": false,
				"error":   "Please try to login with correct credentials",
			})
		} else {
			log.Printf("Ошибка входа: %v", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	log.Printf("Пользователь %s вошел в систему", req.Email)

	WriteSuccess(w, AuthResponse{Success: true, AuthToken: token}, http.StatusOK)
}

// IsLoggedIn проверяет токен из заголовка, без побочных эффектов
func (h *Handlers) IsLoggedIn(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		WriteError(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	token := r.Header.Get("auth-token")
	if token == "" {
		WriteError(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	if _, err := h.AuthService.ParseToken(token); err != nil {
		log.Printf("Проверка JWT не пройдена: %v", err)
		WriteError(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	WriteSuccess(w, MessageResponse{Message: "Valid user"}, http.StatusOK)
}
