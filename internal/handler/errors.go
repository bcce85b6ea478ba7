package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse - стандартный ответ с ошибкой
type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

// FieldError - ошибка валидации одного поля запроса
type FieldError struct {
	Msg   string `json:"msg"`
	Param string `json:"param,omitempty"`
}

// ValidationResponse - агрегированные ошибки валидации
type ValidationResponse struct {
	Errors []FieldError `json:"errors"`
}

// WriteError - универсальная функция для отправки ошибок
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: message})
}

// WriteSuccess - функция для успешных ответов
func WriteSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// writeValidationErrors - 400 со списком ошибок по полям
func writeValidationErrors(w http.ResponseWriter, errs []FieldError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	json.NewEncoder(w).Encode(ValidationResponse{Errors: errs})
}

// validationFieldErrors переводит ошибки validator в список {msg, param}.
// Текст сообщения берется из messages по имени поля, иначе само имя поля.
func validationFieldErrors(err error, messages map[string]string) []FieldError {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return []FieldError{{Msg: "invalid request"}}
	}

	fieldErrors := make([]FieldError, 0, len(validationErrs))
	for _, fieldErr := range validationErrs {
		param := strings.ToLower(fieldErr.Field())
		msg, ok := messages[param]
		if !ok {
			msg = param
		}
		fieldErrors = append(fieldErrors, FieldError{Msg: msg, Param: param})
	}

	return fieldErrors
}
