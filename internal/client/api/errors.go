package api

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError представляет нормализованную ошибку backend'а.
// Detail извлекается из стандартного поля "detail" тела ошибки;
// если его нет, подставляется общее сообщение.
type APIError struct {
	Detail string
	Status int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.Status, e.Detail)
}

// IsUnauthorized сообщает, что токен отклонён сервером (401).
// Вызывающий должен сбросить сессию и вернуть пользователя на вход.
func IsUnauthorized(err error) bool {
	return statusIs(err, http.StatusUnauthorized)
}

// IsPaymentRequired сообщает о нехватке баланса (402).
// Вызывающий должен перевести пользователя на страницу баланса.
func IsPaymentRequired(err error) bool {
	return statusIs(err, http.StatusPaymentRequired)
}

// IsForbidden сообщает об отсутствии прав (403).
// Не-администратор уводится с админских страниц.
func IsForbidden(err error) bool {
	return statusIs(err, http.StatusForbidden)
}

// IsNotFound сообщает, что сущность не найдена (404)
func IsNotFound(err error) bool {
	return statusIs(err, http.StatusNotFound)
}

func statusIs(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// UserMessage возвращает человекочитаемое сообщение для уведомления.
// Для не-APIError (сеть, таймаут) возвращает общую формулировку.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return "Request failed, please try again"
}
