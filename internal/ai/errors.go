package ai

import (
	"errors"
	"fmt"
	"net/http"
)

// ServiceError — ошибка вызова внешнего AI-сервиса с HTTP статусом
type ServiceError struct {
	Status  int
	Code    string
	Message string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("ai service error (%d %s): %s", e.Status, e.Code, e.Message)
}

// ErrBadFormat возвращается, когда ответ модели не удалось разобрать
// даже после восстановления JSON.
var ErrBadFormat = errors.New("model response has invalid format")

// NewStatusError maps an upstream HTTP status to a ServiceError.
func NewStatusError(status int, body string) *ServiceError {
	code := "upstream_error"
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		code = "upstream_unauthorized"
	case status == http.StatusTooManyRequests:
		code = "upstream_rate_limited"
	case status >= 500:
		code = "upstream_unavailable"
	}

	msg := body
	if len(msg) > 300 {
		msg = msg[:300]
	}

	return &ServiceError{
		Status:  status,
		Code:    code,
		Message: msg,
	}
}

// IsRetryable reports whether the upstream failure is transient.
func IsRetryable(err error) bool {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Status == http.StatusTooManyRequests || se.Status >= 500
	}
	return false
}
