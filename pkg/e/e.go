package e

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// Ошибки сессии и авторизации
	ErrLoginFailed  = fmt.Errorf("login failed")
	ErrUnauthorized = fmt.Errorf("unauthorized")
	ErrTokenMissing = fmt.Errorf("session token is missing")

	// Ошибки потока подтверждения
	ErrFlowBusy        = fmt.Errorf("confirmation flow is busy")
	ErrNothingPending  = fmt.Errorf("no pending confirmation")
	ErrUnknownDialog   = fmt.Errorf("unknown confirmation dialog")
	ErrCancelledByUser = fmt.Errorf("user cancelled")

	// Внутренние ошибки
	ErrIncorrectEnvVariable = fmt.Errorf("incorrect env variable")
	ErrInternalServerError  = fmt.Errorf("internal server error")
	ErrTransactionNotFound  = fmt.Errorf("transaction not found")
	ErrUnsupportedUploader  = fmt.Errorf("unsupported upload provider")

	// 400 Bad Request
	ErrStatusBadRequest     = fmt.Errorf("bad request")
	ErrProductNameRequired  = fmt.Errorf("product name is required")
	ErrPriceMustBePositive  = fmt.Errorf("price must be positive")
	ErrInvalidPrice         = fmt.Errorf("invalid price")
	ErrPricePrecision       = fmt.Errorf("price must have at most 2 decimal places")
	ErrUnsupportedMediaType = fmt.Errorf("unsupported media type")
	ErrFileTooLarge         = fmt.Errorf("file too large")
	ErrInvalidEmail         = fmt.Errorf("invalid email")
	ErrMissingIdentifier    = fmt.Errorf("product id or slug is required")

	// 404 Not Found
	ErrNotFound = fmt.Errorf("not found")
)

// Wrap оборачивает ошибку
func Wrap(msg string, err error) error {
	return fmt.Errorf("%s: %w", msg, err)
}

// NetworkError — запрос не был завершён (соединение, таймаут, DNS).
type NetworkError struct {
	Op  string
	Err error
}

func (n *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s: %v", n.Op, n.Err)
}

func (n *NetworkError) Unwrap() error { return n.Err }

// HTTPError — удалённая сторона ответила не-2xx статусом.
type HTTPError struct {
	Op     string
	Status int
	Body   string
}

func (h *HTTPError) Error() string {
	if h.Body == "" {
		return fmt.Sprintf("%s: unexpected status %d", h.Op, h.Status)
	}
	return fmt.Sprintf("%s: unexpected status %d: %s", h.Op, h.Status, h.Body)
}

// Is позволяет сопоставлять 404 с ErrNotFound и 401 с ErrUnauthorized через errors.Is.
func (h *HTTPError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return h.Status == http.StatusNotFound
	case ErrUnauthorized:
		return h.Status == http.StatusUnauthorized || h.Status == http.StatusForbidden
	}
	return false
}

// ValidationError — клиентская проверка не пройдена, запрос не отправлялся.
type ValidationError struct {
	Field  string
	Reason string
	Err    error
}

func (v *ValidationError) Error() string {
	if v.Field == "" {
		return fmt.Sprintf("validation failed: %s", v.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", v.Field, v.Reason)
}

func (v *ValidationError) Unwrap() error { return v.Err }

// UploadError — хостинг изображений отклонил загрузку или был недоступен.
type UploadError struct {
	Provider string
	Err      error
}

func (u *UploadError) Error() string {
	return fmt.Sprintf("upload to %s failed: %v", u.Provider, u.Err)
}

func (u *UploadError) Unwrap() error { return u.Err }

// CancellationError — пользователь закрыл диалог подтверждения.
type CancellationError struct {
	Reason string
}

func (c *CancellationError) Error() string {
	if c.Reason == "" {
		return ErrCancelledByUser.Error()
	}
	return fmt.Sprintf("%s: %s", ErrCancelledByUser.Error(), c.Reason)
}

func (c *CancellationError) Unwrap() error { return ErrCancelledByUser }

func NewValidationError(field, reason string, err error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason, Err: err}
}

func NewHTTPError(op string, status int, body string) *HTTPError {
	return &HTTPError{Op: op, Status: status, Body: body}
}

func NewNetworkError(op string, err error) *NetworkError {
	return &NetworkError{Op: op, Err: err}
}

func NewUploadError(provider string, err error) *UploadError {
	return &UploadError{Provider: provider, Err: err}
}

func NewCancellationError(reason string) *CancellationError {
	return &CancellationError{Reason: reason}
}

func IsCancellation(err error) bool {
	var c *CancellationError
	return errors.As(err, &c)
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsNetwork(err error) bool {
	var n *NetworkError
	return errors.As(err, &n)
}

func IsUpload(err error) bool {
	var u *UploadError
	return errors.As(err, &u)
}

// HTTPStatus возвращает статус удалённого ответа, если ошибка несёт его.
func HTTPStatus(err error) (int, bool) {
	var h *HTTPError
	if errors.As(err, &h) {
		return h.Status, true
	}
	return 0, false
}
