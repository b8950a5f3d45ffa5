package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/DRSN-tech/product-dashboard/internal/usecase"
	"github.com/DRSN-tech/product-dashboard/pkg/e"
	"github.com/jimlawless/whereami"
	"github.com/shopspring/decimal"
)

const (
	maxMemory    = 32 << 20
	maxImageSize = 15 << 20
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// ToHTTPResponse сопоставляет ошибку статусу ответа.
// Ответы удалённого API: 404 и 401 пробрасываются, остальные становятся 502.
func ToHTTPResponse(err error) (int, string) {
	var validation *e.ValidationError

	switch {
	case errors.As(err, &validation):
		return http.StatusBadRequest, validation.Error()
	case e.IsCancellation(err):
		return http.StatusConflict, e.ErrCancelledByUser.Error()
	case errors.Is(err, e.ErrFlowBusy):
		return http.StatusConflict, e.ErrFlowBusy.Error()
	case errors.Is(err, e.ErrNothingPending):
		return http.StatusConflict, e.ErrNothingPending.Error()
	case errors.Is(err, e.ErrUnknownDialog):
		return http.StatusNotFound, e.ErrUnknownDialog.Error()
	case errors.Is(err, e.ErrStatusBadRequest),
		errors.Is(err, e.ErrInvalidPrice),
		errors.Is(err, e.ErrPricePrecision),
		errors.Is(err, e.ErrFileTooLarge),
		errors.Is(err, e.ErrUnsupportedMediaType):
		return http.StatusBadRequest, rootMessage(err)
	}

	if status, ok := e.HTTPStatus(err); ok {
		switch status {
		case http.StatusNotFound:
			return http.StatusNotFound, e.ErrNotFound.Error()
		case http.StatusUnauthorized, http.StatusForbidden:
			return http.StatusUnauthorized, e.ErrUnauthorized.Error()
		default:
			return http.StatusBadGateway, "remote API error"
		}
	}

	switch {
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, e.ErrNotFound.Error()
	case errors.Is(err, e.ErrUnauthorized), errors.Is(err, e.ErrTokenMissing):
		return http.StatusUnauthorized, e.ErrUnauthorized.Error()
	case errors.Is(err, e.ErrLoginFailed):
		return http.StatusUnauthorized, e.ErrLoginFailed.Error()
	case e.IsNetwork(err):
		return http.StatusBadGateway, "remote API unavailable"
	case e.IsUpload(err):
		return http.StatusBadGateway, "image upload failed"
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return e.Wrap(whereami.WhereAmI(), e.NewValidationError("body", "is empty", e.ErrStatusBadRequest))
		}
		return e.Wrap(whereami.WhereAmI(), e.NewValidationError("body", "malformed JSON", e.ErrStatusBadRequest))
	}
	return nil
}

func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

// parsePrice читает цену из формы: положительное число, не больше двух знаков после запятой.
func parsePrice(s string) (float64, error) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, e.NewValidationError("price", "is required", e.ErrPriceMustBePositive)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, e.NewValidationError("price", "is not a number", e.ErrInvalidPrice)
	}
	if !d.IsPositive() {
		return 0, e.NewValidationError("price", "must be greater than 0", e.ErrPriceMustBePositive)
	}
	if d.Exponent() < -2 && !d.Equal(d.Round(2)) {
		return 0, e.NewValidationError("price", "at most 2 decimal places", e.ErrPricePrecision)
	}

	maxPrice := decimal.NewFromInt(1_000_000_000)
	if d.GreaterThan(maxPrice) {
		return 0, e.NewValidationError("price", "is too large", e.ErrInvalidPrice)
	}

	f, _ := d.Float64()
	return f, nil
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}

// parseProductForm разбирает multipart-форму товара. Поле images: текущие изображения, image, новый файл.
func parseProductForm(r *http.Request) (usecase.ProductForm, error) {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return usecase.ProductForm{}, e.Wrap(whereami.WhereAmI(), e.NewValidationError("body", "malformed multipart form", e.ErrStatusBadRequest))
	}

	price, err := parsePrice(r.FormValue("price"))
	if err != nil {
		return usecase.ProductForm{}, err
	}

	form := usecase.ProductForm{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
		Price:       price,
		CategoryID:  r.FormValue("categoryId"),
		Previous:    r.MultipartForm.Value["images"],
	}

	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		image, err := readImage(files[0], maxImageSize)
		if err != nil {
			return usecase.ProductForm{}, err
		}
		form.Image = image
	}

	return form, nil
}

func readImage(fh *multipart.FileHeader, maxSize int64) (*usecase.ProductImage, error) {
	if fh.Size > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	defer src.Close()

	data, err := io.ReadAll(io.LimitReader(src, maxSize+1))
	if err != nil {
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if int64(len(data)) > maxSize {
		return nil, e.Wrap(fh.Filename, e.ErrFileTooLarge)
	}

	mimeType := http.DetectContentType(data[:min(len(data), 512)])
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, e.Wrap(fh.Filename, e.ErrUnsupportedMediaType)
	}

	return usecase.NewProductImage(data, mimeType, int64(len(data)), fh.Filename), nil
}
