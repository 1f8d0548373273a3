package utils

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	apperrors "gearguard/pkg/errors"
	"gearguard/pkg/types"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type HTTPResponse struct {
	Status  bool        `json:"status"`
	Body    interface{} `json:"body,omitempty"`
	Message string      `json:"message"`
}

// Карта сентинельных ошибок в HTTP-коды. Ошибки, которых здесь нет,
// уходят клиенту как 500 с общим сообщением.
var errorStatusCodes = map[error]int{
	apperrors.ErrNotFound:             http.StatusNotFound,
	apperrors.ErrForbidden:            http.StatusForbidden,
	apperrors.ErrConflict:             http.StatusConflict,
	apperrors.ErrBadRequest:           http.StatusBadRequest,
	apperrors.ErrInvalidTransition:    http.StatusBadRequest,
	apperrors.ErrUnauthenticated:      http.StatusUnauthorized,
	apperrors.ErrInvalidCredentials:   http.StatusUnauthorized,
	apperrors.ErrEmptyAuthHeader:      http.StatusUnauthorized,
	apperrors.ErrInvalidAuthHeader:    http.StatusUnauthorized,
	apperrors.ErrInvalidToken:         http.StatusUnauthorized,
	apperrors.ErrTokenExpired:         http.StatusUnauthorized,
	apperrors.ErrTokenIsNotRefresh:    http.StatusUnauthorized,
	apperrors.ErrTokenIsNotAccess:     http.StatusUnauthorized,
	apperrors.ErrInvalidSigningMethod: http.StatusUnauthorized,
}

func SuccessResponse(ctx echo.Context, body interface{}, message string, code int) error {
	return ctx.JSON(code, &HTTPResponse{
		Status:  true,
		Body:    body,
		Message: message,
	})
}

// SuccessListResponse заворачивает список вместе с метаданными пагинации.
func SuccessListResponse(ctx echo.Context, list interface{}, message string, pagination types.Pagination) error {
	return ctx.JSON(http.StatusOK, &HTTPResponse{
		Status:  true,
		Message: message,
		Body: map[string]interface{}{
			"list":       list,
			"pagination": pagination,
		},
	})
}

func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
		response := map[string]interface{}{
			"status":  false,
			"message": httpErr.Message,
		}
		if httpErr.Details != nil {
			response["body"] = httpErr.Details
		}
		return c.JSON(httpErr.Code, response)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, fmt.Sprintf("Поле '%s' не прошло проверку '%s'", e.Field(), e.Tag()))
		}
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": "Ошибка валидации: " + strings.Join(msgs, "; "),
		})
	}

	var invalidInput *apperrors.InvalidInputError
	if errors.As(err, &invalidInput) {
		return c.JSON(http.StatusBadRequest, map[string]interface{}{
			"status":  false,
			"message": invalidInput.Message,
		})
	}

	for sentinel, code := range errorStatusCodes {
		if errors.Is(err, sentinel) {
			return c.JSON(code, map[string]interface{}{
				"status":  false,
				"message": sentinel.Error(),
			})
		}
	}

	// Неожиданные ошибки хранилища не должны утекать клиенту.
	logger.Error("Unexpected Error", zap.Error(err))
	return c.JSON(http.StatusInternalServerError, map[string]interface{}{
		"status":  false,
		"message": "Внутренняя ошибка сервера",
	})
}
