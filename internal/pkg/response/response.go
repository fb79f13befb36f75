package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/xyz-asif/bloghunt/internal/pkg/logger"
	"github.com/xyz-asif/bloghunt/internal/pkg/pagination"
	appvalidator "github.com/xyz-asif/bloghunt/internal/pkg/validator"
	apperrors "github.com/xyz-asif/bloghunt/pkg/errors"
)

// APIResponse is the envelope every endpoint returns
type APIResponse struct {
	Success    bool                   `json:"success" example:"true"`
	StatusCode int                    `json:"statusCode" example:"200"`
	Message    string                 `json:"message" example:"OK"`
	Code       string                 `json:"code,omitempty" example:"NOT_FOUND"`
	Data       interface{}            `json:"data,omitempty"`
	Pagination *pagination.Pagination `json:"pagination,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// PaginatedData is the data payload of list responses
type PaginatedData struct {
	Items interface{} `json:"items"`
	Total int64       `json:"total" example:"25"`
	Limit int         `json:"limit" example:"10"`
	Page  int         `json:"page" example:"1"`
}

// exposeErrors controls whether internal causes are included in 500 bodies.
var exposeErrors = true

// SetProduction hides internal error details from clients.
func SetProduction(prod bool) { exposeErrors = !prod }

func message(msg []string, def string) string {
	if len(msg) > 0 && msg[0] != "" {
		return msg[0]
	}
	return def
}

// Success sends a 200 OK response with data
func Success(c *gin.Context, data interface{}, msg ...string) {
	c.JSON(http.StatusOK, APIResponse{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    message(msg, "OK"),
		Data:       data,
	})
}

// Created sends a 201 Created response
func Created(c *gin.Context, data interface{}, msg ...string) {
	c.JSON(http.StatusCreated, APIResponse{
		Success:    true,
		StatusCode: http.StatusCreated,
		Message:    message(msg, "Created"),
		Data:       data,
	})
}

// Paginated sends a paginated response
func Paginated(c *gin.Context, items interface{}, total int64, limit int, page ...int) {
	pageNum := 1
	if len(page) > 0 {
		pageNum = page[0]
	}
	p := pagination.New(pageNum, limit, total)

	c.JSON(http.StatusOK, APIResponse{
		Success:    true,
		StatusCode: http.StatusOK,
		Message:    "OK",
		Data: PaginatedData{
			Items: items,
			Total: total,
			Limit: p.Limit,
			Page:  p.Page,
		},
		Pagination: p,
	})
}

// Error sends an error response with custom status code and message
func Error(c *gin.Context, statusCode int, message string, errorCode ...string) {
	code := ""
	if len(errorCode) > 0 {
		code = errorCode[0]
	}

	c.JSON(statusCode, APIResponse{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	})
}

// ErrorWithData sends an error response carrying extra detail in data
func ErrorWithData(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, APIResponse{
		Success:    false,
		StatusCode: statusCode,
		Message:    message,
		Data:       data,
	})
}

// FromError maps a service error onto the envelope. Unknown errors become 500s.
func FromError(c *gin.Context, err error) {
	kind := apperrors.KindOf(err)
	status := apperrors.Status(kind)

	body := APIResponse{
		Success:    false,
		StatusCode: status,
		Message:    apperrors.Message(err),
		Code:       apperrors.Code(kind),
	}

	if kind == apperrors.KindInternal {
		logger.With(
			"requestId", c.GetString("requestId"),
			"path", c.FullPath(),
			"error", err.Error(),
		).Error("request failed")
		if exposeErrors {
			body.Error = err.Error()
		}
	}

	c.JSON(status, body)
}

// BadRequest sends a 400 Bad Request error
func BadRequest(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusBadRequest, message, errorCode...)
}

// Unauthorized sends a 401 Unauthorized error
func Unauthorized(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusUnauthorized, message, errorCode...)
}

// Forbidden sends a 403 Forbidden error
func Forbidden(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusForbidden, message, errorCode...)
}

// NotFound sends a 404 Not Found error
func NotFound(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusNotFound, message, errorCode...)
}

// InternalServerError sends a 500 Internal Server Error
func InternalServerError(c *gin.Context, message string, errorCode ...string) {
	Error(c, http.StatusInternalServerError, message, errorCode...)
}

// BindJSONError handles decode and binding-tag errors in request bodies
func BindJSONError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		ValidationFailed(c, appvalidator.Message(err))
		return
	}
	BadRequest(c, "Invalid request format", "INVALID_JSON")
}

// ValidationFailed handles validation errors
func ValidationFailed(c *gin.Context, message string) {
	BadRequest(c, message, "VALIDATION_FAILED")
}

// InvalidID handles malformed ObjectID path parameters
func InvalidID(c *gin.Context, what string) {
	BadRequest(c, "Invalid "+what+" ID format", "INVALID_ID")
}
