package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Every response uses the same envelope: a human-readable message plus an
// optional data object. Error responses carry no data.
type Envelope struct {
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	RequestID string      `json:"requestId,omitempty"`
}

func requestIDFrom(ctx *gin.Context) string {
	v, ok := ctx.Get("request_id")

	if ok {
		s, ok := v.(string)
		if ok && s != "" {
			return s
		}
	}

	// fallback header
	return ctx.GetHeader("X-Request-Id")
}

func Respond(ctx *gin.Context, status int, message string, data interface{}) {
	ctx.JSON(status, Envelope{
		Message: message,
		Data:    data,
	})
}

func RespondError(ctx *gin.Context, status int, message string) {
	ctx.JSON(status, Envelope{
		Message:   message,
		RequestID: requestIDFrom(ctx),
	})
}

func RespondValidation(ctx *gin.Context, violations interface{}) {
	ctx.JSON(http.StatusUnprocessableEntity, Envelope{
		Message:   "Validation failed",
		Data:      gin.H{"violations": violations},
		RequestID: requestIDFrom(ctx),
	})
}

func RespondBadRequest(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusBadRequest, message)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message)
}

func RespondConflict(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusConflict, message)
}

func RespondUnauthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message)
}

func RespondInternal(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusInternalServerError, message)
}
