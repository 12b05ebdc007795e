package handlers

import (
	"errors"
	"net/http"

	"github.com/yashdodwani/student-grading-system/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// respondError сопоставляет категорию ошибки сервиса с HTTP-статусом
func respondError(c *gin.Context, err error) {
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		log := loggerFrom(c)
		log.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrUnauthenticated):
		status = http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrBadRequest):
		status = http.StatusBadRequest
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	}
	c.JSON(status, gin.H{"error": svcErr.Message})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": validationMessage(err)})
}

// pathID разбирает UUID из параметра пути; невалидный id означает отсутствующий ресурс
func pathID(c *gin.Context, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": what + " not found"})
		return uuid.Nil, false
	}
	return id, true
}

const ctxLogger = "logger"

func loggerFrom(c *gin.Context) *zap.Logger {
	if val, ok := c.Get(ctxLogger); ok {
		if log, ok := val.(*zap.Logger); ok {
			return log
		}
	}
	return zap.NewNop()
}

// withLogger кладёт логгер в контекст запроса
func withLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(ctxLogger, log)
		c.Next()
	}
}
