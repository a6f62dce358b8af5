package middleware

import (
	"direct-chat/internal/services"
	"direct-chat/internal/transport/httpdto"
	"direct-chat/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error a handler attached with c.Error. A
// status already set by the handler wins over the one derived from the error.
// Server side failures are logged and hidden from the client.
func ErrorHandler(l *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		status := c.Writer.Status()
		if status < 400 {
			status = services.HTTPStatus(err)
		}

		log := l
		if log == nil {
			log = logger.GetGlobalLogger()
		}
		if log != nil && status >= 500 {
			log.With(c.Request.Context()).Errorf("%s %s failed in %s: %v", c.Request.Method, c.FullPath(), c.HandlerName(), err)
		}

		if c.Writer.Written() {
			return
		}
		c.JSON(status, httpdto.NewStatusErrorResponse(status))
	}
}
