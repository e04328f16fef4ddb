package admin

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dskvich/image-telegram-bot/pkg/logger"
)

func (h *handler) requireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(sessionCookie)
		if err != nil || token == "" {
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		if err := h.auth.verifyToken(token); err != nil {
			slog.WarnContext(c.Request.Context(), "Rejected admin session", logger.Err(err))
			c.SetCookie(sessionCookie, "", -1, "/", "", h.secure, true)
			c.Redirect(http.StatusSeeOther, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("Admin request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
