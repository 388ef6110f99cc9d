package endpoint

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Banner returns a handler answering with a fixed plain-text line.
func Banner(text string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.String(http.StatusOK, text)
	}
}
