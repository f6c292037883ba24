package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// handleGetMedia streams an uploaded attachment back out of the media store.
func (h *Handlers) handleGetMedia(c *gin.Context) {
	rc, size, err := h.media.Read(c.Param("key"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "media not found"})
		return
	}
	defer rc.Close()
	c.DataFromReader(http.StatusOK, size, "application/octet-stream", rc, nil)
}
