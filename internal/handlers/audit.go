package handlers

import (
	"net/http"
	"strconv"

	"stockdesk/internal/database"

	"github.com/gin-gonic/gin"
)

const auditLimit = 200

func (h *Handler) ListAuditLogs(c *gin.Context) {
	limit := auditLimit
	if n, err := strconv.Atoi(c.Query("limit")); err == nil && n > 0 && n < auditLimit {
		limit = n
	}

	logs, err := database.ListAuditLogs(c.Request.Context(), h.DB, limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.Users.List(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}
