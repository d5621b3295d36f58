package handlers

import (
	"log"
	"net/http"

	"stockdesk/internal/database"
	"stockdesk/internal/guard"
	"stockdesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

func (h *Handler) IndexPage(c *gin.Context) {
	sess := middleware.CurrentSession(c)
	data := gin.H{"isAuthed": sess != nil}
	if sess != nil {
		data["home"] = guard.HomeFor(sess.Role)
	}
	render(c, http.StatusOK, "index.html", data)
}

func (h *Handler) DashboardPage(c *gin.Context) {
	summary, err := database.LoadSummary(c.Request.Context(), h.DB, h.now())
	if err != nil {
		log.Printf("failed to load dashboard summary: %v", err)
		render(c, http.StatusInternalServerError, "dashboard.html", gin.H{"error": "Dashboard data is unavailable"})
		return
	}
	render(c, http.StatusOK, "dashboard.html", gin.H{"summary": summary})
}
