package handlers

import (
	"stockdesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

// render wraps c.HTML and passes the current session to every template.
func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	if sess := middleware.CurrentSession(c); sess != nil {
		data["CurrentSession"] = sess
		data["CurrentUsername"] = sess.Username
		data["CurrentUserRole"] = sess.Role
	}

	c.HTML(status, tmpl, data)
}
