package handlers

import (
	"errors"
	"net/http"

	"stockdesk/internal/auth"
	"stockdesk/internal/guard"
	"stockdesk/internal/middleware"

	"github.com/gin-gonic/gin"
)

const (
	lastIdentifierCookie = "last_identifier"
	rememberMaxAge       = 30 * 24 * 60 * 60
)

func (h *Handler) ShowLogin(c *gin.Context) {
	if sess := middleware.CurrentSession(c); sess != nil {
		c.Redirect(http.StatusFound, guard.AfterLogin(c.Query("next"), sess.Role))
		return
	}
	identifier, _ := c.Cookie(lastIdentifierCookie)
	render(c, http.StatusOK, "login.html", gin.H{
		"error":      "",
		"identifier": identifier,
		"remember":   identifier != "",
		"next":       c.Query("next"),
	})
}

type loginForm struct {
	Identifier string `form:"identifier" json:"identifier"`
	Password   string `form:"password" json:"password"`
	RememberMe bool   `form:"remember_me" json:"remember_me"`
	Next       string `form:"next" json:"next"`
}

func (h *Handler) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": "Invalid form data"})
		return
	}

	sess, err := h.Sessions.Login(c.Request.Context(), middleware.Holder(c), form.Identifier, form.Password)
	if err != nil {
		h.recordFailure("login", err)
		status, msg := http.StatusInternalServerError, "Sign-in is unavailable, try again"
		if errors.Is(err, auth.ErrInvalidCredentials) {
			status, msg = http.StatusUnauthorized, "Invalid username or password"
		}
		render(c, status, "login.html", gin.H{
			"error":      msg,
			"identifier": form.Identifier,
			"remember":   form.RememberMe,
			"next":       form.Next,
		})
		return
	}

	h.rememberIdentifier(c, form.RememberMe, sess.Username)
	c.Redirect(http.StatusFound, guard.AfterLogin(form.Next, sess.Role))
}

func (h *Handler) rememberIdentifier(c *gin.Context, remember bool, identifier string) {
	if remember {
		c.SetCookie(lastIdentifierCookie, identifier, rememberMaxAge, "/", "", h.CookieSecure, true)
		return
	}
	c.SetCookie(lastIdentifierCookie, "", -1, "/", "", h.CookieSecure, true)
}

func (h *Handler) ShowRegister(c *gin.Context) {
	render(c, http.StatusOK, "register.html", gin.H{"error": "", "roles": h.registrationRoles()})
}

func (h *Handler) registrationRoles() []string {
	var out []string
	for _, r := range h.Sessions.RegistrationRoles() {
		out = append(out, string(r))
	}
	return out
}

func (h *Handler) Register(c *gin.Context) {
	var form auth.Registration
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "register.html", gin.H{"error": "Invalid form data", "roles": h.registrationRoles()})
		return
	}

	sess, err := h.Sessions.Register(c.Request.Context(), middleware.Holder(c), form)
	if err != nil {
		h.recordFailure("register", err)
		data := gin.H{"form": form, "roles": h.registrationRoles()}
		var verr *auth.ValidationError
		switch {
		case errors.As(err, &verr):
			data["error"] = "Please correct the highlighted fields"
			data["fields"] = verr.Fields
			render(c, http.StatusBadRequest, "register.html", data)
		case errors.Is(err, auth.ErrIdentifierTaken):
			data["error"] = "That username is already registered"
			render(c, http.StatusConflict, "register.html", data)
		default:
			data["error"] = "Registration is unavailable, try again"
			render(c, http.StatusInternalServerError, "register.html", data)
		}
		return
	}

	c.Redirect(http.StatusFound, guard.HomeFor(sess.Role))
}

func (h *Handler) Logout(c *gin.Context) {
	h.Sessions.Logout(c.Request.Context(), middleware.Holder(c))
	c.Redirect(http.StatusFound, guard.LoginPath)
}

// API

type sessionView struct {
	Authenticated bool          `json:"authenticated"`
	Session       *auth.Session `json:"session,omitempty"`
	Home          string        `json:"home,omitempty"`
}

func viewOf(sess *auth.Session) sessionView {
	if sess == nil {
		return sessionView{}
	}
	return sessionView{Authenticated: true, Session: sess, Home: guard.HomeFor(sess.Role)}
}

func (h *Handler) APILogin(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badJSON(c)
		return
	}
	sess, err := h.Sessions.Login(c.Request.Context(), middleware.Holder(c), form.Identifier, form.Password)
	if err != nil {
		h.recordFailure("login", err)
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(sess))
}

func (h *Handler) APIRegister(c *gin.Context) {
	var form auth.Registration
	if err := c.ShouldBindJSON(&form); err != nil {
		badJSON(c)
		return
	}
	sess, err := h.Sessions.Register(c.Request.Context(), middleware.Holder(c), form)
	if err != nil {
		h.recordFailure("register", err)
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewOf(sess))
}

// APIToken signs in and returns a bearer token bound to a fresh session.
// The caller's cookie is not touched.
func (h *Handler) APIToken(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		badJSON(c)
		return
	}
	holder := auth.NewTokenHolder("")
	sess, err := h.Sessions.Login(c.Request.Context(), holder, form.Identifier, form.Password)
	if err != nil {
		h.recordFailure("token", err)
		fail(c, err)
		return
	}
	token, err := h.Tokens.Issue(sess)
	if err != nil {
		h.Sessions.Logout(c.Request.Context(), holder)
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"token_type": "Bearer",
		"expires_at": sess.ExpiresAt,
		"session":    sess,
	})
}

func (h *Handler) APILogout(c *gin.Context) {
	h.Sessions.Logout(c.Request.Context(), middleware.Holder(c))
	c.JSON(http.StatusOK, viewOf(nil))
}

// APISession reports the caller's session. A pending check is 503 so
// clients can tell "signed out" from "not known yet".
func (h *Handler) APISession(c *gin.Context) {
	if !middleware.Resolved(c) {
		c.Header("Retry-After", "1")
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "session check pending, retry shortly"})
		return
	}
	c.JSON(http.StatusOK, viewOf(middleware.CurrentSession(c)))
}
