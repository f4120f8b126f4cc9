package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mscofield999-cyber/meetingminutes/config"
	"github.com/mscofield999-cyber/meetingminutes/middleware"
	"github.com/mscofield999-cyber/meetingminutes/model"
	"github.com/mscofield999-cyber/meetingminutes/pkg/logger"
)

type AuthHandler struct {
	config *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{config: cfg}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login matches the credentials against the two configured pairs and
// issues the session cookie. Usernames compare case-insensitively.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid_request"})
		return
	}

	identity := h.matchCredentials(req.Username, req.Password)
	if identity == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid_credentials"})
		return
	}

	if err := middleware.SetSessionCookie(c, *identity, &h.config.Session); err != nil {
		logger.Error(c.Request.Context(), "failed to issue session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "session secret is not configured"})
		return
	}

	logger.Info(c.Request.Context(), "user logged in", "username", identity.Username, "role", identity.Role)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *AuthHandler) matchCredentials(username, password string) *model.Identity {
	users := h.config.Users
	if strings.EqualFold(username, users.Chairman.Username) && password == users.Chairman.Password {
		return &model.Identity{
			Username: strings.ToLower(username),
			Role:     model.RoleChairman,
			FullName: users.Chairman.FullName,
		}
	}
	if strings.EqualFold(username, users.Secretary.Username) && password == users.Secretary.Password {
		return &model.Identity{
			Username: strings.ToLower(username),
			Role:     model.RoleSecretary,
			FullName: users.Secretary.FullName,
		}
	}
	return nil
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c, &h.config.Session)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CheckAuth reports whether the request carries a valid session.
func (h *AuthHandler) CheckAuth(c *gin.Context) {
	identity := middleware.IdentityFromRequest(c, &h.config.Session)
	if identity == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"authenticated": true,
		"username":      identity.Username,
		"role":          identity.Role,
		"fullName":      identity.FullName,
	})
}

// EnvCheck reports which deployment settings are present, without
// revealing their values.
func (h *AuthHandler) EnvCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"hasStore":   h.config.Store.Driver == "memory" || h.config.Store.URI != "",
		"hasSecret":  h.config.Session.Secret != "",
		"hasBackend": h.config.Proxy.BackendURL != "",
		"secure":     h.config.Session.CookieSecure,
	})
}
