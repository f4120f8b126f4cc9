package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/mscofield999-cyber/meetingminutes/config"
	"github.com/mscofield999-cyber/meetingminutes/model"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "session"

// ErrNoSecret indicates the signing secret is not configured. Signing a
// session without it is a server misconfiguration, not a bad credential.
var ErrNoSecret = errors.New("session signing secret is not configured")

// Claims is the JWT payload of a session token.
type Claims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	FullName string `json:"fullName"`
	jwt.RegisteredClaims
}

// GenerateToken signs a session token for the given identity.
func GenerateToken(identity model.Identity, cfg *config.SessionConfig) (string, error) {
	if cfg.Secret == "" {
		return "", ErrNoSecret
	}

	now := time.Now()
	claims := Claims{
		Username: identity.Username,
		Role:     identity.Role,
		FullName: identity.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(cfg.ExpireDays) * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.Secret))
}

// VerifyToken validates a session token and returns the embedded identity.
// It fails closed: malformed, tampered, or expired tokens all yield nil.
func VerifyToken(tokenString string, cfg *config.SessionConfig) *model.Identity {
	if cfg.Secret == "" || tokenString == "" {
		return nil
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(cfg.Secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil
	}

	return &model.Identity{
		Username: claims.Username,
		Role:     claims.Role,
		FullName: claims.FullName,
	}
}

// IdentityFromRequest resolves the session cookie on an inbound request
// to an identity, or nil when there is no valid session.
func IdentityFromRequest(c *gin.Context, cfg *config.SessionConfig) *model.Identity {
	// gin URL-decodes the cookie value for us
	token, err := c.Cookie(SessionCookieName)
	if err != nil {
		return nil
	}
	return VerifyToken(token, cfg)
}

// SetSessionCookie signs a token for identity and attaches it to the
// response. Secure deployments get a cross-site-sendable cookie
// (Secure; SameSite=None); otherwise SameSite=Lax.
func SetSessionCookie(c *gin.Context, identity model.Identity, cfg *config.SessionConfig) error {
	token, err := GenerateToken(identity, cfg)
	if err != nil {
		return err
	}

	applySameSite(c, cfg)
	maxAge := cfg.ExpireDays * 24 * 60 * 60
	c.SetCookie(SessionCookieName, token, maxAge, "/", "", cfg.CookieSecure, true)
	return nil
}

// ClearSessionCookie overwrites the session cookie with an immediately
// expiring empty value, using the same policy flags as SetSessionCookie
// so browsers drop it consistently.
func ClearSessionCookie(c *gin.Context, cfg *config.SessionConfig) {
	applySameSite(c, cfg)
	c.SetCookie(SessionCookieName, "", -1, "/", "", cfg.CookieSecure, true)
}

func applySameSite(c *gin.Context, cfg *config.SessionConfig) {
	if cfg.CookieSecure {
		c.SetSameSite(http.SameSiteNoneMode)
	} else {
		c.SetSameSite(http.SameSiteLaxMode)
	}
}
