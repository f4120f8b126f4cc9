package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mscofield999-cyber/meetingminutes/model"
)

func captureLogs() *bytes.Buffer {
	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})))
	return &buf
}

func TestRequestLoggerLevelByStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs()

	router := gin.New()
	router.Use(RequestID())
	router.Use(RequestLogger())
	router.GET("/api/meetings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	router.GET("/api/meetings/bad", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_request"})
	})
	router.GET("/api/meetings/boom", func(c *gin.Context) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal"})
	})

	tests := []struct {
		name       string
		path       string
		wantStatus int
		wantLevel  string
	}{
		{"success", "/api/meetings", http.StatusOK, "INFO"},
		{"client error", "/api/meetings/bad", http.StatusBadRequest, "WARN"},
		{"server error", "/api/meetings/boom", http.StatusInternalServerError, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()

			req := httptest.NewRequest("GET", tt.path, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}

			logOutput := buf.String()
			if !strings.Contains(logOutput, "request completed") {
				t.Errorf("Expected completion log, got %q", logOutput)
			}
			if !strings.Contains(logOutput, tt.path) {
				t.Errorf("Expected path %s in log", tt.path)
			}
			if !strings.Contains(logOutput, "level="+tt.wantLevel) {
				t.Errorf("Expected level %s in log, got %q", tt.wantLevel, logOutput)
			}
		})
	}
}

func TestRequestLoggerIncludesQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs()

	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/api/meetings", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	req := httptest.NewRequest("GET", "/api/meetings?department=Finance", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)

	if !strings.Contains(buf.String(), "query=") {
		t.Error("Expected query attribute in log")
	}
}

func TestRequestLoggerAttributesSession(t *testing.T) {
	gin.SetMode(gin.TestMode)
	buf := captureLogs()
	cfg := sessionConfig()

	token, err := GenerateToken(model.Identity{
		Username: "admin",
		Role:     model.RoleChairman,
		FullName: "رئيس الاجتماع",
	}, cfg)
	if err != nil {
		t.Fatalf("Failed to generate token: %v", err)
	}

	router := gin.New()
	router.Use(RequestLogger())
	router.GET("/api/meetings", RequireAuth(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	// Anonymous requests log without identity attributes
	req := httptest.NewRequest("GET", "/api/meetings", nil)
	router.ServeHTTP(httptest.NewRecorder(), req)
	if strings.Contains(buf.String(), "username=") {
		t.Error("Expected no username attribute for an anonymous request")
	}

	buf.Reset()
	req = httptest.NewRequest("GET", "/api/meetings", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: token})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	logOutput := buf.String()
	if !strings.Contains(logOutput, "username=admin") {
		t.Errorf("Expected username attribute in log, got %q", logOutput)
	}
	if !strings.Contains(logOutput, "role="+model.RoleChairman) {
		t.Errorf("Expected role attribute in log, got %q", logOutput)
	}
}
