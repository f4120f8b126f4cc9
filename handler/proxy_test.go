package handler

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/mscofield999-cyber/meetingminutes/config"
)

func proxyRouter(backendURL string) *gin.Engine {
	h := NewProxyHandler(&config.ProxyConfig{BackendURL: backendURL})
	router := gin.New()
	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			h.Forward(c)
			return
		}
		c.Status(http.StatusNotFound)
	})
	return router
}

func TestProxyForward(t *testing.T) {
	var gotMethod, gotPath, gotQuery, gotBody, gotEncoding, gotCustom string

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		gotEncoding = r.Header.Get("Accept-Encoding")
		gotCustom = r.Header.Get("X-Custom-Header")

		w.Header().Set("X-Backend-Header", "backend-value")
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"generated":true}`))
	}))
	defer backend.Close()

	router := proxyRouter(backend.URL)

	req := httptest.NewRequest("POST", "/api/generate-pdf?format=a4", strings.NewReader(`{"title":"doc"}`))
	req.Header.Set("X-Custom-Header", "custom-value")
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if gotMethod != "POST" {
		t.Errorf("Expected POST forwarded, got %s", gotMethod)
	}
	if gotPath != "/api/generate-pdf" {
		t.Errorf("Expected path forwarded, got %s", gotPath)
	}
	if gotQuery != "format=a4" {
		t.Errorf("Expected query forwarded, got %s", gotQuery)
	}
	if gotBody != `{"title":"doc"}` {
		t.Errorf("Expected body forwarded, got %s", gotBody)
	}
	if gotCustom != "custom-value" {
		t.Errorf("Expected custom header forwarded, got %q", gotCustom)
	}
	if gotEncoding != "" {
		t.Errorf("Expected Accept-Encoding stripped, got %q", gotEncoding)
	}

	if w.Code != http.StatusCreated {
		t.Errorf("Expected upstream status relayed, got %d", w.Code)
	}
	if w.Body.String() != `{"generated":true}` {
		t.Errorf("Expected upstream body relayed, got %s", w.Body.String())
	}
	if w.Header().Get("X-Backend-Header") != "backend-value" {
		t.Errorf("Expected upstream header relayed, got %q", w.Header().Get("X-Backend-Header"))
	}
}

func TestProxyPreservesMultipleSetCookies(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Set-Cookie", "first=1; Path=/")
		w.Header().Add("Set-Cookie", "second=2; Path=/")
		w.WriteHeader(http.StatusOK)
	}))
	defer backend.Close()

	router := proxyRouter(backend.URL)

	req := httptest.NewRequest("GET", "/api/whatever", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	cookies := w.Header().Values("Set-Cookie")
	if len(cookies) != 2 {
		t.Fatalf("Expected 2 Set-Cookie headers, got %d: %v", len(cookies), cookies)
	}
	if !strings.HasPrefix(cookies[0], "first=") || !strings.HasPrefix(cookies[1], "second=") {
		t.Errorf("Cookies not relayed in order: %v", cookies)
	}
}

func TestProxyMissingBackendURL(t *testing.T) {
	router := proxyRouter("")

	req := httptest.NewRequest("GET", "/api/generate-pdf", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "BACKEND_URL env is not set") {
		t.Errorf("Expected configuration error body, got %s", w.Body.String())
	}
}

func TestProxyBackendUnreachable(t *testing.T) {
	// Port 1 is never listening
	router := proxyRouter("http://127.0.0.1:1")

	req := httptest.NewRequest("GET", "/api/generate-pdf", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadGateway {
		t.Errorf("Expected 502, got %d", w.Code)
	}
}

func TestProxyDoesNotFollowRedirects(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/api/elsewhere", http.StatusFound)
	}))
	defer backend.Close()

	router := proxyRouter(backend.URL)

	req := httptest.NewRequest("GET", "/api/start", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusFound {
		t.Errorf("Expected redirect relayed as-is, got %d", w.Code)
	}
	if w.Header().Get("Location") == "" {
		t.Error("Expected Location header relayed")
	}
}
