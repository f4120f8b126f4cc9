package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mscofield999-cyber/meetingminutes/config"
	"github.com/mscofield999-cyber/meetingminutes/pkg/logger"
)

// ProxyHandler relays unrecognized /api/* requests verbatim to the
// configured upstream backend: same method, same body, same headers
// except Host and Accept-Encoding, and the upstream response flows back
// byte for byte. Compression is disabled on the transport so the relay
// never rewrites the payload or its encoding headers.
type ProxyHandler struct {
	config *config.ProxyConfig
	client *http.Client
}

func NewProxyHandler(cfg *config.ProxyConfig) *ProxyHandler {
	return &ProxyHandler{
		config: cfg,
		client: &http.Client{
			Transport: &http.Transport{DisableCompression: true},
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Forward sends the inbound request to the upstream and relays the
// response unmodified.
func (h *ProxyHandler) Forward(c *gin.Context) {
	if h.config.BackendURL == "" {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "BACKEND_URL env is not set"})
		return
	}

	target := strings.TrimRight(h.config.BackendURL, "/") + c.Request.URL.RequestURI()

	var body io.Reader
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		body = c.Request.Body
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), c.Request.Method, target, body)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid upstream request"})
		return
	}

	req.Header = c.Request.Header.Clone()
	req.Header.Del("Accept-Encoding")
	req.ContentLength = c.Request.ContentLength

	resp, err := h.client.Do(req)
	if err != nil {
		logger.Error(c.Request.Context(), "backend request failed", "target", target, "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend request failed"})
		return
	}
	defer resp.Body.Close()

	header := c.Writer.Header()
	for key, values := range resp.Header {
		for _, value := range values {
			header.Add(key, value)
		}
	}

	c.Status(resp.StatusCode)
	if _, err := io.Copy(c.Writer, resp.Body); err != nil {
		logger.Warn(c.Request.Context(), "backend response relay interrupted", "target", target, "error", err)
	}
}
