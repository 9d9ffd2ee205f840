package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/media-resolve-go/internal/app"
	"github.com/yourusername/media-resolve-go/internal/domain"
	"github.com/yourusername/media-resolve-go/pkg/logger"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newUpstream fakes the downloader API, one canned body per platform path
func newUpstream(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/tiktok":
			w.Write([]byte(`{"video":["https://x/video.mp4"]}`))
		case "/twitter":
			if strings.Contains(r.URL.Query().Get("url"), "invalid") {
				w.Write([]byte(`{"status":false,"data":"Invalid URL"}`))
				return
			}
			if strings.Contains(r.URL.Query().Get("url"), "hd") {
				w.Write([]byte(`{"url":[{"hd":"https://x/hd.mp4","sd":"https://x/sd.mp4"}]}`))
				return
			}
			w.Write([]byte(`{"url":[{"sd":"https://x/sd.mp4"}]}`))
		case "/facebook":
			w.WriteHeader(http.StatusBadGateway)
		case "/instagram":
			w.Write([]byte(`{"status":"ok","data":{}}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestRouter(t *testing.T, historyEnabled bool) *gin.Engine {
	t.Helper()
	upstream := newUpstream(t)

	config := domain.DefaultConfig()
	config.Upstream.BaseURL = upstream.URL
	if historyEnabled {
		config.History.Enabled = true
		config.History.DatabasePath = filepath.Join(t.TempDir(), "history.db")
	}

	service, cleanup, err := app.NewServiceFromConfig(config, nil)
	require.NoError(t, err)
	t.Cleanup(func() { cleanup() })

	return SetupRouter(service, nil)
}

func doRequest(t *testing.T, router *gin.Engine, req *http.Request) (*httptest.ResponseRecorder, domain.ResolveResponse) {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var body domain.ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return w, body
}

func resolveGet(rawURL string) *http.Request {
	return httptest.NewRequest(http.MethodGet, "/api/resolve?url="+url.QueryEscape(rawURL), nil)
}

func TestResolve_TikTok(t *testing.T) {
	router := newTestRouter(t, false)

	w, body := doRequest(t, router, resolveGet("https://www.tiktok.com/@a/video/1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, body.Success)
	assert.Equal(t, domain.PlatformTikTok, body.Platform)
	assert.Equal(t, "https://x/video.mp4", body.DownloadURL)
	assert.Empty(t, body.Error)
}

func TestResolve_TwitterPrefersHD(t *testing.T) {
	router := newTestRouter(t, false)

	_, body := doRequest(t, router, resolveGet("https://x.com/a/status/1"))
	assert.Equal(t, "https://x/sd.mp4", body.DownloadURL)

	_, body = doRequest(t, router, resolveGet("https://x.com/hd/status/1"))
	assert.Equal(t, "https://x/hd.mp4", body.DownloadURL)
}

func TestResolve_V1Path(t *testing.T) {
	router := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resolve?url="+url.QueryEscape("https://vm.tiktok.com/abc"), nil)
	w, body := doRequest(t, router, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://x/video.mp4", body.DownloadURL)
}

func TestResolve_PostJSON(t *testing.T) {
	router := newTestRouter(t, false)

	req := httptest.NewRequest(http.MethodPost, "/api/resolve",
		strings.NewReader(`{"url":"https://short.link/abc","platform":"tiktok"}`))
	req.Header.Set("Content-Type", "application/json")

	w, body := doRequest(t, router, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, domain.PlatformTikTok, body.Platform)
}

func TestResolve_PostFormOverridesQuery(t *testing.T) {
	router := newTestRouter(t, false)

	form := url.Values{"url": {"https://www.tiktok.com/@a/video/1"}}
	req := httptest.NewRequest(http.MethodPost, "/api/resolve?url=https://example.com",
		strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	w, body := doRequest(t, router, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://x/video.mp4", body.DownloadURL)
}

func TestResolve_MissingURL(t *testing.T) {
	router := newTestRouter(t, false)

	w, body := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/resolve", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Missing url parameter", body.Error)
}

func TestResolve_UnsupportedPlatform(t *testing.T) {
	router := newTestRouter(t, false)

	w, body := doRequest(t, router, resolveGet("https://example.com/video"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Unsupported platform", body.Error)
	assert.Empty(t, body.Platform)
}

func TestResolve_UpstreamFailure(t *testing.T) {
	router := newTestRouter(t, false)

	w, body := doRequest(t, router, resolveGet("https://fb.watch/abc"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, domain.PlatformFacebook, body.Platform)
	assert.Equal(t, "Upstream request failed", body.Error)
}

func TestResolve_ExtractionFailed(t *testing.T) {
	router := newTestRouter(t, false)

	w, body := doRequest(t, router, resolveGet("https://www.instagram.com/reel/abc"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Unable to extract video URL", body.Error)
}

func TestResolve_UpstreamErrorMessageIsNotAURL(t *testing.T) {
	router := newTestRouter(t, false)

	w, body := doRequest(t, router, resolveGet("https://x.com/invalid/status/1"))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, body.Success)
	assert.Equal(t, "Unable to extract video URL", body.Error)
	assert.Empty(t, body.DownloadURL)
}

func TestResolve_Options(t *testing.T) {
	router := newTestRouter(t, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/api/resolve", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "GET,POST,OPTIONS", w.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", w.Header().Get("Access-Control-Allow-Headers"))
}

func TestResolve_CORSOnErrors(t *testing.T) {
	router := newTestRouter(t, false)

	w, _ := doRequest(t, router, httptest.NewRequest(http.MethodGet, "/api/resolve", nil))
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestResolve_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, false)

	for _, method := range []string{http.MethodPut, http.MethodDelete, http.MethodPatch} {
		w, body := doRequest(t, router, httptest.NewRequest(method, "/api/resolve", nil))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		assert.False(t, body.Success)
		assert.Equal(t, "Method not allowed", body.Error)
	}
}

func TestRequestID(t *testing.T) {
	router := newTestRouter(t, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status    string   `json:"status"`
		Platforms []string `json:"platforms"`
		History   bool     `json:"history"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Len(t, body.Platforms, len(domain.AllPlatforms()))
	assert.False(t, body.History)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHistoryRoutes_Disabled(t *testing.T) {
	router := newTestRouter(t, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resolutions", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHistoryRoutes_Enabled(t *testing.T) {
	router := newTestRouter(t, true)

	doRequest(t, router, resolveGet("https://www.tiktok.com/@a/video/1"))
	doRequest(t, router, resolveGet("https://fb.watch/abc"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resolutions?platform=tiktok", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var rows []domain.Resolution
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rows))
	require.Len(t, rows, 1)
	assert.True(t, rows[0].Success)
	assert.Equal(t, "https://x/video.mp4", rows[0].DownloadURL)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resolutions/"+rows[0].ID, nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resolutions/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resolutions/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var stats domain.ResolutionStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(1), stats.Failed)
	assert.Equal(t, int64(1), stats.ByError[domain.KindUpstreamUnreachable])

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/resolutions?limit=zero", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogRoutes(t *testing.T) {
	upstream := newUpstream(t)
	config := domain.DefaultConfig()
	config.Upstream.BaseURL = upstream.URL

	multiLog, err := logger.NewMultiLogger(logger.MultiLoggerConfig{Level: "info", LogsDir: t.TempDir()})
	require.NoError(t, err)
	defer multiLog.Close()
	logAdapter := logger.NewLoggerAdapter(multiLog)

	service, cleanup, err := app.NewServiceFromConfig(config, logAdapter)
	require.NoError(t, err)
	defer cleanup()
	router := SetupRouter(service, logAdapter)

	doRequest(t, router, resolveGet("https://www.tiktok.com/@a/video/1"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logs/resolve?q=tiktok", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Count   int               `json:"count"`
		Entries []logger.LogEntry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, 1, body.Count)
	assert.Equal(t, "Resolve completed", body.Entries[0].Message)

	for i := 0; i < 150; i++ {
		logAdapter.Resolve().Info("filler", zap.Int("n", i))
	}
	for _, limit := range []string{"0", "-5", "abc"} {
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logs/resolve?limit="+limit, nil))
		require.Equal(t, http.StatusOK, w.Code)
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, 100, body.Count, "limit=%s", limit)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logs/queue", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/logs/categories", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "access")
}
