package devserver

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func siteDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"index.html":         "<html>home</html>",
		"css/style.css":      "body{}",
		"folio.wasm":         "\x00asm",
		"docs/index.html":    "<html>docs</html>",
		"documents/ibex.pdf": "%PDF",
	}
	for name, body := range files {
		p := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	}
	return root
}

func get(t *testing.T, h http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestServesFiles(t *testing.T) {
	t.Parallel()
	h := New(siteDir(t), zaptest.NewLogger(t)).Handler()

	tests := []struct {
		name   string
		target string
		status int
		body   string
		ctype  string
	}{
		{name: "index", target: "/", status: http.StatusOK, body: "<html>home</html>"},
		{name: "stylesheet", target: "/css/style.css", status: http.StatusOK, body: "body{}", ctype: "text/css; charset=utf-8"},
		{name: "wasm", target: "/folio.wasm", status: http.StatusOK, ctype: "application/wasm"},
		{name: "nested index", target: "/docs/", status: http.StatusOK, body: "<html>docs</html>"},
		{name: "missing", target: "/nope.html", status: http.StatusNotFound},
		{name: "no listing", target: "/documents/", status: http.StatusNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			rec := get(t, h, tc.target)
			require.Equal(t, tc.status, rec.Code)
			if tc.body != "" {
				require.Equal(t, tc.body, rec.Body.String())
			}
			if tc.ctype != "" {
				require.Equal(t, tc.ctype, rec.Header().Get("Content-Type"))
			}
			require.NotContains(t, rec.Body.String(), "ibex.pdf")
		})
	}
}

func TestNoCacheHeaders(t *testing.T) {
	t.Parallel()
	rec := get(t, New(siteDir(t), nil).Handler(), "/")
	require.Equal(t, "no-cache, no-store, must-revalidate", rec.Header().Get("Cache-Control"))
	require.Equal(t, "no-cache", rec.Header().Get("Pragma"))
	require.Equal(t, "0", rec.Header().Get("Expires"))
}

func TestServeShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(siteDir(t), zaptest.NewLogger(t))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	url := "http://" + ln.Addr().String() + "/"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "<html>home</html>"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(shutdownTimeout):
		t.Fatal("server did not stop")
	}
}
