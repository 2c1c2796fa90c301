package server

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/Daffa964/api-edutrash/internal/config"
)

func TestServeAndShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, "Server berjalan dengan baik!") })
	srv, err := NewHTTPServer(router, config.Config{ShutdownTimeout: time.Second})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Post("http://"+ln.Addr().String()+"/", "text/plain", nil)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestRunReportsListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	srv, err := NewHTTPServer(gin.New(), config.Config{})
	require.NoError(t, err)
	err = srv.Run(context.Background(), ln.Addr().String())
	require.ErrorContains(t, err, "listen")
}

func TestClientIPIgnoresForwardedHeadersFromUntrustedPeers(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name    string
		trusted []string
		want    string
	}{
		{name: "no trusted proxies", trusted: nil, want: "203.0.113.7"},
		{name: "peer is trusted proxy", trusted: []string{"203.0.113.0/24"}, want: "198.51.100.9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/ip", func(c *gin.Context) { c.String(http.StatusOK, c.ClientIP()) })
			srv, err := NewHTTPServer(router, config.Config{TrustedProxies: tt.trusted})
			require.NoError(t, err)

			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/ip", nil)
			req.RemoteAddr = "203.0.113.7:4000"
			req.Header.Set("X-Forwarded-For", "198.51.100.9")
			srv.Engine.ServeHTTP(w, req)
			require.Equal(t, tt.want, w.Body.String())
		})
	}
}

func TestNewHTTPServerRejectsBadProxy(t *testing.T) {
	_, err := NewHTTPServer(gin.New(), config.Config{TrustedProxies: []string{"not-an-ip"}})
	require.Error(t, err)
}
