package security

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestMediaURLGuard_ValidateURL(t *testing.T) {
	g := NewMediaURLGuard(5*time.Second, 0)

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"public https", "https://cdn.example.com/p.jpg", false},
		{"public http", "http://cdn.example.com/p.jpg", false},
		{"empty", "", true},
		{"ftp scheme", "ftp://example.com/p.jpg", true},
		{"no host", "https:///p.jpg", true},
		{"localhost", "http://localhost/p.jpg", true},
		{"loopback", "http://127.0.0.1/p.jpg", true},
		{"private 10", "http://10.0.0.5/p.jpg", true},
		{"private 192.168", "http://192.168.1.1/p.jpg", true},
		{"metadata IP", "http://169.254.169.254/latest/meta-data", true},
		{"ipv6 loopback", "http://[::1]/p.jpg", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestMediaURLGuard_NewSafeClient(t *testing.T) {
	g := NewMediaURLGuard(5*time.Second, 0)

	client := g.NewSafeClient(0)
	if client == nil {
		t.Fatal("NewSafeClient returned nil")
	}
}

func TestMediaURLGuard_ProbeURL_BlocksLoopback(t *testing.T) {
	// ループバック上のサーバーへのプローブはSSRF防止クライアントが遮断する
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	g := NewMediaURLGuard(2*time.Second, 0)
	if err := g.ProbeURL(context.Background(), srv.URL+"/p.jpg"); err == nil {
		t.Error("ProbeURL should block loopback addresses")
	}
}

func TestMediaURLGuard_ProbeURL_InvalidURL(t *testing.T) {
	g := NewMediaURLGuard(2*time.Second, 0)
	if err := g.ProbeURL(context.Background(), "://bad"); err == nil {
		t.Error("ProbeURL should reject an unparsable URL")
	}
}

func TestCheckProbeResponse(t *testing.T) {
	tests := []struct {
		name          string
		statusCode    int
		contentLength int64
		maxLength     int64
		wantErr       bool
	}{
		{"ok", http.StatusOK, 1024, 1048576, false},
		{"ok without limit", http.StatusOK, 1 << 30, 0, false},
		{"unknown length skips size check", http.StatusOK, -1, 1048576, false},
		{"not found", http.StatusNotFound, 0, 0, true},
		{"redirect not followed", http.StatusMovedPermanently, 0, 0, true},
		{"too large", http.StatusOK, 2 * 1048576, 1048576, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &http.Response{
				StatusCode:    tt.statusCode,
				ContentLength: tt.contentLength,
			}
			err := checkProbeResponse(resp, tt.maxLength)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkProbeResponse(status=%d, len=%d, max=%d) error = %v, wantErr %v",
					tt.statusCode, tt.contentLength, tt.maxLength, err, tt.wantErr)
			}
		})
	}
}
