package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOriginFilter(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantCORS   bool
	}{
		{"no origin", http.MethodGet, "", http.StatusOK, false},
		{"allowed origin", http.MethodGet, testOrigin, http.StatusOK, true},
		{"preflight", http.MethodOptions, testOrigin, http.StatusNoContent, true},
		{"foreign origin", http.MethodGet, "https://evil.example", http.StatusForbidden, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/health", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			e.router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", w.Code, tt.wantStatus)
			}
			got := w.Header().Get("Access-Control-Allow-Origin")
			if tt.wantCORS && got != tt.origin {
				t.Fatalf("Access-Control-Allow-Origin = %q, want %q", got, tt.origin)
			}
			if !tt.wantCORS && got != "" {
				t.Fatalf("unexpected Access-Control-Allow-Origin %q", got)
			}
		})
	}
}
