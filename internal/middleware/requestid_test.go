// GuestMap - Location-Pinned Guestbook on a World Map
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/guestmap

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/tomtom215/guestmap/internal/logging"
)

func TestRequestID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		incoming string
		wantSame bool
	}{
		{"generates when missing", "", false},
		{"preserves upstream id", "upstream-abc-123", true},
		{"replaces oversized id", strings.Repeat("x", maxRequestIDLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ctx context.Context
			handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctx = r.Context()
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/config", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			header := rec.Header().Get(RequestIDHeader)
			if header == "" {
				t.Fatal("expected X-Request-ID response header")
			}
			if tt.wantSame && header != tt.incoming {
				t.Errorf("header = %q, want %q", header, tt.incoming)
			}
			if !tt.wantSame {
				if _, err := uuid.Parse(header); err != nil {
					t.Errorf("generated id %q is not a UUID: %v", header, err)
				}
			}

			if got := GetRequestID(ctx); got != header {
				t.Errorf("GetRequestID = %q, want %q", got, header)
			}
			if got := logging.RequestIDFromContext(ctx); got != header {
				t.Errorf("logging request id = %q, want %q", got, header)
			}
			if logging.CorrelationIDFromContext(ctx) == "" {
				t.Error("expected a correlation id in context")
			}
		})
	}
}

func TestGetRequestID_Empty(t *testing.T) {
	t.Parallel()
	if got := GetRequestID(context.Background()); got != "" {
		t.Errorf("GetRequestID = %q, want empty", got)
	}
}
