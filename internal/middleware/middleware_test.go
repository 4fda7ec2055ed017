package middlewareinternal

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	models "github.com/Schera-ole/empstatus/internal/model"
)

const statusBody = `{"NationalNumber":"NAT1001","Status":"GREEN"}`

func statusHandler(code int, body string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		io.WriteString(w, body)
	})
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core).Sugar()

	handler := LoggingMiddleware(logger)(statusHandler(http.StatusNotAcceptable, statusBody))
	req := httptest.NewRequest(http.MethodPost, "/api/GetEmpStatus", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotAcceptable, rec.Code)
	assert.Equal(t, statusBody, rec.Body.String())

	entries := logs.All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/api/GetEmpStatus", fields["uri"])
	assert.Equal(t, http.MethodPost, fields["method"])
	assert.EqualValues(t, http.StatusNotAcceptable, fields["status"])
	assert.EqualValues(t, len(statusBody), fields["size"])
}

func TestLoggingMiddleware_ImplicitOK(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := LoggingMiddleware(zap.New(core).Sugar())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"ok":true}`)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Len(t, logs.All(), 1)
	assert.EqualValues(t, http.StatusOK, logs.All()[0].ContextMap()["status"])
}

func TestLoggingResponseWriter(t *testing.T) {
	rec := httptest.NewRecorder()
	data := &responseData{}
	lw := loggingResponseWriter{ResponseWriter: rec, responseData: data}

	lw.WriteHeader(http.StatusNotFound)
	size, err := lw.Write([]byte(`{"error":"Invalid National Number"}`))

	assert.NoError(t, err)
	assert.Equal(t, size, data.size)
	assert.Equal(t, http.StatusNotFound, data.status)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGzipMiddleware(t *testing.T) {
	large := `[` + strings.Repeat(statusBody+",", 500) + statusBody + `]`
	tests := []struct {
		name           string
		acceptEncoding string
		body           string
		compressed     bool
	}{
		{name: "client without gzip", acceptEncoding: "", body: statusBody, compressed: false},
		{name: "client with gzip", acceptEncoding: "gzip, deflate", body: statusBody, compressed: true},
		{name: "large response", acceptEncoding: "gzip", body: large, compressed: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := GzipMiddleware(statusHandler(http.StatusOK, tt.body))
			req := httptest.NewRequest(http.MethodPost, "/api/GetEmpStatus", nil)
			if tt.acceptEncoding != "" {
				req.Header.Set("Accept-Encoding", tt.acceptEncoding)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusOK, rec.Code)
			if !tt.compressed {
				assert.Empty(t, rec.Header().Get("Content-Encoding"))
				assert.Equal(t, tt.body, rec.Body.String())
				return
			}
			assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
			reader, err := gzip.NewReader(rec.Body)
			require.NoError(t, err)
			defer reader.Close()
			var decompressed bytes.Buffer
			_, err = io.Copy(&decompressed, reader)
			require.NoError(t, err)
			assert.Equal(t, tt.body, decompressed.String())
		})
	}
}

func TestBearerAuth(t *testing.T) {
	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{name: "missing header", token: "secret123", header: "", want: http.StatusUnauthorized},
		{name: "wrong token", token: "secret123", header: "Bearer wrong", want: http.StatusUnauthorized},
		{name: "wrong scheme", token: "secret123", header: "Basic secret123", want: http.StatusUnauthorized},
		{name: "bare token", token: "secret123", header: "secret123", want: http.StatusUnauthorized},
		{name: "valid token", token: "secret123", header: "Bearer secret123", want: http.StatusOK},
		{name: "empty configured token", token: "", header: "Bearer ", want: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := BearerAuth(tt.token)(statusHandler(http.StatusOK, statusBody))
			req := httptest.NewRequest(http.MethodPost, "/api/GetEmpStatus", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				var resp models.ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Equal(t, "Unauthorized", resp.Error)
			}
		})
	}
}
