package repository

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	models "github.com/Schera-ole/empstatus/internal/model"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		limit int
		want  string
	}{
		{name: "short ascii", input: "INFO", limit: 10, want: "INFO"},
		{name: "long ascii", input: "WARNING-VERY-LONG", limit: 10, want: "WARNING-VE"},
		{name: "multi-byte kept whole", input: "ééééé", limit: 5, want: "ééééé"},
		{name: "multi-byte cut on character", input: "éééééé", limit: 3, want: "ééé"},
		{name: "mixed", input: "aé€b", limit: 3, want: "aé€"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := truncate(test.input, test.limit)
			assert.Equal(t, test.want, got)
			assert.True(t, utf8.ValidString(got))
		})
	}
}

func TestEncodeLogContext(t *testing.T) {
	t.Run("fits", func(t *testing.T) {
		data, err := encodeLogContext(map[string]any{"nationalNumber": "NAT1001", "count": 6})
		require.NoError(t, err)
		assert.JSONEq(t, `{"nationalNumber":"NAT1001","count":6}`, data)
	})

	t.Run("multi-byte within character limit", func(t *testing.T) {
		// 1900 characters but more than 3800 bytes
		data, err := encodeLogContext(map[string]any{"nationalNumber": strings.Repeat("é", 1900)})
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(data))
		assert.NotEqual(t, truncatedContext, data)
		assert.True(t, json.Valid([]byte(data)))
	})

	t.Run("oversized multi-byte", func(t *testing.T) {
		data, err := encodeLogContext(map[string]any{"nationalNumber": strings.Repeat("é", 1500), "pad": strings.Repeat("x", 600)})
		require.NoError(t, err)
		assert.True(t, utf8.ValidString(data))
		assert.True(t, json.Valid([]byte(data)))
		assert.Equal(t, truncatedContext, data)
	})

	t.Run("unmarshalable", func(t *testing.T) {
		_, err := encodeLogContext(map[string]any{"bad": make(chan int)})
		assert.Error(t, err)
	})
}

func TestMemStorage_WriteLogOversizedContext(t *testing.T) {
	storage := NewMemStorage()

	err := storage.WriteLog(context.Background(), models.AuditEvent{
		TS:      time.Now(),
		Level:   "warn",
		Message: "user_not_found",
		Context: map[string]any{"nationalNumber": strings.Repeat("é", 3000)},
	})
	require.NoError(t, err)

	logs := storage.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, map[string]any{"truncated": true}, logs[0].Context)
	assert.Equal(t, "user_not_found", logs[0].Message)
}
