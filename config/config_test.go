package config

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("BIND_ADDRESS", "127.0.0.1:8080")
	t.Setenv("MAX_UPLOAD_MB", "4")
	t.Setenv("DEBUG_MODE", "off")
	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	Load()
	require.Equal(t, "127.0.0.1:8080", BIND_ADDRESS)
	require.Equal(t, 4, MAX_UPLOAD_MB)
	require.False(t, DEBUG_MODE)
	require.Equal(t, []string{"https://a.example", "https://b.example"}, CorsOrigins())

	t.Setenv("MAX_UPLOAD_MB", "lots")
	Load()
	require.Equal(t, 4, MAX_UPLOAD_MB)
}
