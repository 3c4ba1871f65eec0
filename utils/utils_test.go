package utils

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "Italian Game", "Italian Game"},
		{"trim", "  Sicilian  ", "Sicilian"},
		{"markup", "<b>Ruy</b> <script>alert(1)</script>Lopez", "Ruy Lopez"},
		{"entities", "Bishop's & Knight's", "Bishop's & Knight's"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTrimTextPtr(t *testing.T) {
	require.Nil(t, TrimTextPtr(nil))
	blank := "  \n "
	require.Nil(t, TrimTextPtr(&blank))
	notes := " play c5 when a<b and <d5> is weak "
	require.Equal(t, "play c5 when a<b and <d5> is weak", *TrimTextPtr(&notes))
}

func TestCreateThumb(t *testing.T) {
	var original bytes.Buffer
	require.NoError(t, png.Encode(&original, image.NewRGBA(image.Rect(0, 0, 40, 20))))
	var thumb bytes.Buffer
	require.NoError(t, CreateThumb(10, &original, &thumb))
	cfg, format, err := image.DecodeConfig(&thumb)
	require.NoError(t, err)
	require.Equal(t, "jpeg", format)
	require.Equal(t, 10, cfg.Width)
	require.Equal(t, 5, cfg.Height)

	require.Error(t, CreateThumb(10, bytes.NewReader([]byte("nope")), &thumb))
}

func TestCacheControl(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/none", CacheControl(CacheNoCache), func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/week", CacheControl(CacheWeek), func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/none", nil))
	require.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/week", nil))
	require.Equal(t, "private, max-age=604800", w.Header().Get("Cache-Control"))
}

func TestRand16BytesToBase62(t *testing.T) {
	a, b := Rand16BytesToBase62(), Rand16BytesToBase62()
	require.NotEqual(t, a, b)
	require.NotEmpty(t, a)
}
