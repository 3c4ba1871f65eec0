package utils

import (
	"crypto/rand"
	"html"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"math/big"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/nfnt/resize"
)

var strictPolicy = bluemonday.StrictPolicy()

// CleanText strips any markup from names, keeping the plain characters
func CleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(s)))
}

// TrimTextPtr trims optional free text (notes), blank becomes nil. The text is stored as typed.
func TrimTextPtr(s *string) *string {
	if s == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func Rand16BytesToBase62() string {
	buf := make([]byte, 16)
	_, err := rand.Read(buf)
	if err != nil {
		panic(err)
	}
	var i big.Int
	return i.SetBytes(buf).Text(62)
}

// CreateThumb writes a JPEG that fits into size x size
func CreateThumb(size uint, reader io.Reader, writer io.Writer) error {
	original, _, err := image.Decode(reader)
	if err != nil {
		return err
	}
	return jpeg.Encode(writer, resize.Thumbnail(size, size, original, resize.Lanczos3), &jpeg.Options{Quality: 90})
}
