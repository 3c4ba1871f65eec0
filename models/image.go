package models

import (
	"encoding/hex"
	"io"
	"path/filepath"
	"strings"

	"repertoire/storage"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var allowedImageExtensions = map[string]bool{
	"png":  true,
	"jpg":  true,
	"jpeg": true,
	"gif":  true,
}

// ImageExtension returns the lower-cased extension (without the dot) of an allowed image file name
func ImageExtension(filename string) (string, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	return ext, allowedImageExtensions[ext]
}

// NewImageFilename creates a unique, owner prefixed file name, e.g. u3_img_0f1e...c9.png
func NewImageFilename(owner Owner, ext string) string {
	id := uuid.New()
	return owner.imagePrefix() + "img_" + hex.EncodeToString(id[:]) + "." + ext
}

// SaveImage stores an uploaded image for owner and returns its new file name
func SaveImage(owner Owner, originalName string, reader io.Reader) (string, error) {
	ext, ok := ImageExtension(originalName)
	if !ok {
		return "", newError(ErrValidation, "Image type not allowed (png, jpg, jpeg, gif)")
	}
	name := NewImageFilename(owner, ext)
	if _, err := storage.GetDefaultStorage().Save(name, reader); err != nil {
		return "", err
	}
	return name, nil
}

// copyImage duplicates an image file under a fresh name for owner
func copyImage(owner Owner, source string) (string, error) {
	ext, ok := ImageExtension(source)
	if !ok {
		ext = strings.TrimPrefix(filepath.Ext(source), ".")
	}
	name := NewImageFilename(owner, ext)
	if err := storage.Copy(storage.GetDefaultStorage(), source, name); err != nil {
		return "", err
	}
	return name, nil
}

// RemoveImages deletes image files; failures are logged and never returned
func RemoveImages(names []string) {
	if len(names) == 0 {
		return
	}
	storage.DeleteQuietly(storage.GetDefaultStorage(), names...)
}

// unreferencedImages returns the files (among names) that no variation row points to anymore
func unreferencedImages(tx *gorm.DB, names []string) ([]string, error) {
	result := []string{}
	seen := map[string]bool{}
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		var count int64
		if err := tx.Model(&Variation{}).Where("image_filename = ?", name).Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			result = append(result, name)
		}
	}
	return result, nil
}
