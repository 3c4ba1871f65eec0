package storage

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var ErrInvalidName = errors.New("invalid file name")

// StorageAPI is a flat namespace of files addressed by name
type StorageAPI interface {
	Save(name string, reader io.Reader) (int64, error)
	Load(name string, writer io.Writer) (int64, error)
	Serve(name string, request *http.Request, writer http.ResponseWriter)
	Delete(name string) error
	Exists(name string) bool
	List() ([]string, error)
	GetFreeSpace() uint64
	GetBucket() *Bucket
}

var defaultStorage StorageAPI

func Init(bucket Bucket) {
	if bucket.IsS3() {
		defaultStorage = NewS3Storage(&bucket)
	} else {
		defaultStorage = NewDiskStorage(&bucket)
	}
	zap.L().Info("image storage initialised", zap.Stringer("bucket", &bucket))
}

func GetDefaultStorage() StorageAPI {
	if defaultStorage == nil {
		panic("no storage available")
	}
	return defaultStorage
}

// ValidName accepts plain file names only (no directories, no traversal)
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}

// Copy duplicates src into dst within the same storage
func Copy(s StorageAPI, src, dst string) error {
	var buf bytes.Buffer
	if _, err := s.Load(src, &buf); err != nil {
		return err
	}
	_, err := s.Save(dst, &buf)
	return err
}

// DeleteQuietly removes files, logging failures instead of returning them
func DeleteQuietly(s StorageAPI, names ...string) {
	for _, name := range names {
		if err := s.Delete(name); err != nil {
			zap.L().Warn("cannot delete file", zap.String("file", name), zap.Error(err))
		}
	}
}
