package backup

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"time"

	"repertoire/storage"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	DatabaseEntry = "openings.db"
	UploadsPrefix = "uploads/"
)

// Write streams a zip archive with a consistent copy of the SQLite database (when SQLite is used)
// and every stored upload under uploads/.
func Write(w io.Writer, tx *gorm.DB, s storage.StorageAPI) error {
	archive := zip.NewWriter(w)
	if tx.Dialector.Name() == "sqlite" {
		if err := addDatabase(archive, tx); err != nil {
			return err
		}
	} else {
		zap.L().Info("backup without database dump", zap.String("dialect", tx.Dialector.Name()))
	}
	names, err := s.List()
	if err != nil {
		return err
	}
	for _, name := range names {
		entry, err := archive.CreateHeader(&zip.FileHeader{
			Name:     UploadsPrefix + name,
			Method:   zip.Store, // images are compressed already
			Modified: time.Now(),
		})
		if err != nil {
			return err
		}
		if _, err = s.Load(name, entry); err != nil {
			return err
		}
	}
	return archive.Close()
}

func addDatabase(archive *zip.Writer, tx *gorm.DB) error {
	dir, err := os.MkdirTemp("", "backup")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)
	snapshot := filepath.Join(dir, DatabaseEntry)
	if err = tx.Exec("VACUUM INTO ?", snapshot).Error; err != nil {
		return err
	}
	file, err := os.Open(snapshot)
	if err != nil {
		return err
	}
	defer file.Close()
	entry, err := archive.CreateHeader(&zip.FileHeader{
		Name:     DatabaseEntry,
		Method:   zip.Deflate,
		Modified: time.Now(),
	})
	if err != nil {
		return err
	}
	_, err = io.Copy(entry, file)
	return err
}
