package models

import (
	"path/filepath"
	"strings"
	"testing"

	"repertoire/db"
	"repertoire/storage"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB opens a fresh SQLite database and a disk storage, both in a temporary directory
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dir := t.TempDir()
	tx, err := db.Open(sqlite.Open(db.SQLiteDSN(filepath.Join(dir, "test.db"))))
	require.NoError(t, err)
	sqlDB, err := tx.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, Init(tx))
	storage.Init(storage.Bucket{StorageType: storage.StorageTypeFile, Path: filepath.Join(dir, "uploads")})
	return tx
}

func createTestUser(t *testing.T, tx *gorm.DB, username string) User {
	t.Helper()
	u, err := UserCreate(tx, username, "secret")
	require.NoError(t, err)
	return u
}

func saveTestImage(t *testing.T, owner Owner) string {
	t.Helper()
	name, err := SaveImage(owner, "board.png", strings.NewReader("not really a png"))
	require.NoError(t, err)
	return name
}

func addTestVariation(t *testing.T, tx *gorm.DB, identity Identity, opening string, side Side, name, moves string) Opening {
	t.Helper()
	o, err := AddVariation(tx, identity, opening, side, VariationInput{Name: name, Moves: moves})
	require.NoError(t, err)
	return o
}

func variationNamed(t *testing.T, o Opening, name string) Variation {
	t.Helper()
	for _, v := range o.Variations {
		if v.Name == name {
			return v
		}
	}
	t.Fatalf("variation %q not found in %q", name, o.Name)
	return Variation{}
}
