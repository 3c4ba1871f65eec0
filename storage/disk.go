package storage

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"

	cmap "github.com/orcaman/concurrent-map/v2"
	"golang.org/x/sys/unix"
)

type DiskStorage struct {
	Bucket Bucket
	// BasePath is a directory that is writable by the current process
	BasePath string
	dirs     cmap.ConcurrentMap[string, bool]
}

func NewDiskStorage(bucket *Bucket) StorageAPI {
	return &DiskStorage{
		Bucket:   *bucket,
		BasePath: bucket.Path,
		dirs:     cmap.New[bool](),
	}
}

func (s *DiskStorage) createDir(dir string) error {
	if ok, _ := s.dirs.Get(dir); ok {
		return nil
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return err
	}
	s.dirs.Set(dir, true)
	return nil
}

func (s *DiskStorage) getFullPath(name string) (string, error) {
	if !ValidName(name) {
		return "", ErrInvalidName
	}
	return filepath.Join(s.BasePath, name), nil
}

func (s *DiskStorage) Save(name string, reader io.Reader) (int64, error) {
	fileName, err := s.getFullPath(name)
	if err != nil {
		return 0, err
	}
	if err := s.createDir(s.BasePath); err != nil {
		return 0, err
	}
	file, err := os.Create(fileName)
	if err != nil {
		return 0, err
	}
	result, err := io.Copy(file, reader)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	return result, err
}

func (s *DiskStorage) Load(name string, writer io.Writer) (int64, error) {
	fileName, err := s.getFullPath(name)
	if err != nil {
		return 0, err
	}
	file, err := os.Open(fileName)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	return io.Copy(writer, file)
}

func (s *DiskStorage) Serve(name string, request *http.Request, writer http.ResponseWriter) {
	fileName, err := s.getFullPath(name)
	if err != nil || !s.Exists(name) {
		http.NotFound(writer, request)
		return
	}
	http.ServeFile(writer, request, fileName)
}

func (s *DiskStorage) Delete(name string) error {
	fileName, err := s.getFullPath(name)
	if err != nil {
		return err
	}
	return os.Remove(fileName)
}

func (s *DiskStorage) Exists(name string) bool {
	fileName, err := s.getFullPath(name)
	if err != nil {
		return false
	}
	fi, err := os.Stat(fileName)
	return err == nil && fi.Mode().IsRegular()
}

func (s *DiskStorage) List() ([]string, error) {
	entries, err := os.ReadDir(s.BasePath)
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	result := []string{}
	for _, entry := range entries {
		if entry.Type().IsRegular() {
			result = append(result, entry.Name())
		}
	}
	sort.Strings(result)
	return result, nil
}

func (s *DiskStorage) GetFreeSpace() uint64 {
	var stat unix.Statfs_t
	if err := unix.Statfs(s.BasePath, &stat); err != nil {
		return 0
	}
	return stat.Bavail * uint64(stat.Bsize)
}

func (s *DiskStorage) GetBucket() *Bucket {
	return &s.Bucket
}
