package storage

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"go.uber.org/zap"
)

const presignViewURLFor = 15 * time.Minute

type S3Storage struct {
	Bucket   Bucket
	s3Client *s3.S3
}

func NewS3Storage(bucket *Bucket) StorageAPI {
	return &S3Storage{
		Bucket:   *bucket,
		s3Client: bucket.CreateSVC(),
	}
}

func (s *S3Storage) Save(name string, reader io.Reader) (int64, error) {
	if !ValidName(name) {
		return 0, ErrInvalidName
	}
	counter := &countingReader{Reader: reader}
	uploader := s3manager.NewUploaderWithClient(s.s3Client)
	input := s3manager.UploadInput{
		Bucket: aws.String(s.Bucket.Name),
		Key:    aws.String(s.Bucket.GetRemotePath(name)),
		Body:   counter,
	}
	if mimeType := mime.TypeByExtension(filepath.Ext(name)); mimeType != "" {
		input.ContentType = aws.String(mimeType)
	}
	_, err := uploader.Upload(&input)
	return counter.n, err
}

func (s *S3Storage) Load(name string, writer io.Writer) (int64, error) {
	if !ValidName(name) {
		return 0, ErrInvalidName
	}
	resp, err := s.s3Client.GetObject(&s3.GetObjectInput{
		Bucket: aws.String(s.Bucket.Name),
		Key:    aws.String(s.Bucket.GetRemotePath(name)),
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()
	return io.Copy(writer, resp.Body)
}

// Serve redirects to a short lived pre-signed URL
func (s *S3Storage) Serve(name string, request *http.Request, writer http.ResponseWriter) {
	if !ValidName(name) {
		http.NotFound(writer, request)
		return
	}
	url, err := s.Bucket.CreateS3DownloadURI(s.s3Client, name, presignViewURLFor)
	if err != nil {
		zap.L().Error("cannot presign S3 URL", zap.String("file", name), zap.Error(err))
		http.Error(writer, "storage error", http.StatusInternalServerError)
		return
	}
	http.Redirect(writer, request, url, http.StatusFound)
}

func (s *S3Storage) Delete(name string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	_, err := s.s3Client.DeleteObject(&s3.DeleteObjectInput{
		Bucket: aws.String(s.Bucket.Name),
		Key:    aws.String(s.Bucket.GetRemotePath(name)),
	})
	return err
}

func (s *S3Storage) Exists(name string) bool {
	if !ValidName(name) {
		return false
	}
	_, err := s.s3Client.HeadObject(&s3.HeadObjectInput{
		Bucket: aws.String(s.Bucket.Name),
		Key:    aws.String(s.Bucket.GetRemotePath(name)),
	})
	return err == nil
}

func (s *S3Storage) List() ([]string, error) {
	prefix := s.Bucket.GetRemotePath("")
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	result := []string{}
	err := s.s3Client.ListObjectsV2Pages(&s3.ListObjectsV2Input{
		Bucket: aws.String(s.Bucket.Name),
		Prefix: aws.String(prefix),
	}, func(page *s3.ListObjectsV2Output, lastPage bool) bool {
		for _, object := range page.Contents {
			name := strings.TrimPrefix(aws.StringValue(object.Key), prefix)
			if ValidName(name) {
				result = append(result, name)
			}
		}
		return true
	})
	sort.Strings(result)
	return result, err
}

// GetFreeSpace is unknown (unbounded) for S3
func (s *S3Storage) GetFreeSpace() uint64 {
	return 0
}

func (s *S3Storage) GetBucket() *Bucket {
	return &s.Bucket
}

type countingReader struct {
	io.Reader
	n int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.n += int64(n)
	return n, err
}
