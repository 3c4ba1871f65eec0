package storage

import (
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

type StorageType uint8

const (
	StorageTypeFile StorageType = 0
	StorageTypeS3   StorageType = 1
)

// Bucket describes where uploaded images live
type Bucket struct {
	Name        string // S3 bucket name (unused for disk storage)
	StorageType StorageType
	Path        string // Path on a drive or a prefix in a S3 bucket
	Region      string
	Endpoint    string // Custom S3 endpoint, e.g. MinIO
	S3Key       string
	S3Secret    string
}

func (b *Bucket) IsS3() bool {
	return b.StorageType == StorageTypeS3
}

func (b *Bucket) String() string {
	if b.IsS3() {
		return "s3://" + b.Name + "/" + b.Path
	}
	return b.Path
}

// GetRemotePath returns the object key for a file name
func (b *Bucket) GetRemotePath(name string) string {
	return strings.TrimPrefix(path.Join(b.Path, name), "/")
}

func (b *Bucket) CreateSVC() *s3.S3 {
	cfg := aws.NewConfig().
		WithRegion(b.Region).
		WithCredentials(credentials.NewStaticCredentials(b.S3Key, b.S3Secret, ""))
	if b.Endpoint != "" {
		cfg = cfg.WithEndpoint(b.Endpoint).WithS3ForcePathStyle(true)
	}
	sess := session.Must(session.NewSession(cfg))
	return s3.New(sess)
}

func (b *Bucket) CreateS3DownloadURI(svc *s3.S3, name string, expiry time.Duration) (string, error) {
	req, _ := svc.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(b.Name),
		Key:    aws.String(b.GetRemotePath(name)),
	})
	return req.Presign(expiry)
}
