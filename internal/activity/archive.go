package activity

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/zxrrcpandey/rahulops/internal/model"
	"github.com/zxrrcpandey/rahulops/internal/remote"
)

// Archive contains activities that copy backup archives to offsite S3
// compatible storage.
type Archive struct {
	dial           remote.Dialer
	defaultKeyPath string
	endpoint       string
	key            string
	secret         string
	bucket         string
}

// NewArchive creates a new Archive activity struct.
func NewArchive(dial remote.Dialer, defaultKeyPath, endpoint, key, secret, bucket string) *Archive {
	return &Archive{
		dial:           dial,
		defaultKeyPath: defaultKeyPath,
		endpoint:       endpoint,
		key:            key,
		secret:         secret,
		bucket:         bucket,
	}
}

// enabled reports whether offsite archiving is configured. Kept unexported:
// exported methods on a registered activity struct must follow the activity
// signature.
func (a *Archive) enabled() bool {
	return a.endpoint != "" && a.bucket != ""
}

func (a *Archive) s3Client() *s3.Client {
	return s3.New(s3.Options{
		BaseEndpoint: aws.String(a.endpoint),
		Region:       "us-east-1",
		Credentials:  credentials.NewStaticCredentialsProvider(a.key, a.secret, ""),
		UsePathStyle: true,
	})
}

// UploadBackupParams holds parameters for the UploadBackup activity.
type UploadBackupParams struct {
	Host        model.Host `json:"host"`
	BackupID    string     `json:"backup_id"`
	SiteName    string     `json:"site_name"`
	StoragePath string     `json:"storage_path"`
}

// UploadBackup pulls the archive from the host and puts it in the offsite
// bucket under <site>/<backup-id>/<filename>.
func (a *Archive) UploadBackup(ctx context.Context, params UploadBackupParams) (string, error) {
	if !a.enabled() {
		return "", nil
	}

	exec := a.dial(hostTarget(params.Host, a.defaultKeyPath))
	defer exec.Close()

	content, err := exec.Download(ctx, params.StoragePath)
	if err != nil {
		return "", fmt.Errorf("download archive from %s: %w", params.Host.Name, err)
	}

	key := path.Join(params.SiteName, params.BackupID, path.Base(params.StoragePath))
	_, err = a.s3Client().PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(content),
	})
	if err != nil {
		return "", fmt.Errorf("put archive %s: %w", key, err)
	}
	return "s3://" + a.bucket + "/" + key, nil
}
