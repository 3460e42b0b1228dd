package plugins

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"net/url"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gosimple/slug"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageUploader puts a local image somewhere public and returns its URL.
type ImageUploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

type S3Options struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	// Prefix of the URL objects are served from, e.g. https://cdn.example.com/images/.  Defaults
	// to the bucket on the endpoint.
	PublicURL string
	Insecure  bool
}

func (o S3Options) Configured() bool {
	return o.Endpoint != "" && o.Bucket != ""
}

// S3Uploader stores images in an S3 compatible bucket.
type S3Uploader struct {
	bucket    string
	publicURL string
	client    *minio.Client
}

func NewS3Uploader(opts S3Options) (*S3Uploader, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: !opts.Insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("devops: couldn't create S3 client for %s: %w", opts.Endpoint, err)
	}

	publicURL := opts.PublicURL
	if publicURL == "" {
		publicURL = client.EndpointURL().String() + "/" + opts.Bucket + "/"
	}

	return &S3Uploader{
		bucket:    opts.Bucket,
		publicURL: publicURL,
		client:    client,
	}, nil
}

func (u *S3Uploader) Upload(ctx context.Context, localPath string) (string, error) {
	key := objectKey(localPath)
	_, err := u.client.FPutObject(ctx, u.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: mime.TypeByExtension(filepath.Ext(key)),
	})
	if err != nil {
		return "", fmt.Errorf("devops: couldn't upload %s to bucket %s: %w", localPath, u.bucket, err)
	}
	return joinURL(u.publicURL, key), nil
}

// AzureCLIUploader stores images in the $web container of a storage account, using the az command
// line tool.
type AzureCLIUploader struct {
	Account string
	// URL the $web container is served from.
	BaseURL string
	// Defaults to "az".
	Command string
}

func (u AzureCLIUploader) Upload(ctx context.Context, localPath string) (string, error) {
	command := u.Command
	if command == "" {
		command = "az"
	}
	key := objectKey(localPath)

	cmd := exec.CommandContext(ctx, command, "storage", "blob", "upload",
		"--file", localPath,
		"--name", key,
		"-c", "$web",
		"--account-name", u.Account,
		"--overwrite")
	if _, err := cmd.Output(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("devops: az storage blob upload failed: %s: %w", strings.TrimSpace(string(exitErr.Stderr)), err)
		}
		return "", fmt.Errorf("devops: couldn't run %s: %w", command, err)
	}
	return joinURL(u.BaseURL, key), nil
}

// objectKey names the uploaded copy of a file: its slugged base name and lowercased extension.
func objectKey(localPath string) string {
	base := filepath.Base(localPath)
	ext := strings.ToLower(filepath.Ext(base))
	name := slug.Make(strings.TrimSuffix(base, filepath.Ext(base)))
	if name == "" {
		name = "image"
	}
	return name + ext
}

func joinURL(base string, key string) string {
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base + url.PathEscape(key)
}
