package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Prefix for product image object keys inside the bucket.
const productPrefix = "products/"

const region = "us-east-1"

var TTLSignedURL = 15 * time.Minute

// Images stores product images in a MinIO / S3 bucket. Product.Image holds the
// object key, never a full URL.
type Images struct {
	Client *minio.Client
	Bucket string
}

func NewImages(endpoint, accessKey, secretKey, bucket string, secure bool) (*Images, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: secure,
		Region: region, // presign tanpa round trip GetBucketLocation
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Images{Client: client, Bucket: bucket}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func (i *Images) EnsureBucket(ctx context.Context) error {
	ok, err := i.Client.BucketExists(ctx, i.Bucket)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return i.Client.MakeBucket(ctx, i.Bucket, minio.MakeBucketOptions{})
}

// Upload stores an image under products/ and returns its object key.
func (i *Images) Upload(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	key := ObjectKey(name)
	_, err := i.Client.PutObject(ctx, i.Bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return key, nil
}

// URL returns a presigned GET URL for key; "" for products without an image.
func (i *Images) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	u, err := i.Client.PresignedGetObject(ctx, i.Bucket, key, TTLSignedURL, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// ObjectKey normalises a file name into a key under products/.
func ObjectKey(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	if base == "." || base == "/" {
		base = "image"
	}
	return productPrefix + base
}
