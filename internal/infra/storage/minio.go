package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Archiver keeps off-process JSON copies of processed records in an
// S3-compatible bucket. Implements records.Archiver.
type Archiver struct {
	client     *minio.Client
	bucketName string
	region     string
}

// New connects to MinIO and makes sure the bucket exists.
func New(ctx context.Context, endpoint, region, bucket, accessKey, secretKey string, useSSL bool) (*Archiver, error) {
	cli, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
		Region: region,
	})
	if err != nil {
		return nil, err
	}

	exists, err := cli.BucketExists(ctx, bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := cli.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: region}); err != nil {
			return nil, err
		}
	}

	return &Archiver{client: cli, bucketName: bucket, region: region}, nil
}

// Archive uploads a record payload under the given key and returns its URL.
func (a *Archiver) Archive(ctx context.Context, key string, data []byte) (string, error) {
	_, err := a.client.PutObject(ctx, a.bucketName, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return "", err
	}

	// public URL when the bucket is public; private buckets need presigning
	url := fmt.Sprintf("http://%s/%s/%s", a.client.EndpointURL().Host, a.bucketName, key)
	return url, nil
}
