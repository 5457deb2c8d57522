// Package storage wraps the MinIO client used to publish mirrored artifacts.
//
// The Client interface covers the handful of bucket operations publication
// needs and is satisfied by *minio.Client directly, which keeps it easy to mock
// (see core/storage/mocks). It works against AWS S3 and self-hosted MinIO.
//
//	client, err := storage.NewClient(cfg.Storage)
//	exists, err := client.BucketExists(ctx, cfg.Storage.Bucket)
package storage
