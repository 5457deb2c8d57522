package publish

import (
	"context"
	"fmt"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync/atomic"

	"card-mirror/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// uploadConcurrency bounds simultaneous uploads.
const uploadConcurrency = 8

// File is one local artifact to publish.
type File struct {
	// Key is the slash-separated path relative to the cache root.
	Key  string
	Path string
	Size int64
}

// Report summarizes a publication run.
type Report struct {
	Uploaded int   `json:"uploaded"`
	Skipped  int   `json:"skipped"`
	Removed  int   `json:"removed"`
	Failed   int   `json:"failed"`
	Bytes    int64 `json:"bytes"`
}

// BucketReport lists the expected keys absent from the bucket.
type BucketReport struct {
	Bucket  string   `json:"bucket"`
	Exists  bool     `json:"exists"`
	Missing []string `json:"missing"`
}

// CollectFiles lists the regular files under root. Dot files and the paths in
// exclude are skipped.
func CollectFiles(root string, exclude ...string) ([]File, error) {
	skip := make(map[string]bool, len(exclude))
	for _, p := range exclude {
		if p != "" {
			skip[filepath.Clean(p)] = true
		}
	}

	var files []File
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || skip[filepath.Clean(path)] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		files = append(files, File{Key: filepath.ToSlash(rel), Path: path, Size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", root, err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Key < files[j].Key })
	return files, nil
}

// Publish uploads files whose object is missing or differs in size. With prune
// set, objects under the prefix with no local file are removed.
func Publish(ctx context.Context, client storage.Client, cfg storage.Config, files []File, prune bool, logger *zap.Logger) (*Report, error) {
	if err := ensureBucket(ctx, client, cfg, logger); err != nil {
		return nil, err
	}

	remote := make(map[string]int64)
	opts := minio.ListObjectsOptions{Recursive: true}
	if cfg.Prefix != "" {
		opts.Prefix = cfg.ObjectName("")
	}
	for obj := range client.ListObjects(ctx, cfg.Bucket, opts) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list bucket: %w", obj.Err)
		}
		remote[obj.Key] = obj.Size
	}

	var (
		report            Report
		uploaded, failed  atomic.Int64
		skipped, totalLen atomic.Int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)

	local := make(map[string]bool, len(files))
	for _, f := range files {
		name := cfg.ObjectName(f.Key)
		local[name] = true
		if size, ok := remote[name]; ok && size == f.Size {
			skipped.Add(1)
			continue
		}

		g.Go(func() error {
			if err := upload(gctx, client, cfg.Bucket, name, f); err != nil {
				failed.Add(1)
				logger.Warn("Upload failed", zap.String("object", name), zap.Error(err))
				return nil
			}
			uploaded.Add(1)
			totalLen.Add(f.Size)
			return nil
		})
	}
	_ = g.Wait()

	report.Uploaded = int(uploaded.Load())
	report.Skipped = int(skipped.Load())
	report.Failed = int(failed.Load())
	report.Bytes = totalLen.Load()

	if prune {
		removed, err := removeStale(ctx, client, cfg.Bucket, remote, local, logger)
		if err != nil {
			return &report, err
		}
		report.Removed = removed
	}

	logger.Info("Publication completed",
		zap.String("bucket", cfg.Bucket),
		zap.Int("uploaded", report.Uploaded),
		zap.Int("skipped", report.Skipped),
		zap.Int("removed", report.Removed),
		zap.Int("failed", report.Failed))
	return &report, nil
}

// CheckBucket reports which of keys have no object in the bucket.
func CheckBucket(ctx context.Context, client storage.Client, cfg storage.Config, keys []string) (*BucketReport, error) {
	report := &BucketReport{Bucket: cfg.Bucket, Missing: []string{}}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		report.Missing = append(report.Missing, keys...)
		return report, nil
	}
	report.Exists = true

	for _, key := range keys {
		name := cfg.ObjectName(key)
		found := false
		for obj := range client.ListObjects(ctx, cfg.Bucket, minio.ListObjectsOptions{Prefix: name, MaxKeys: 1}) {
			if obj.Err == nil && obj.Key == name {
				found = true
			}
		}
		if !found {
			report.Missing = append(report.Missing, key)
		}
	}
	return report, nil
}

func ensureBucket(ctx context.Context, client storage.Client, cfg storage.Config, logger *zap.Logger) error {
	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if exists {
		return nil
	}
	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
	}
	logger.Info("Created bucket", zap.String("bucket", cfg.Bucket))
	return nil
}

func upload(ctx context.Context, client storage.Client, bucket, name string, f File) error {
	file, err := os.Open(f.Path)
	if err != nil {
		return err
	}
	defer file.Close()

	contentType := mime.TypeByExtension(filepath.Ext(f.Path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	_, err = client.PutObject(ctx, bucket, name, file, f.Size, minio.PutObjectOptions{ContentType: contentType})
	return err
}

func removeStale(ctx context.Context, client storage.Client, bucket string, remote map[string]int64, local map[string]bool, logger *zap.Logger) (int, error) {
	var stale []string
	for name := range remote {
		if !local[name] {
			stale = append(stale, name)
		}
	}
	if len(stale) == 0 {
		return 0, nil
	}
	sort.Strings(stale)

	objects := make(chan minio.ObjectInfo, len(stale))
	for _, name := range stale {
		objects <- minio.ObjectInfo{Key: name}
	}
	close(objects)

	failed := 0
	for rerr := range client.RemoveObjects(ctx, bucket, objects, minio.RemoveObjectsOptions{}) {
		failed++
		logger.Warn("Failed to remove stale object", zap.String("object", rerr.ObjectName), zap.Error(rerr.Err))
	}
	if failed > 0 {
		return len(stale) - failed, fmt.Errorf("failed to remove %d stale objects", failed)
	}
	return len(stale), nil
}
