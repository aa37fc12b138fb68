package reconciliation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"time"

	"order-sync/core/reconcile"
	"order-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"go.uber.org/zap"
)

// Archiver uploads run reports and cache snapshots to object storage.
type Archiver struct {
	client storage.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// NewArchiver creates an archiver writing under prefix in bucket.
func NewArchiver(client storage.Client, bucket, prefix string, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{client: client, bucket: bucket, prefix: prefix, logger: logger}
}

// EnsureBucket creates the bucket if it does not exist.
func (a *Archiver) EnsureBucket(ctx context.Context) error {
	exists, err := a.client.BucketExists(ctx, a.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", a.bucket, err)
	}
	if exists {
		return nil
	}
	if err := a.client.MakeBucket(ctx, a.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", a.bucket, err)
	}
	a.logger.Info("Created archive bucket", zap.String("bucket", a.bucket))
	return nil
}

// ReportKey is the object name of a run report.
func (a *Archiver) ReportKey(runID string) string {
	return path.Join(a.prefix, "runs", runID+".json")
}

// CacheKey is the object name of the cache snapshot taken after a run.
func (a *Archiver) CacheKey(runID string) string {
	return path.Join(a.prefix, "cache", runID+".json")
}

type cacheSnapshot struct {
	RunID         string    `json:"runId"`
	TakenAt       time.Time `json:"takenAt"`
	ShippedOrders []string  `json:"shippedOrders"`
}

// Archive uploads the report and, when entries is not nil, the cache snapshot.
func (a *Archiver) Archive(ctx context.Context, report *reconcile.RunReport, entries []string) error {
	if err := a.put(ctx, a.ReportKey(report.ID), report); err != nil {
		return err
	}
	if entries == nil {
		return nil
	}
	return a.put(ctx, a.CacheKey(report.ID), cacheSnapshot{
		RunID:         report.ID,
		TakenAt:       report.FinishedAt.UTC(),
		ShippedOrders: entries,
	})
}

// Report downloads the archived report of a run.
func (a *Archiver) Report(ctx context.Context, runID string) ([]byte, error) {
	obj, err := a.client.GetObject(ctx, a.bucket, a.ReportKey(runID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get report %s: %w", runID, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("read report %s: %w", runID, err)
	}
	return data, nil
}

func (a *Archiver) put(ctx context.Context, key string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	_, err = a.client.PutObject(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	a.logger.Debug("Archived object", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}
