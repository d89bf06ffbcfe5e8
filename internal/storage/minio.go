package storage

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"healthdocs/internal/config"
)

// User metadata keys as canonicalized by the S3 API.
const (
	metaFilename    = "Filename"
	metaCategory    = "Category"
	metaAccessLevel = "Access-Level"
	metaUploadedBy  = "Uploaded-By"
	metaDataUpload  = "Data-Upload"
)

// minioStore implements BlobStore against an S3-compatible backend (MinIO,
// AWS S3, etc.). It is safe for concurrent use by multiple goroutines.
type minioStore struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates a blob store backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (BlobStore, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStore{client: cli, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

func objectKey(id string) string {
	return "documents/" + id + ".pdf"
}

// Put stores the binary under a freshly generated id using streaming I/O only.
func (m *minioStore) Put(ctx context.Context, r io.Reader, size int64, filename string, meta DocumentMeta) (string, error) {
	id := uuid.NewString()

	putOpts := minio.PutObjectOptions{
		ContentType: "application/pdf",
		UserMetadata: map[string]string{
			metaFilename:    filename,
			metaCategory:    meta.Category,
			metaAccessLevel: strconv.Itoa(meta.AccessLevel),
			metaUploadedBy:  meta.UploadedBy,
			metaDataUpload:  meta.DataUpload.UTC().Format(time.RFC3339Nano),
		},
	}
	if _, err := m.client.PutObject(ctx, m.bucket, objectKey(id), r, size, putOpts); err != nil {
		return "", err
	}
	return id, nil
}

// Find downloads a binary as a ReadCloser along with its metadata record.
func (m *minioStore) Find(ctx context.Context, id string) (io.ReadCloser, FileInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, objectKey(id), minio.GetObjectOptions{})
	if err != nil {
		return nil, FileInfo{}, err
	}
	// GetObject is lazy; Stat surfaces NoSuchKey and yields metadata without
	// reading content into memory.
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, FileInfo{}, ErrObjectNotFound
		}
		return nil, FileInfo{}, err
	}

	info := FileInfo{
		ID:       id,
		Filename: st.UserMetadata[metaFilename],
		Size:     st.Size,
		Meta:     metaFromUserMetadata(st.UserMetadata),
	}
	return obj, info, nil
}

// Delete removes a binary by id.
func (m *minioStore) Delete(ctx context.Context, id string) error {
	return m.client.RemoveObject(ctx, m.bucket, objectKey(id), minio.RemoveObjectOptions{})
}

func metaFromUserMetadata(um map[string]string) DocumentMeta {
	level, _ := strconv.Atoi(um[metaAccessLevel])
	uploaded, _ := time.Parse(time.RFC3339Nano, um[metaDataUpload])
	return DocumentMeta{
		Category:    um[metaCategory],
		AccessLevel: level,
		UploadedBy:  um[metaUploadedBy],
		DataUpload:  uploaded,
	}
}
