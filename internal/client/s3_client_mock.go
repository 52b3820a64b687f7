package client

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"
)

// MockS3Client implements BlobStore in memory for tests and local runs
// without object storage
type MockS3Client struct {
	Bucket string

	UploadFileFunc    func(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFileFunc    func(ctx context.Context, key string) error
	PresignGetURLFunc func(ctx context.Context, key string, ttl time.Duration) (string, error)

	mu      sync.Mutex
	Objects map[string][]byte
	Deleted []string
}

// NewMockS3Client creates a new in-memory blob store
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket:  "test-bucket",
		Objects: make(map[string][]byte),
	}
}

func (m *MockS3Client) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, key, file, contentType)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	m.Objects[key] = data
	m.mu.Unlock()
	return m.GetFileURL(key), nil
}

func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	m.mu.Lock()
	m.Deleted = append(m.Deleted, key)
	m.mu.Unlock()
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}
	m.mu.Lock()
	delete(m.Objects, key)
	m.mu.Unlock()
	return nil
}

func (m *MockS3Client) GetFileURL(key string) string {
	return fmt.Sprintf("https://%s.local/%s", m.Bucket, key)
}

func (m *MockS3Client) PresignGetURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	if m.PresignGetURLFunc != nil {
		return m.PresignGetURLFunc(ctx, key, ttl)
	}
	return fmt.Sprintf("%s?expires=%d", m.GetFileURL(key), int(ttl.Seconds())), nil
}

// Has reports whether key is currently stored
func (m *MockS3Client) Has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.Objects[key]
	return ok
}
