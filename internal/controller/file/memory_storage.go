package file

import (
	"context"
	"io"
	"strings"
	"sync"
)

// MemoryStorage keeps objects in a map. Tests use it in place of a bucket.
type MemoryStorage struct {
	mu        sync.Mutex
	Objects   map[string][]byte
	Calls     int
	UploadErr error
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{Objects: make(map[string][]byte)}
}

func (m *MemoryStorage) UploadFile(_ context.Context, objectName string, _ string, fileData io.Reader) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	if m.UploadErr != nil {
		return "", m.UploadErr
	}
	buf, err := io.ReadAll(fileData)
	if err != nil {
		return "", err
	}
	m.Objects[objectName] = buf
	return "https://storage.test/" + objectName, nil
}

func (m *MemoryStorage) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for name := range m.Objects {
		if strings.HasPrefix(name, prefix) {
			delete(m.Objects, name)
		}
	}
	return nil
}

// Count returns the number of stored objects under prefix.
func (m *MemoryStorage) Count(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for name := range m.Objects {
		if strings.HasPrefix(name, prefix) {
			n++
		}
	}
	return n
}
