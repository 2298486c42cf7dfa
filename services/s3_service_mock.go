package services

import (
	"fmt"
	"sync"
)

// MockS3Service is a mock implementation of S3Interface for testing.
// Keys are seeded directly instead of uploaded; presigning returns a
// deterministic URL.
type MockS3Service struct {
	knownKeys map[string]bool
	mu        sync.RWMutex
}

// NewMockS3Service creates a new mock S3 service
func NewMockS3Service() *MockS3Service {
	return &MockS3Service{
		knownKeys: make(map[string]bool),
	}
}

// SetAsMockForTesting sets this mock as the global S3 service instance for testing
func (m *MockS3Service) SetAsMockForTesting() {
	SetS3Service(m)
}

// AddKey seeds an object key into the mock bucket
func (m *MockS3Service) AddKey(s3Key string) {
	m.mu.Lock()
	m.knownKeys[s3Key] = true
	m.mu.Unlock()
}

// GetPresignedURL simulates generating a presigned URL
func (m *MockS3Service) GetPresignedURL(s3Key string) (string, error) {
	if s3Key == "" {
		return "", nil
	}

	m.mu.RLock()
	exists := m.knownKeys[s3Key]
	m.mu.RUnlock()

	if !exists {
		return "", fmt.Errorf("object not found in mock S3: %s", s3Key)
	}

	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/%s?mock=true", s3Key), nil
}

// Clear removes all keys from mock storage
func (m *MockS3Service) Clear() {
	m.mu.Lock()
	m.knownKeys = make(map[string]bool)
	m.mu.Unlock()
}
