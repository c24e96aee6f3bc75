package store

import (
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/verdantlab/verdant/internal/contract"
	"github.com/verdantlab/verdant/schema"
)

// MockStore is a mock implementation of Store for testing.
type MockStore struct {
	mock.Mock
}

var _ contract.Store = &MockStore{} // Compile-time check

// GetRecord implements the Store interface.
func (m *MockStore) GetRecord(key string) ([]byte, int64, error) {
	args := m.Called(key)
	value, _ := args.Get(0).([]byte)
	return value, args.Get(1).(int64), args.Error(2)
}

// SetRecord implements the Store interface.
func (m *MockStore) SetRecord(key string, value []byte, timestamp int64) error {
	args := m.Called(key, value, timestamp)
	return args.Error(0)
}

// BeginRun implements the Store interface.
func (m *MockStore) BeginRun(startTime time.Time, runner schema.RunnerKind, workers, batchSize int, outputPath string) (int64, error) {
	args := m.Called(startTime, runner, workers, batchSize, outputPath)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the Store interface.
func (m *MockStore) EndRun(runID int64, endTime time.Time, total, succeeded, failed int) error {
	args := m.Called(runID, endTime, total, succeeded, failed)
	return args.Error(0)
}

// GetAllRuns implements the Store interface.
func (m *MockStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// GetStatus implements the Store interface.
func (m *MockStore) GetStatus() (schema.StoreStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Clear implements the Store interface.
func (m *MockStore) Clear() error {
	args := m.Called()
	return args.Error(0)
}

// Close implements the Store interface.
func (m *MockStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetStore implements the StoreManager interface.
func (m *MockStoreManager) GetStore() contract.Store {
	ret := m.Called()
	st, _ := ret.Get(0).(contract.Store)
	return st
}
