// internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/openfiscal/refi-cost-service/internal/domain/entity"
	"github.com/stretchr/testify/mock"
)

// MockObservationRepository mocks the ObservationRepository interface
type MockObservationRepository struct {
	mock.Mock
}

func (m *MockObservationRepository) FindAsOf(ctx context.Context, seriesID string, date time.Time) (*entity.Observation, error) {
	args := m.Called(ctx, seriesID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Observation), args.Error(1)
}

func (m *MockObservationRepository) FindLatest(ctx context.Context, seriesID string) (*entity.Observation, error) {
	args := m.Called(ctx, seriesID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Observation), args.Error(1)
}

// MockObservationProvider mocks the remote observation provider interface
type MockObservationProvider struct {
	mock.Mock
}

func (m *MockObservationProvider) FetchObservations(ctx context.Context, seriesID string, start, end time.Time) ([]entity.Observation, error) {
	args := m.Called(ctx, seriesID, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Observation), args.Error(1)
}

func (m *MockObservationProvider) FetchRecentObservations(ctx context.Context, seriesID string, limit int) ([]entity.Observation, error) {
	args := m.Called(ctx, seriesID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Observation), args.Error(1)
}

// MockObservationCache mocks the observation cache interface
type MockObservationCache struct {
	mock.Mock
}

func (m *MockObservationCache) Get(key string) (*entity.Observation, bool) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*entity.Observation), args.Bool(1)
}

func (m *MockObservationCache) Set(key string, obs *entity.Observation, ttl time.Duration) error {
	args := m.Called(key, obs, ttl)
	return args.Error(0)
}

func (m *MockObservationCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockLogger mocks the logger interface
type MockLogger struct {
	mock.Mock
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Info(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Warn(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Error(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) Fatal(msg string, fields map[string]interface{}) {
	m.Called(msg, fields)
}

func (m *MockLogger) WithField(key string, value interface{}) interface{} {
	args := m.Called(key, value)
	return args.Get(0)
}

func (m *MockLogger) WithFields(fields map[string]interface{}) interface{} {
	args := m.Called(fields)
	return args.Get(0)
}
