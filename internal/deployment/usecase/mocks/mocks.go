// Package mocks provides testify mocks for the deployment use case interfaces.
package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	deploymentDomain "github.com/allisson/securevault/internal/deployment/domain"
)

// TestingT is the subset of *testing.T the constructors need.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockRecordRepository mocks usecase.RecordRepository.
type MockRecordRepository struct {
	mock.Mock
}

// NewMockRecordRepository creates a mock that asserts its expectations on cleanup.
func NewMockRecordRepository(t TestingT) *MockRecordRepository {
	m := &MockRecordRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockRecordRepository) Save(path string, record *deploymentDomain.DeploymentRecord) error {
	args := m.Called(path, record)
	return args.Error(0)
}

func (m *MockRecordRepository) Remove(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

// MockDeployUseCase mocks usecase.DeployUseCase.
type MockDeployUseCase struct {
	mock.Mock
}

// NewMockDeployUseCase creates a mock that asserts its expectations on cleanup.
func NewMockDeployUseCase(t TestingT) *MockDeployUseCase {
	m := &MockDeployUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockDeployUseCase) Deploy(
	ctx context.Context,
	input *deploymentDomain.DeployInput,
) (*deploymentDomain.DeployOutput, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*deploymentDomain.DeployOutput), args.Error(1)
}
