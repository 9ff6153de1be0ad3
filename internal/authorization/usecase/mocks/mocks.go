// Package mocks provides testify mocks for the authorization use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	outboxDomain "github.com/allisson/securevault/internal/outbox/domain"
)

// TestingT is the subset of *testing.T the constructors need.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

// MockManagerRepository mocks usecase.ManagerRepository.
type MockManagerRepository struct {
	mock.Mock
}

// NewMockManagerRepository creates a mock that asserts its expectations on cleanup.
func NewMockManagerRepository(t TestingT) *MockManagerRepository {
	m := &MockManagerRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockManagerRepository) Create(ctx context.Context, manager *authorizationDomain.AuthorizationManager) error {
	args := m.Called(ctx, manager)
	return args.Error(0)
}

func (m *MockManagerRepository) Get(
	ctx context.Context,
	managerID uuid.UUID,
) (*authorizationDomain.AuthorizationManager, error) {
	args := m.Called(ctx, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authorizationDomain.AuthorizationManager), args.Error(1)
}

// MockConsumptionRepository mocks usecase.ConsumptionRepository.
type MockConsumptionRepository struct {
	mock.Mock
}

// NewMockConsumptionRepository creates a mock that asserts its expectations on cleanup.
func NewMockConsumptionRepository(t TestingT) *MockConsumptionRepository {
	m := &MockConsumptionRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockConsumptionRepository) Consume(
	ctx context.Context,
	consumption *authorizationDomain.Consumption,
) error {
	args := m.Called(ctx, consumption)
	return args.Error(0)
}

func (m *MockConsumptionRepository) IsConsumed(
	ctx context.Context,
	managerID uuid.UUID,
	authID authorizationDomain.AuthID,
) (bool, error) {
	args := m.Called(ctx, managerID, authID)
	return args.Bool(0), args.Error(1)
}

// MockOutboxEventRepository mocks usecase.OutboxEventRepository.
type MockOutboxEventRepository struct {
	mock.Mock
}

// NewMockOutboxEventRepository creates a mock that asserts its expectations on cleanup.
func NewMockOutboxEventRepository(t TestingT) *MockOutboxEventRepository {
	m := &MockOutboxEventRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockOutboxEventRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockAuthorizationUseCase mocks usecase.AuthorizationUseCase.
type MockAuthorizationUseCase struct {
	mock.Mock
}

// NewMockAuthorizationUseCase creates a mock that asserts its expectations on cleanup.
func NewMockAuthorizationUseCase(t TestingT) *MockAuthorizationUseCase {
	m := &MockAuthorizationUseCase{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *MockAuthorizationUseCase) CreateManager(
	ctx context.Context,
	input *authorizationDomain.CreateManagerInput,
) (*authorizationDomain.AuthorizationManager, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authorizationDomain.AuthorizationManager), args.Error(1)
}

func (m *MockAuthorizationUseCase) GetManager(
	ctx context.Context,
	managerID uuid.UUID,
) (*authorizationDomain.AuthorizationManager, error) {
	args := m.Called(ctx, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authorizationDomain.AuthorizationManager), args.Error(1)
}

func (m *MockAuthorizationUseCase) VerifyAuthorization(
	ctx context.Context,
	managerID uuid.UUID,
	claim *authorizationDomain.Claim,
) error {
	args := m.Called(ctx, managerID, claim)
	return args.Error(0)
}

func (m *MockAuthorizationUseCase) IsAuthorizationConsumed(
	ctx context.Context,
	managerID uuid.UUID,
	authID authorizationDomain.AuthID,
) (bool, error) {
	args := m.Called(ctx, managerID, authID)
	return args.Bool(0), args.Error(1)
}
