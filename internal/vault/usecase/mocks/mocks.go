// Package mocks provides testify mocks for the vault use case interfaces.
package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	authorizationDomain "github.com/allisson/securevault/internal/authorization/domain"
	outboxDomain "github.com/allisson/securevault/internal/outbox/domain"
	vaultDomain "github.com/allisson/securevault/internal/vault/domain"
)

// TestingT is the subset of *testing.T the constructors need.
type TestingT interface {
	mock.TestingT
	Cleanup(func())
}

func register(t TestingT, m interface {
	Test(mock.TestingT)
	AssertExpectations(mock.TestingT) bool
}) {
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
}

// MockVaultRepository mocks usecase.VaultRepository.
type MockVaultRepository struct {
	mock.Mock
}

// NewMockVaultRepository creates a mock that asserts its expectations on cleanup.
func NewMockVaultRepository(t TestingT) *MockVaultRepository {
	m := &MockVaultRepository{}
	register(t, m)
	return m
}

func (m *MockVaultRepository) Create(ctx context.Context, vault *vaultDomain.Vault) error {
	args := m.Called(ctx, vault)
	return args.Error(0)
}

func (m *MockVaultRepository) Get(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error) {
	args := m.Called(ctx, vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Vault), args.Error(1)
}

func (m *MockVaultRepository) GetForUpdate(ctx context.Context, vaultID uuid.UUID) (*vaultDomain.Vault, error) {
	args := m.Called(ctx, vaultID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Vault), args.Error(1)
}

func (m *MockVaultRepository) Update(ctx context.Context, vault *vaultDomain.Vault) error {
	args := m.Called(ctx, vault)
	return args.Error(0)
}

// MockTransferRepository mocks usecase.TransferRepository.
type MockTransferRepository struct {
	mock.Mock
}

// NewMockTransferRepository creates a mock that asserts its expectations on cleanup.
func NewMockTransferRepository(t TestingT) *MockTransferRepository {
	m := &MockTransferRepository{}
	register(t, m)
	return m
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *vaultDomain.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) ListByVault(
	ctx context.Context,
	vaultID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Transfer, error) {
	args := m.Called(ctx, vaultID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Transfer), args.Error(1)
}

// MockOutboxEventRepository mocks usecase.OutboxEventRepository.
type MockOutboxEventRepository struct {
	mock.Mock
}

// NewMockOutboxEventRepository creates a mock that asserts its expectations on cleanup.
func NewMockOutboxEventRepository(t TestingT) *MockOutboxEventRepository {
	m := &MockOutboxEventRepository{}
	register(t, m)
	return m
}

func (m *MockOutboxEventRepository) Create(ctx context.Context, event *outboxDomain.OutboxEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockAuthorizationManager mocks usecase.AuthorizationManager.
type MockAuthorizationManager struct {
	mock.Mock
}

// NewMockAuthorizationManager creates a mock that asserts its expectations on cleanup.
func NewMockAuthorizationManager(t TestingT) *MockAuthorizationManager {
	m := &MockAuthorizationManager{}
	register(t, m)
	return m
}

func (m *MockAuthorizationManager) GetManager(
	ctx context.Context,
	managerID uuid.UUID,
) (*authorizationDomain.AuthorizationManager, error) {
	args := m.Called(ctx, managerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authorizationDomain.AuthorizationManager), args.Error(1)
}

func (m *MockAuthorizationManager) VerifyAuthorization(
	ctx context.Context,
	managerID uuid.UUID,
	claim *authorizationDomain.Claim,
) error {
	args := m.Called(ctx, managerID, claim)
	return args.Error(0)
}

// MockPayoutGateway mocks service.PayoutGateway.
type MockPayoutGateway struct {
	mock.Mock
}

// NewMockPayoutGateway creates a mock that asserts its expectations on cleanup.
func NewMockPayoutGateway(t TestingT) *MockPayoutGateway {
	m := &MockPayoutGateway{}
	register(t, m)
	return m
}

func (m *MockPayoutGateway) Transfer(ctx context.Context, transfer *vaultDomain.Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

// MockVaultUseCase mocks usecase.VaultUseCase.
type MockVaultUseCase struct {
	mock.Mock
}

// NewMockVaultUseCase creates a mock that asserts its expectations on cleanup.
func NewMockVaultUseCase(t TestingT) *MockVaultUseCase {
	m := &MockVaultUseCase{}
	register(t, m)
	return m
}

func (m *MockVaultUseCase) Create(ctx context.Context) (*vaultDomain.CreateVaultOutput, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.CreateVaultOutput), args.Error(1)
}

func (m *MockVaultUseCase) Initialize(
	ctx context.Context,
	vaultID uuid.UUID,
	adminSecret string,
	managerID uuid.UUID,
) error {
	args := m.Called(ctx, vaultID, adminSecret, managerID)
	return args.Error(0)
}

func (m *MockVaultUseCase) Deposit(
	ctx context.Context,
	vaultID uuid.UUID,
	input *vaultDomain.DepositInput,
) (*vaultDomain.Transfer, error) {
	args := m.Called(ctx, vaultID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Transfer), args.Error(1)
}

func (m *MockVaultUseCase) Withdraw(
	ctx context.Context,
	vaultID uuid.UUID,
	input *vaultDomain.WithdrawInput,
) (*vaultDomain.Transfer, error) {
	args := m.Called(ctx, vaultID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Transfer), args.Error(1)
}

func (m *MockVaultUseCase) GetBalance(ctx context.Context, vaultID uuid.UUID) (uint64, error) {
	args := m.Called(ctx, vaultID)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockVaultUseCase) ListTransfers(
	ctx context.Context,
	vaultID uuid.UUID,
	offset, limit int,
) ([]*vaultDomain.Transfer, error) {
	args := m.Called(ctx, vaultID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Transfer), args.Error(1)
}
