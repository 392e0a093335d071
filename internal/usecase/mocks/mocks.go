package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/rentledger/internal/domain"
	"github.com/iho/rentledger/internal/usecase"
)

// MockTransaction is a no-op transaction that counts commits.
type MockTransaction struct {
	mu        sync.Mutex
	release   func()
	released  bool
	Committed bool
}

func (t *MockTransaction) Commit(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.Committed = true
	t.doRelease()
	return nil
}

func (t *MockTransaction) Rollback(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.doRelease()
	return nil
}

func (t *MockTransaction) doRelease() {
	if t.release != nil && !t.released {
		t.released = true
		t.release()
	}
}

// MockTransactionManager hands out MockTransactions. With Serialize set,
// transactions take a shared lock from Begin until Commit/Rollback, which
// models the row-lock serialization the postgres repositories provide.
type MockTransactionManager struct {
	mu        sync.Mutex
	Serialize bool

	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewMockTransactionManager() *MockTransactionManager {
	return &MockTransactionManager{}
}

func (m *MockTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	tx := &MockTransaction{}
	if m.Serialize {
		m.mu.Lock()
		tx.release = m.mu.Unlock
	}
	return tx, nil
}

// MockIDGenerator returns sequential IDs unless overridden.
type MockIDGenerator struct {
	mu   sync.Mutex
	next int

	GenerateFunc func() string
}

func NewMockIDGenerator() *MockIDGenerator {
	return &MockIDGenerator{}
}

func (m *MockIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	return fmt.Sprintf("id-%d", m.next)
}

// MockDepositRepository is an in-memory DepositRepository.
type MockDepositRepository struct {
	mu       sync.RWMutex
	deposits map[string]*domain.DepositBalance

	CreateFunc                func(ctx context.Context, tx usecase.Transaction, deposit *domain.DepositBalance) error
	GetByIDFunc               func(ctx context.Context, id string) (*domain.DepositBalance, error)
	GetByIDForUpdateFunc      func(ctx context.Context, tx usecase.Transaction, id string) (*domain.DepositBalance, error)
	GetByTenantFunc           func(ctx context.Context, tenantID string) (*domain.DepositBalance, error)
	GetByPropertyFunc         func(ctx context.Context, propertyID string) (*domain.DepositBalance, error)
	GetByTenancyForUpdateFunc func(ctx context.Context, tx usecase.Transaction, tenantID, propertyID string) (*domain.DepositBalance, error)
	ApplySettlementFunc       func(ctx context.Context, tx usecase.Transaction, id string, deductions, refundable decimal.Decimal, updatedAt time.Time) error
	UpdateStatusFunc          func(ctx context.Context, tx usecase.Transaction, id string, status domain.DepositStatus, updatedAt time.Time) error
	DeleteFunc                func(ctx context.Context, tx usecase.Transaction, id string) error
	ListFunc                  func(ctx context.Context, limit, offset int) ([]*domain.DepositBalance, error)
}

func NewMockDepositRepository() *MockDepositRepository {
	return &MockDepositRepository{deposits: make(map[string]*domain.DepositBalance)}
}

// copyDeposit returns a shallow copy so callers never share the stored row.
func copyDeposit(d *domain.DepositBalance) *domain.DepositBalance {
	c := *d
	return &c
}

// Seed inserts a deposit bypassing conflict checks.
func (m *MockDepositRepository) Seed(deposit *domain.DepositBalance) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deposits[deposit.ID] = deposit
}

func (m *MockDepositRepository) Create(ctx context.Context, tx usecase.Transaction, deposit *domain.DepositBalance) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, deposit)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.deposits {
		if existing.TenantID == deposit.TenantID && existing.PropertyID == deposit.PropertyID {
			return domain.ErrDepositExists
		}
	}
	m.deposits[deposit.ID] = deposit
	return nil
}

func (m *MockDepositRepository) GetByID(ctx context.Context, id string) (*domain.DepositBalance, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.deposits[id]; ok {
		return copyDeposit(d), nil
	}
	return nil, domain.ErrDepositNotFound
}

func (m *MockDepositRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.DepositBalance, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockDepositRepository) GetByTenant(ctx context.Context, tenantID string) (*domain.DepositBalance, error) {
	if m.GetByTenantFunc != nil {
		return m.GetByTenantFunc(ctx, tenantID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.deposits {
		if d.TenantID == tenantID {
			return copyDeposit(d), nil
		}
	}
	return nil, domain.ErrDepositNotFound
}

func (m *MockDepositRepository) GetByProperty(ctx context.Context, propertyID string) (*domain.DepositBalance, error) {
	if m.GetByPropertyFunc != nil {
		return m.GetByPropertyFunc(ctx, propertyID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.deposits {
		if d.PropertyID == propertyID {
			return copyDeposit(d), nil
		}
	}
	return nil, domain.ErrDepositNotFound
}

func (m *MockDepositRepository) GetByTenancyForUpdate(ctx context.Context, tx usecase.Transaction, tenantID, propertyID string) (*domain.DepositBalance, error) {
	if m.GetByTenancyForUpdateFunc != nil {
		return m.GetByTenancyForUpdateFunc(ctx, tx, tenantID, propertyID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, d := range m.deposits {
		if d.TenantID == tenantID && d.PropertyID == propertyID {
			return copyDeposit(d), nil
		}
	}
	return nil, domain.ErrDepositNotFound
}

func (m *MockDepositRepository) ApplySettlement(ctx context.Context, tx usecase.Transaction, id string, deductions, refundable decimal.Decimal, updatedAt time.Time) error {
	if m.ApplySettlementFunc != nil {
		return m.ApplySettlementFunc(ctx, tx, id, deductions, refundable, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deposits[id]
	if !ok {
		return domain.ErrDepositNotFound
	}
	d.Deductions = deductions
	d.RefundableAmount = refundable
	d.UpdatedAt = updatedAt
	return nil
}

func (m *MockDepositRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.DepositStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deposits[id]
	if !ok {
		return domain.ErrDepositNotFound
	}
	d.Status = status
	d.UpdatedAt = updatedAt
	return nil
}

func (m *MockDepositRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.deposits[id]; !ok {
		return domain.ErrDepositNotFound
	}
	delete(m.deposits, id)
	return nil
}

func (m *MockDepositRepository) List(ctx context.Context, limit, offset int) ([]*domain.DepositBalance, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, limit, offset)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	deposits := make([]*domain.DepositBalance, 0, len(m.deposits))
	for _, d := range m.deposits {
		deposits = append(deposits, copyDeposit(d))
	}
	return deposits, nil
}

// MockInspectionRepository is an in-memory InspectionRepository.
type MockInspectionRepository struct {
	mu          sync.RWMutex
	inspections map[string]*domain.MoveOutInspection

	CreateFunc                func(ctx context.Context, tx usecase.Transaction, inspection *domain.MoveOutInspection) error
	GetByIDFunc               func(ctx context.Context, id string) (*domain.MoveOutInspection, error)
	GetByIDForUpdateFunc      func(ctx context.Context, tx usecase.Transaction, id string) (*domain.MoveOutInspection, error)
	GetByDepositFunc          func(ctx context.Context, depositID string) (*domain.MoveOutInspection, error)
	GetByDepositForUpdateFunc func(ctx context.Context, tx usecase.Transaction, depositID string) (*domain.MoveOutInspection, error)
	CompleteFunc              func(ctx context.Context, tx usecase.Transaction, id string, total, refundable decimal.Decimal, completedAt time.Time) error
	UpdateStatusFunc          func(ctx context.Context, tx usecase.Transaction, id string, status domain.InspectionStatus, updatedAt time.Time) error
}

func NewMockInspectionRepository() *MockInspectionRepository {
	return &MockInspectionRepository{inspections: make(map[string]*domain.MoveOutInspection)}
}

func copyInspection(i *domain.MoveOutInspection) *domain.MoveOutInspection {
	c := *i
	return &c
}

func (m *MockInspectionRepository) Seed(inspection *domain.MoveOutInspection) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inspections[inspection.ID] = inspection
}

func (m *MockInspectionRepository) Create(ctx context.Context, tx usecase.Transaction, inspection *domain.MoveOutInspection) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tx, inspection)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.inspections {
		if existing.DepositID == inspection.DepositID {
			return domain.ErrInspectionExists
		}
	}
	m.inspections[inspection.ID] = inspection
	return nil
}

func (m *MockInspectionRepository) GetByID(ctx context.Context, id string) (*domain.MoveOutInspection, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i, ok := m.inspections[id]; ok {
		return copyInspection(i), nil
	}
	return nil, domain.ErrInspectionNotFound
}

func (m *MockInspectionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.MoveOutInspection, error) {
	if m.GetByIDForUpdateFunc != nil {
		return m.GetByIDForUpdateFunc(ctx, tx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *MockInspectionRepository) GetByDeposit(ctx context.Context, depositID string) (*domain.MoveOutInspection, error) {
	if m.GetByDepositFunc != nil {
		return m.GetByDepositFunc(ctx, depositID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, i := range m.inspections {
		if i.DepositID == depositID {
			return copyInspection(i), nil
		}
	}
	return nil, domain.ErrInspectionNotFound
}

func (m *MockInspectionRepository) GetByDepositForUpdate(ctx context.Context, tx usecase.Transaction, depositID string) (*domain.MoveOutInspection, error) {
	if m.GetByDepositForUpdateFunc != nil {
		return m.GetByDepositForUpdateFunc(ctx, tx, depositID)
	}
	return m.GetByDeposit(ctx, depositID)
}

func (m *MockInspectionRepository) UpdateChecklistItem(ctx context.Context, tx usecase.Transaction, id, item string, condition domain.Condition, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.inspections[id]
	if !ok {
		return domain.ErrInspectionNotFound
	}
	if i.Checklist == nil {
		i.Checklist = map[string]domain.Condition{}
	}
	i.Checklist[item] = condition
	i.UpdatedAt = updatedAt
	return nil
}

func (m *MockInspectionRepository) UpdateNotes(ctx context.Context, tx usecase.Transaction, id, notes string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.inspections[id]
	if !ok {
		return domain.ErrInspectionNotFound
	}
	i.Notes = notes
	i.UpdatedAt = updatedAt
	return nil
}

func (m *MockInspectionRepository) AddPhotos(ctx context.Context, tx usecase.Transaction, id string, photos []string, updatedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.inspections[id]
	if !ok {
		return domain.ErrInspectionNotFound
	}
	i.Photos = append(i.Photos, photos...)
	i.UpdatedAt = updatedAt
	return nil
}

func (m *MockInspectionRepository) Complete(ctx context.Context, tx usecase.Transaction, id string, total, refundable decimal.Decimal, completedAt time.Time) error {
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, tx, id, total, refundable, completedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.inspections[id]
	if !ok {
		return domain.ErrInspectionNotFound
	}
	i.Status = domain.InspectionStatusCompleted
	i.TotalDeductions = total
	i.RefundableAmount = refundable
	i.UpdatedAt = completedAt
	return nil
}

func (m *MockInspectionRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, id string, status domain.InspectionStatus, updatedAt time.Time) error {
	if m.UpdateStatusFunc != nil {
		return m.UpdateStatusFunc(ctx, tx, id, status, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	i, ok := m.inspections[id]
	if !ok {
		return domain.ErrInspectionNotFound
	}
	i.Status = status
	i.UpdatedAt = updatedAt
	return nil
}

// MockDeductionRepository is an in-memory DeductionRepository.
type MockDeductionRepository struct {
	mu         sync.RWMutex
	deductions map[string]*domain.DeductionItem

	SumByInspectionFunc func(ctx context.Context, tx usecase.Transaction, inspectionID string) (decimal.Decimal, error)
	MarkDisputedFunc    func(ctx context.Context, tx usecase.Transaction, id, reason string, updatedAt time.Time) error

	SumCalls int
}

func NewMockDeductionRepository() *MockDeductionRepository {
	return &MockDeductionRepository{deductions: make(map[string]*domain.DeductionItem)}
}

func (m *MockDeductionRepository) Seed(deduction *domain.DeductionItem) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deductions[deduction.ID] = deduction
}

func (m *MockDeductionRepository) Create(ctx context.Context, tx usecase.Transaction, deduction *domain.DeductionItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deductions[deduction.ID] = deduction
	return nil
}

func (m *MockDeductionRepository) GetByID(ctx context.Context, id string) (*domain.DeductionItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if d, ok := m.deductions[id]; ok {
		c := *d
		return &c, nil
	}
	return nil, domain.ErrDeductionNotFound
}

func (m *MockDeductionRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.DeductionItem, error) {
	return m.GetByID(ctx, id)
}

func (m *MockDeductionRepository) Delete(ctx context.Context, tx usecase.Transaction, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.deductions[id]; !ok {
		return domain.ErrDeductionNotFound
	}
	delete(m.deductions, id)
	return nil
}

func (m *MockDeductionRepository) ListByInspection(ctx context.Context, inspectionID string) ([]*domain.DeductionItem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	items := make([]*domain.DeductionItem, 0)
	for _, d := range m.deductions {
		if d.InspectionID == inspectionID {
			items = append(items, d)
		}
	}
	return items, nil
}

func (m *MockDeductionRepository) SumByInspection(ctx context.Context, tx usecase.Transaction, inspectionID string) (decimal.Decimal, error) {
	if m.SumByInspectionFunc != nil {
		return m.SumByInspectionFunc(ctx, tx, inspectionID)
	}
	m.mu.Lock()
	m.SumCalls++
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()
	total := decimal.Zero
	for _, d := range m.deductions {
		if d.InspectionID == inspectionID {
			total = total.Add(d.Cost)
		}
	}
	return total, nil
}

func (m *MockDeductionRepository) MarkDisputed(ctx context.Context, tx usecase.Transaction, id, reason string, updatedAt time.Time) error {
	if m.MarkDisputedFunc != nil {
		return m.MarkDisputedFunc(ctx, tx, id, reason, updatedAt)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.deductions[id]
	if !ok {
		return domain.ErrDeductionNotFound
	}
	if d.Disputed {
		return domain.ErrAlreadyDisputed
	}
	d.Disputed = true
	d.DisputeReason = &reason
	d.UpdatedAt = updatedAt
	return nil
}

// MockOutboxRepository records events in memory.
type MockOutboxRepository struct {
	mu     sync.Mutex
	Events []*domain.OutboxEvent
}

func NewMockOutboxRepository() *MockOutboxRepository {
	return &MockOutboxRepository{}
}

func (m *MockOutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
	return nil
}

func (m *MockOutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	unpublished := make([]*domain.OutboxEvent, 0)
	for _, e := range m.Events {
		if !e.Published {
			unpublished = append(unpublished, e)
			if len(unpublished) == limit {
				break
			}
		}
	}
	return unpublished, nil
}

func (m *MockOutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Events {
		if e.ID == id {
			e.Published = true
			e.PublishedAt = &publishedAt
			return nil
		}
	}
	return nil
}

func (m *MockOutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.Events[:0]
	for _, e := range m.Events {
		if !e.Published || e.PublishedAt == nil || !e.PublishedAt.Before(before) {
			kept = append(kept, e)
		}
	}
	m.Events = kept
	return nil
}

// EventTypes returns the recorded event types in order.
func (m *MockOutboxRepository) EventTypes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.Events))
	for i, e := range m.Events {
		types[i] = e.EventType
	}
	return types
}

// MockAuditRepository records audit logs in memory.
type MockAuditRepository struct {
	mu   sync.Mutex
	Logs []*domain.AuditLog
}

func NewMockAuditRepository() *MockAuditRepository {
	return &MockAuditRepository{}
}

func (m *MockAuditRepository) Create(ctx context.Context, log *domain.AuditLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, log)
	return nil
}

func (m *MockAuditRepository) CreateTx(ctx context.Context, tx usecase.Transaction, log *domain.AuditLog) error {
	return m.Create(ctx, log)
}

func (m *MockAuditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditLog, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*domain.AuditLog(nil), m.Logs...), nil
}

// MockLedgerRepository stubs the consistency scan.
type MockLedgerRepository struct {
	CheckConsistencyFunc func(ctx context.Context) (int64, int64, error)
}

func NewMockLedgerRepository() *MockLedgerRepository {
	return &MockLedgerRepository{}
}

func (m *MockLedgerRepository) CheckConsistency(ctx context.Context) (int64, int64, error) {
	if m.CheckConsistencyFunc != nil {
		return m.CheckConsistencyFunc(ctx)
	}
	return 0, 0, nil
}

// MockTenantDirectory serves monthly rents from a map.
type MockTenantDirectory struct {
	mu    sync.RWMutex
	rents map[string]decimal.Decimal

	MonthlyRentFunc func(ctx context.Context, tenantID string) (decimal.Decimal, error)
}

func NewMockTenantDirectory() *MockTenantDirectory {
	return &MockTenantDirectory{rents: make(map[string]decimal.Decimal)}
}

func (m *MockTenantDirectory) SetRent(tenantID string, rent decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rents[tenantID] = rent
}

func (m *MockTenantDirectory) MonthlyRent(ctx context.Context, tenantID string) (decimal.Decimal, error) {
	if m.MonthlyRentFunc != nil {
		return m.MonthlyRentFunc(ctx, tenantID)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if rent, ok := m.rents[tenantID]; ok {
		return rent, nil
	}
	return decimal.Zero, domain.ErrTenancyNotFound
}

// MockCache is an in-memory Cache.
type MockCache struct {
	mu      sync.RWMutex
	values  map[string][]byte
	GetErr  error
	SetErr  error
	GetHits int
}

func NewMockCache() *MockCache {
	return &MockCache{values: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		m.GetHits++
		return v, nil
	}
	return nil, fmt.Errorf("cache miss: %s", key)
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if m.SetErr != nil {
		return m.SetErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *MockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}
