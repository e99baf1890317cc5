package integration

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"swapmarket/internal/core/domain"
	"swapmarket/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// --- In-Memory User Repo ---

type inMemoryUserRepo struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*domain.User
}

func newInMemoryUserRepo() *inMemoryUserRepo {
	return &inMemoryUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *inMemoryUserRepo) Create(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Username == u.Username {
			return fmt.Errorf("username already exists")
		}
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *inMemoryUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *inMemoryUserRepo) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *inMemoryUserRepo) Update(ctx context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[u.ID]; !ok {
		return fmt.Errorf("user not found")
	}
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *inMemoryUserRepo) SetStatus(ctx context.Context, id uuid.UUID, status domain.UserStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.Status = status
	return nil
}

func (r *inMemoryUserRepo) SetKYCStatus(ctx context.Context, tx pgx.Tx, id uuid.UUID, status domain.KYCStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	u.KYCStatus = status
	return nil
}

func (r *inMemoryUserRepo) List(ctx context.Context, params ports.UserListParams) ([]domain.User, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.User
	for _, u := range r.users {
		if params.Status != nil && u.Status != *params.Status {
			continue
		}
		result = append(result, *u)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	total := int64(len(result))
	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.User{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// --- In-Memory Offer Repo ---

type inMemoryOfferRepo struct {
	mu     sync.RWMutex
	offers map[uuid.UUID]*domain.Offer
}

func newInMemoryOfferRepo() *inMemoryOfferRepo {
	return &inMemoryOfferRepo{offers: make(map[uuid.UUID]*domain.Offer)}
}

func (r *inMemoryOfferRepo) Create(ctx context.Context, o *domain.Offer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *o
	r.offers[o.ID] = &cp
	return nil
}

func (r *inMemoryOfferRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Offer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	o, ok := r.offers[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *inMemoryOfferRepo) List(ctx context.Context, params ports.OfferListParams) ([]domain.Offer, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Offer
	for _, o := range r.offers {
		if params.GiveCurrency != nil && o.GiveCurrency != *params.GiveCurrency {
			continue
		}
		if params.GetCurrency != nil && o.GetCurrency != *params.GetCurrency {
			continue
		}
		if params.UserID != nil && o.UserID != *params.UserID {
			continue
		}
		result = append(result, *o)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	total := int64(len(result))
	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Offer{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// --- In-Memory Transaction Repo ---

type inMemoryTransactionRepo struct {
	mu           sync.RWMutex
	transactions map[uuid.UUID]*domain.Transaction
}

func newInMemoryTransactionRepo() *inMemoryTransactionRepo {
	return &inMemoryTransactionRepo{transactions: make(map[uuid.UUID]*domain.Transaction)}
}

func (r *inMemoryTransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *t
	r.transactions[t.ID] = &cp
	return nil
}

func (r *inMemoryTransactionRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Transaction, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.transactions[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (r *inMemoryTransactionRepo) UpdateStatus(ctx context.Context, t *domain.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.transactions[t.ID]
	if !ok {
		return fmt.Errorf("transaction not found")
	}
	stored.Status = t.Status
	stored.ProofURL = t.ProofURL
	stored.ProofSubmittedAt = t.ProofSubmittedAt
	stored.UpdatedAt = t.UpdatedAt
	return nil
}

func (r *inMemoryTransactionRepo) List(ctx context.Context, params ports.TransactionListParams) ([]domain.Transaction, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Transaction
	for _, t := range r.transactions {
		if params.UserID != nil && t.PartyA.UserID != *params.UserID && t.PartyB.UserID != *params.UserID {
			continue
		}
		if params.Status != nil && t.Status != *params.Status {
			continue
		}
		result = append(result, *t)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	total := int64(len(result))
	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.Transaction{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// --- In-Memory KYC Repo ---

type inMemoryKYCRepo struct {
	mu      sync.RWMutex
	records map[uuid.UUID]*domain.KYCData
}

func newInMemoryKYCRepo() *inMemoryKYCRepo {
	return &inMemoryKYCRepo{records: make(map[uuid.UUID]*domain.KYCData)}
}

func (r *inMemoryKYCRepo) Get(ctx context.Context, userID uuid.UUID) (*domain.KYCData, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rec, ok := r.records[userID]
	if !ok {
		return nil, nil
	}
	cp := *rec
	return &cp, nil
}

func (r *inMemoryKYCRepo) Save(ctx context.Context, data *domain.KYCData) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *data
	r.records[data.UserID] = &cp
	return nil
}

func (r *inMemoryKYCRepo) SetSubmitted(ctx context.Context, tx pgx.Tx, userID uuid.UUID, submittedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[userID]
	if !ok {
		return fmt.Errorf("kyc record not found")
	}
	rec.Status = domain.KYCStatusPending
	rec.Step = domain.KYCStepReview
	rec.SubmittedAt = &submittedAt
	rec.RejectionReason = nil
	rec.UpdatedAt = submittedAt
	return nil
}

func (r *inMemoryKYCRepo) SetDecision(ctx context.Context, tx pgx.Tx, userID uuid.UUID, status domain.KYCStatus, reason *string, decidedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[userID]
	if !ok {
		return fmt.Errorf("kyc record not found")
	}
	rec.Status = status
	rec.RejectionReason = reason
	if status == domain.KYCStatusVerified {
		rec.VerifiedAt = &decidedAt
	}
	rec.UpdatedAt = decidedAt
	return nil
}

func (r *inMemoryKYCRepo) List(ctx context.Context, params ports.KYCListParams) ([]domain.KYCData, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.KYCData
	for _, rec := range r.records {
		if params.Status != nil && rec.Status != *params.Status {
			continue
		}
		result = append(result, *rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].UpdatedAt.After(result[j].UpdatedAt) })
	total := int64(len(result))
	start := (params.Page - 1) * params.PageSize
	if start >= len(result) {
		return []domain.KYCData{}, total, nil
	}
	end := start + params.PageSize
	if end > len(result) {
		end = len(result)
	}
	return result[start:end], total, nil
}

// --- In-Memory Message Repo ---

type inMemoryMessageRepo struct {
	mu       sync.RWMutex
	messages map[uuid.UUID]*domain.Message
}

func newInMemoryMessageRepo() *inMemoryMessageRepo {
	return &inMemoryMessageRepo{messages: make(map[uuid.UUID]*domain.Message)}
}

func (r *inMemoryMessageRepo) Create(ctx context.Context, m *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *m
	r.messages[m.ID] = &cp
	return nil
}

func (r *inMemoryMessageRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.messages[id]
	if !ok {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (r *inMemoryMessageRepo) ListByTransaction(ctx context.Context, transactionID uuid.UUID) ([]domain.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var result []domain.Message
	for _, m := range r.messages {
		if m.TransactionID != transactionID || m.IsDeleted() {
			continue
		}
		result = append(result, *m)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *inMemoryMessageRepo) SoftDelete(ctx context.Context, id uuid.UUID, deletedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.messages[id]
	if !ok {
		return fmt.Errorf("message not found")
	}
	m.DeletedAt = &deletedAt
	return nil
}

// --- In-Memory Audit Repo ---

type inMemoryAuditRepo struct {
	mu      sync.RWMutex
	entries []*domain.AuditLog
}

func newInMemoryAuditRepo() *inMemoryAuditRepo {
	return &inMemoryAuditRepo{}
}

func (r *inMemoryAuditRepo) Create(ctx context.Context, entry *domain.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// --- In-Memory Transactor (no-op tx) ---

type inMemoryTransactor struct{}

func newInMemoryTransactor() *inMemoryTransactor {
	return &inMemoryTransactor{}
}

func (t *inMemoryTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &noopTx{}, nil
}

// noopTx is a no-op pgx.Tx implementation for in-memory testing.
type noopTx struct{}

func (t *noopTx) Begin(ctx context.Context) (pgx.Tx, error) { return t, nil }
func (t *noopTx) Commit(ctx context.Context) error          { return nil }
func (t *noopTx) Rollback(ctx context.Context) error        { return nil }
func (t *noopTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, nil
}
func (t *noopTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults { return nil }
func (t *noopTx) LargeObjects() pgx.LargeObjects                               { return pgx.LargeObjects{} }
func (t *noopTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, nil
}
func (t *noopTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return pgconn.NewCommandTag(""), nil
}
func (t *noopTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}
func (t *noopTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}
func (t *noopTx) Conn() *pgx.Conn { return nil }
