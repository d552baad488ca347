package integration

import (
	"context"
	"fmt"
	"sync"
	"time"

	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"

	"github.com/google/uuid"
)

// --- In-Memory Escrow Repo ---

type inMemoryEscrowRepo struct {
	mu      sync.RWMutex
	escrows map[string]*domain.EscrowRecord

	// statuses records every status transition per escrow, in order, so
	// tests can assert on the full lifecycle rather than just the end state.
	statuses map[string][]domain.EscrowStatus
}

func newInMemoryEscrowRepo() *inMemoryEscrowRepo {
	return &inMemoryEscrowRepo{
		escrows:  make(map[string]*domain.EscrowRecord),
		statuses: make(map[string][]domain.EscrowStatus),
	}
}

func (r *inMemoryEscrowRepo) Create(ctx context.Context, e *domain.EscrowRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.escrows[e.ID]; ok {
		return fmt.Errorf("escrow already exists: %s", e.ID)
	}
	clone := *e
	r.escrows[e.ID] = &clone
	return nil
}

func (r *inMemoryEscrowRepo) GetByID(ctx context.Context, id string) (*domain.EscrowRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.escrows[id]
	if !ok {
		return nil, nil
	}
	clone := *e
	return &clone, nil
}

func (r *inMemoryEscrowRepo) Update(ctx context.Context, id string, update ports.EscrowUpdate) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.escrows[id]
	if !ok {
		return fmt.Errorf("escrow not found: %s", id)
	}
	if update.Status != nil {
		e.Status = *update.Status
		r.statuses[id] = append(r.statuses[id], *update.Status)
	}
	if update.FailureReason != nil {
		e.FailureReason = update.FailureReason
	}
	if update.PaymentTxHash != nil {
		e.PaymentTxHash = update.PaymentTxHash
	}
	if update.PaymentValidatedAt != nil {
		e.PaymentValidatedAt = update.PaymentValidatedAt
	}
	if update.MintTxHash != nil {
		e.MintTxHash = update.MintTxHash
	}
	if update.MintedTokenID != nil {
		e.MintedTokenID = update.MintedTokenID
	}
	if update.OfferIndex != nil {
		e.OfferIndex = update.OfferIndex
	}
	if update.OfferTxHash != nil {
		e.OfferTxHash = update.OfferTxHash
	}
	if update.CreatorPaymentTxHash != nil {
		e.CreatorPaymentTxHash = update.CreatorPaymentTxHash
	}
	e.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *inMemoryEscrowRepo) statusHistory(id string) []domain.EscrowStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	history := make([]domain.EscrowStatus, len(r.statuses[id]))
	copy(history, r.statuses[id])
	return history
}

// --- In-Memory Project Repo ---

type inMemoryProjectRepo struct {
	mu       sync.RWMutex
	projects map[uuid.UUID]*domain.ProjectRecord
}

func newInMemoryProjectRepo() *inMemoryProjectRepo {
	return &inMemoryProjectRepo{projects: make(map[uuid.UUID]*domain.ProjectRecord)}
}

func (r *inMemoryProjectRepo) Create(ctx context.Context, p *domain.ProjectRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[p.ID]; ok {
		return fmt.Errorf("project already exists: %s", p.ID)
	}
	clone := *p
	r.projects[p.ID] = &clone
	return nil
}

func (r *inMemoryProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

// --- Scripted Ledger Submitter ---

// scriptedSubmitter stands in for the real ledger connection. Each accepted
// submission is recorded for assertions and answered with metadata of the
// shape the real ledger produces for that transaction type.
type scriptedSubmitter struct {
	mu        sync.Mutex
	submitted []submittedTx
	seq       int

	// failType, when set, rejects submissions of that transaction type
	// with failErr.
	failType string
	failErr  error
}

type submittedTx struct {
	tx     domain.LedgerTx
	signer string // signing address
}

func newScriptedSubmitter() *scriptedSubmitter {
	return &scriptedSubmitter{}
}

func (s *scriptedSubmitter) SubmitAndWait(ctx context.Context, tx *domain.LedgerTx, signer ports.Signer) (*domain.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failType == tx.TransactionType {
		return nil, s.failErr
	}

	s.seq++
	s.submitted = append(s.submitted, submittedTx{tx: *tx, signer: signer.Address()})

	hash := fmt.Sprintf("HASH%04d", s.seq)
	res := &domain.SubmitResult{
		Hash:   hash,
		Result: domain.ResultSuccess,
		Meta:   &domain.TxMeta{TransactionResult: domain.ResultSuccess},
	}
	switch tx.TransactionType {
	case domain.TxTypeNFTokenMint:
		res.Meta.AffectedNodes = []domain.AffectedNode{{
			CreatedNode: &domain.NodeDetail{
				LedgerEntryType: "NFTokenPage",
				NewFields: &domain.NodeFields{NFTokens: []domain.NFTokenEntry{
					{NFToken: domain.NFToken{NFTokenID: fmt.Sprintf("TOKEN%04d", s.seq)}},
				}},
			},
		}}
	case domain.TxTypeNFTokenCreateOffer:
		res.Meta.AffectedNodes = []domain.AffectedNode{{
			CreatedNode: &domain.NodeDetail{
				LedgerEntryType: "NFTokenOffer",
				LedgerIndex:     fmt.Sprintf("OFFER%04d", s.seq),
			},
		}}
	}
	return res, nil
}

func (s *scriptedSubmitter) failOn(txType string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failType = txType
	s.failErr = err
}

func (s *scriptedSubmitter) all() []submittedTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]submittedTx, len(s.submitted))
	copy(out, s.submitted)
	return out
}

func (s *scriptedSubmitter) byType(txType string) []submittedTx {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []submittedTx
	for _, sub := range s.submitted {
		if sub.tx.TransactionType == txType {
			out = append(out, sub)
		}
	}
	return out
}
