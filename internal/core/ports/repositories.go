package ports

import (
	"context"
	"time"

	"nft-escrow-broker/internal/core/domain"

	"github.com/google/uuid"
)

// EscrowRepository defines persistence operations for escrow records.
// The store enforces correlation-id uniqueness; Update is atomic per call.
type EscrowRepository interface {
	Create(ctx context.Context, escrow *domain.EscrowRecord) error
	// GetByID returns nil, nil when no record exists for the correlation id.
	GetByID(ctx context.Context, id string) (*domain.EscrowRecord, error)
	Update(ctx context.Context, id string, fields EscrowUpdate) error
}

// EscrowUpdate is a partial update applied to an escrow record. Nil fields
// are left untouched.
type EscrowUpdate struct {
	Status               *domain.EscrowStatus
	FailureReason        *string
	PaymentTxHash        *string
	PaymentValidatedAt   *time.Time
	MintTxHash           *string
	MintedTokenID        *string
	OfferIndex           *string
	OfferTxHash          *string
	CreatorPaymentTxHash *string
}

// ProjectRepository defines persistence operations for project records.
// The engine only ever reads projects; Create serves the management API.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.ProjectRecord) error
	// GetByID returns nil, nil when the project does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectRecord, error)
}
