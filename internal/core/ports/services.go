package ports

import (
	"context"
	"time"

	"nft-escrow-broker/internal/core/domain"

	"github.com/google/uuid"
)

// VaultService encrypts and decrypts issuer signing seeds at rest.
type VaultService interface {
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// TokenService handles JWT service-token operations for the management API.
type TokenService interface {
	Generate(subject string) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	Subject string
}

// PaymentDedup guards against redelivered payment events. CheckAndSet
// atomically records a payment transaction hash, returning true if the hash
// is new and false if it was already processed.
type PaymentDedup interface {
	CheckAndSet(ctx context.Context, txHash string, ttl time.Duration) (bool, error)
}

// MemoDecoder filters raw ledger events down to escrow payments.
type MemoDecoder interface {
	// Decode returns the decoded payment and true for a validated,
	// successful value transfer to the broker account carrying a parseable
	// escrow memo. Everything else returns nil, false.
	Decode(env *domain.TransactionEnvelope) (*DecodedPayment, bool)
}

// DecodedPayment is the result of filtering a ledger event.
type DecodedPayment struct {
	CorrelationID string
	PlatformHint  domain.PlatformType
	Amount        int64
	TxHash        string
	Sender        string
}

// --- Service Ports (Business Logic) ---

// MintService builds, signs and submits the token-creation operation.
type MintService interface {
	Mint(ctx context.Context, escrow *domain.EscrowRecord) (*MintResult, error)
}

// MintResult carries the mint outcome forward to the offer step. The owner
// address is computed from the signing identity actually used, never
// assumed.
type MintResult struct {
	TxHash       string
	TokenID      string
	OwnerAddress string
}

// OfferService extends a zero-cost transfer offer to the buyer.
type OfferService interface {
	CreateOffer(ctx context.Context, escrow *domain.EscrowRecord, mint *MintResult) (*OfferResult, error)
}

// OfferResult carries the created offer's artifacts.
type OfferResult struct {
	TxHash     string
	OfferIndex string
}

// PayoutService forwards the net proceeds to the creator, retaining the
// broker fee by not moving it.
type PayoutService interface {
	Distribute(ctx context.Context, escrow *domain.EscrowRecord) (txHash string, err error)
}

// EscrowService is the orchestration core: it consumes ledger events and
// drives each escrow through its state machine.
type EscrowService interface {
	// Run consumes events until the context is cancelled. Events are
	// processed one at a time in arrival order.
	Run(ctx context.Context, events <-chan domain.TransactionEnvelope)
	// HandleTransaction processes a single ledger event to completion.
	HandleTransaction(ctx context.Context, env *domain.TransactionEnvelope)
}

// EscrowManagementService serves the HTTP surface that creates and inspects
// escrow and project records. It sits outside the engine's event path.
type EscrowManagementService interface {
	CreateEscrow(ctx context.Context, req CreateEscrowParams) (*CreateEscrowResult, error)
	GetEscrow(ctx context.Context, id string) (*domain.EscrowRecord, error)
	CreateProject(ctx context.Context, req CreateProjectParams) (*domain.ProjectRecord, error)
	GetProject(ctx context.Context, id uuid.UUID) (*domain.ProjectRecord, error)
}

// CreateEscrowParams holds validated input for escrow creation.
type CreateEscrowParams struct {
	PlatformType   domain.PlatformType
	TotalAmount    int64
	MintCost       int64
	BrokerFee      int64
	BuyerAddress   string
	CreatorAddress string
	MetadataURI    *string
	Taxon          uint32
	ProjectID      *uuid.UUID
	IssuerSeed     *string // Plaintext seed, encrypted before storage (EXTERNAL only)
}

// CreateProjectParams holds validated input for project creation.
type CreateProjectParams struct {
	Name              string
	CreatorAddress    string
	Taxon             uint32
	RoyaltyPercentage float64
}

// CreateEscrowResult is returned to the caller so the buyer can be
// instructed how to pay.
type CreateEscrowResult struct {
	Escrow         *domain.EscrowRecord
	DepositAddress string
	MemoHex        string
}
