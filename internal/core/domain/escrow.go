package domain

import (
	"time"

	"github.com/google/uuid"
)

// PlatformType determines which account's key signs the mint and the
// subsequent transfer offer.
type PlatformType string

const (
	// PlatformTypeExternal mints under an external creator's own issuing
	// account, whose seed is held encrypted on the escrow record.
	PlatformTypeExternal PlatformType = "EXTERNAL"
	// PlatformTypePlatformMinted mints directly from the broker account on
	// a project creator's behalf.
	PlatformTypePlatformMinted PlatformType = "PLATFORM_MINTED"
)

// IsValid reports whether the platform type is a known value.
func (p PlatformType) IsValid() bool {
	return p == PlatformTypeExternal || p == PlatformTypePlatformMinted
}

// EscrowStatus represents the lifecycle state of an escrow.
type EscrowStatus string

const (
	EscrowStatusPendingPayment  EscrowStatus = "PENDING_PAYMENT"
	EscrowStatusPaymentReceived EscrowStatus = "PAYMENT_RECEIVED"
	EscrowStatusMinted          EscrowStatus = "MINTED"
	EscrowStatusOfferCreated    EscrowStatus = "OFFER_CREATED"
	EscrowStatusDistributed     EscrowStatus = "DISTRIBUTED"
	EscrowStatusFailed          EscrowStatus = "FAILED"
)

// EscrowRecord tracks one buyer payment through mint, offer and payout.
// It is created before payment is requested and mutated exclusively by the
// escrow engine afterwards. The record's ID doubles as the correlation key
// embedded in the payment memo.
type EscrowRecord struct {
	ID             string       `json:"id"`
	PlatformType   PlatformType `json:"platform_type"`
	ProjectID      *uuid.UUID   `json:"project_id,omitempty"`
	TotalAmount    int64        `json:"total_amount"` // In smallest ledger unit
	MintCost       int64        `json:"mint_cost"`
	BrokerFee      int64        `json:"broker_fee"`
	BuyerAddress   string       `json:"buyer_address"`
	CreatorAddress string       `json:"creator_address"`
	IssuerSeedEnc  *string      `json:"-"` // AES-256 encrypted issuer seed (EXTERNAL only)
	MetadataURI    *string      `json:"metadata_uri,omitempty"`
	Taxon          uint32       `json:"taxon"`
	Status         EscrowStatus `json:"status"`
	FailureReason  *string      `json:"failure_reason,omitempty"`

	// Ledger artifacts, recorded as the escrow advances.
	PaymentTxHash        *string `json:"payment_tx_hash,omitempty"`
	MintTxHash           *string `json:"mint_tx_hash,omitempty"`
	MintedTokenID        *string `json:"minted_token_id,omitempty"`
	OfferIndex           *string `json:"offer_index,omitempty"`
	OfferTxHash          *string `json:"offer_tx_hash,omitempty"`
	CreatorPaymentTxHash *string `json:"creator_payment_tx_hash,omitempty"`

	CreatedAt          time.Time  `json:"created_at"`
	PaymentValidatedAt *time.Time `json:"payment_validated_at,omitempty"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// IsTerminal returns true if the escrow is in a final state.
func (e *EscrowRecord) IsTerminal() bool {
	return e.Status == EscrowStatusDistributed || e.Status == EscrowStatusFailed
}

// AmountsConsistent checks the creation-time invariant
// totalAmount == mintCost + brokerFee. The engine only checks this, it
// never repairs a violating record.
func (e *EscrowRecord) AmountsConsistent() bool {
	return e.TotalAmount == e.MintCost+e.BrokerFee
}
