package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"

	"github.com/jackc/pgx/v5"
)

// EscrowRepo implements ports.EscrowRepository.
type EscrowRepo struct {
	pool Pool
}

// NewEscrowRepo creates a new EscrowRepo.
func NewEscrowRepo(pool Pool) *EscrowRepo {
	return &EscrowRepo{pool: pool}
}

// Create inserts a new escrow record. The primary key is the correlation
// id, so a duplicate id fails here rather than producing a second record.
func (r *EscrowRepo) Create(ctx context.Context, e *domain.EscrowRecord) error {
	query := `INSERT INTO escrows (id, platform_type, project_id, total_amount, mint_cost, broker_fee,
		buyer_address, creator_address, issuer_seed_enc, metadata_uri, taxon, status, failure_reason,
		payment_tx_hash, mint_tx_hash, minted_token_id, offer_index, offer_tx_hash, creator_payment_tx_hash,
		created_at, payment_validated_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21, $22)`

	_, err := r.pool.Exec(ctx, query,
		e.ID, e.PlatformType, e.ProjectID, e.TotalAmount, e.MintCost, e.BrokerFee,
		e.BuyerAddress, e.CreatorAddress, e.IssuerSeedEnc, e.MetadataURI, e.Taxon, e.Status, e.FailureReason,
		e.PaymentTxHash, e.MintTxHash, e.MintedTokenID, e.OfferIndex, e.OfferTxHash, e.CreatorPaymentTxHash,
		e.CreatedAt, e.PaymentValidatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert escrow: %w", err)
	}
	return nil
}

// GetByID fetches an escrow by correlation id. Returns nil, nil when no
// record exists.
func (r *EscrowRepo) GetByID(ctx context.Context, id string) (*domain.EscrowRecord, error) {
	query := `SELECT id, platform_type, project_id, total_amount, mint_cost, broker_fee,
		buyer_address, creator_address, issuer_seed_enc, metadata_uri, taxon, status, failure_reason,
		payment_tx_hash, mint_tx_hash, minted_token_id, offer_index, offer_tx_hash, creator_payment_tx_hash,
		created_at, payment_validated_at, updated_at
		FROM escrows WHERE id = $1`

	return r.scanEscrow(r.pool.QueryRow(ctx, query, id))
}

// Update applies a partial update in a single statement. Nil fields are
// left untouched; updated_at always advances.
func (r *EscrowRepo) Update(ctx context.Context, id string, fields ports.EscrowUpdate) error {
	var sets []string
	var args []any
	argIdx := 1

	set := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argIdx))
		args = append(args, value)
		argIdx++
	}

	if fields.Status != nil {
		set("status", *fields.Status)
	}
	if fields.FailureReason != nil {
		set("failure_reason", *fields.FailureReason)
	}
	if fields.PaymentTxHash != nil {
		set("payment_tx_hash", *fields.PaymentTxHash)
	}
	if fields.PaymentValidatedAt != nil {
		set("payment_validated_at", *fields.PaymentValidatedAt)
	}
	if fields.MintTxHash != nil {
		set("mint_tx_hash", *fields.MintTxHash)
	}
	if fields.MintedTokenID != nil {
		set("minted_token_id", *fields.MintedTokenID)
	}
	if fields.OfferIndex != nil {
		set("offer_index", *fields.OfferIndex)
	}
	if fields.OfferTxHash != nil {
		set("offer_tx_hash", *fields.OfferTxHash)
	}
	if fields.CreatorPaymentTxHash != nil {
		set("creator_payment_tx_hash", *fields.CreatorPaymentTxHash)
	}
	set("updated_at", time.Now().UTC())

	query := fmt.Sprintf("UPDATE escrows SET %s WHERE id = $%d", strings.Join(sets, ", "), argIdx)
	args = append(args, id)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update escrow: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("escrow not found: %s", id)
	}
	return nil
}

// scanEscrow is a helper to scan a single row into an EscrowRecord.
func (r *EscrowRepo) scanEscrow(row pgx.Row) (*domain.EscrowRecord, error) {
	e := &domain.EscrowRecord{}
	err := row.Scan(
		&e.ID, &e.PlatformType, &e.ProjectID, &e.TotalAmount, &e.MintCost, &e.BrokerFee,
		&e.BuyerAddress, &e.CreatorAddress, &e.IssuerSeedEnc, &e.MetadataURI, &e.Taxon, &e.Status, &e.FailureReason,
		&e.PaymentTxHash, &e.MintTxHash, &e.MintedTokenID, &e.OfferIndex, &e.OfferTxHash, &e.CreatorPaymentTxHash,
		&e.CreatedAt, &e.PaymentValidatedAt, &e.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan escrow: %w", err)
	}
	return e, nil
}
