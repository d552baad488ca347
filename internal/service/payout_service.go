package service

import (
	"context"
	"fmt"
	"strconv"

	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"

	"github.com/rs/zerolog"
)

// PayoutServiceImpl implements ports.PayoutService. It moves the mint cost
// from the broker to the creator; the broker fee is simply the amount that
// never leaves the broker account.
type PayoutServiceImpl struct {
	submitter ports.LedgerSubmitter
	broker    ports.Signer
	log       zerolog.Logger
}

// NewPayoutService creates a new PayoutServiceImpl.
func NewPayoutService(submitter ports.LedgerSubmitter, broker ports.Signer, log zerolog.Logger) *PayoutServiceImpl {
	return &PayoutServiceImpl{submitter: submitter, broker: broker, log: log}
}

// Distribute transfers the escrow's net proceeds to the creator account,
// always signed by the broker's own identity.
func (s *PayoutServiceImpl) Distribute(ctx context.Context, escrow *domain.EscrowRecord) (string, error) {
	if escrow.CreatorAddress == "" {
		return "", fmt.Errorf("escrow %s has no creator address", escrow.ID)
	}

	tx := &domain.LedgerTx{
		TransactionType: domain.TxTypePayment,
		Account:         s.broker.Address(),
		Destination:     escrow.CreatorAddress,
		Amount:          strconv.FormatInt(escrow.MintCost, 10),
	}

	res, err := s.submitter.SubmitAndWait(ctx, tx, s.broker)
	if err != nil {
		return "", fmt.Errorf("payout submission: %w", err)
	}

	s.log.Info().
		Str("escrow_id", escrow.ID).
		Str("payout_tx", res.Hash).
		Int64("amount", escrow.MintCost).
		Int64("fee_retained", escrow.BrokerFee).
		Str("creator", escrow.CreatorAddress).
		Msg("proceeds distributed")

	return res.Hash, nil
}
