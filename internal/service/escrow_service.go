package service

import (
	"context"
	"fmt"
	"time"

	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"
	"nft-escrow-broker/internal/observability"

	"github.com/rs/zerolog"
)

// paymentDedupTTL bounds how long a processed payment hash is remembered.
// Redeliveries after a reconnect arrive well within this window.
const paymentDedupTTL = 24 * time.Hour

// EscrowServiceImpl is the orchestration core. It consumes ledger events
// one at a time and drives each escrow through
// PENDING_PAYMENT -> PAYMENT_RECEIVED -> MINTED -> OFFER_CREATED -> DISTRIBUTED,
// persisting every transition before the next ledger operation so a crash
// mid-sequence leaves an inspectable record.
type EscrowServiceImpl struct {
	escrowRepo ports.EscrowRepository
	decoder    ports.MemoDecoder
	dedup      ports.PaymentDedup
	mintSvc    ports.MintService
	offerSvc   ports.OfferService
	payoutSvc  ports.PayoutService
	metrics    *observability.Metrics
	log        zerolog.Logger
}

// NewEscrowService creates a new EscrowServiceImpl.
func NewEscrowService(
	escrowRepo ports.EscrowRepository,
	decoder ports.MemoDecoder,
	dedup ports.PaymentDedup,
	mintSvc ports.MintService,
	offerSvc ports.OfferService,
	payoutSvc ports.PayoutService,
	metrics *observability.Metrics,
	log zerolog.Logger,
) *EscrowServiceImpl {
	return &EscrowServiceImpl{
		escrowRepo: escrowRepo,
		decoder:    decoder,
		dedup:      dedup,
		mintSvc:    mintSvc,
		offerSvc:   offerSvc,
		payoutSvc:  payoutSvc,
		metrics:    metrics,
		log:        log,
	}
}

// Run is the single worker loop. Events are handled strictly in arrival
// order; each escrow's mint->offer->payout sequence completes (or fails)
// before the next event is touched, which keeps the broker account's
// sequence numbers consistent without any locking.
func (s *EscrowServiceImpl) Run(ctx context.Context, events <-chan domain.TransactionEnvelope) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-events:
			if !ok {
				return
			}
			s.HandleTransaction(ctx, &env)
		}
	}
}

// HandleTransaction processes one ledger event to completion. Every error
// is absorbed here: logged, recorded on the escrow where applicable, never
// propagated to the event loop.
func (s *EscrowServiceImpl) HandleTransaction(ctx context.Context, env *domain.TransactionEnvelope) {
	payment, ok := s.decoder.Decode(env)
	if !ok {
		s.metrics.LedgerEvent("ignored")
		return
	}
	s.metrics.LedgerEvent("observed")

	log := s.log.With().Str("escrow_id", payment.CorrelationID).Str("payment_tx", payment.TxHash).Logger()

	// Redelivery guard: the persisted status check below is the authority,
	// the hash dedup just short-circuits the common reconnect case.
	isNew, err := s.dedup.CheckAndSet(ctx, payment.TxHash, paymentDedupTTL)
	if err != nil {
		log.Warn().Err(err).Msg("payment dedup check failed, relying on status check")
	} else if !isNew {
		log.Info().Msg("payment already processed, dropping redelivered event")
		return
	}

	escrow, err := s.escrowRepo.GetByID(ctx, payment.CorrelationID)
	if err != nil {
		log.Error().Err(err).Msg("escrow lookup failed")
		return
	}
	if escrow == nil {
		// May belong to another service instance or be stale, not an error.
		log.Debug().Msg("no escrow for correlation id, dropping event")
		return
	}
	if escrow.Status != domain.EscrowStatusPendingPayment {
		log.Debug().Str("status", string(escrow.Status)).Msg("escrow already advanced, dropping event")
		return
	}

	if payment.Amount < escrow.TotalAmount {
		reason := fmt.Sprintf("insufficient payment: received %d, required %d", payment.Amount, escrow.TotalAmount)
		s.fail(ctx, escrow.ID, reason)
		return
	}

	now := time.Now().UTC()
	if err := s.transition(ctx, escrow.ID, domain.EscrowStatusPaymentReceived, ports.EscrowUpdate{
		PaymentTxHash:      &payment.TxHash,
		PaymentValidatedAt: &now,
	}); err != nil {
		log.Error().Err(err).Msg("persisting payment_received failed, aborting sequence")
		return
	}
	escrow.Status = domain.EscrowStatusPaymentReceived
	escrow.PaymentTxHash = &payment.TxHash

	mint, err := s.mintSvc.Mint(ctx, escrow)
	if err != nil {
		log.Error().Err(err).Msg("mint failed")
		s.fail(ctx, escrow.ID, "mint failed: "+err.Error())
		return
	}
	if err := s.transition(ctx, escrow.ID, domain.EscrowStatusMinted, ports.EscrowUpdate{
		MintTxHash:    &mint.TxHash,
		MintedTokenID: &mint.TokenID,
	}); err != nil {
		log.Error().Err(err).Msg("persisting minted failed, aborting sequence")
		return
	}
	escrow.Status = domain.EscrowStatusMinted

	offer, err := s.offerSvc.CreateOffer(ctx, escrow, mint)
	if err != nil {
		log.Error().Err(err).Msg("offer creation failed")
		s.fail(ctx, escrow.ID, "offer creation failed: "+err.Error())
		return
	}
	if err := s.transition(ctx, escrow.ID, domain.EscrowStatusOfferCreated, ports.EscrowUpdate{
		OfferTxHash: &offer.TxHash,
		OfferIndex:  &offer.OfferIndex,
	}); err != nil {
		log.Error().Err(err).Msg("persisting offer_created failed, aborting sequence")
		return
	}
	escrow.Status = domain.EscrowStatusOfferCreated

	payoutHash, err := s.payoutSvc.Distribute(ctx, escrow)
	if err != nil {
		// The buyer already holds the offer: from their side the exchange
		// succeeded. Leave the escrow at OFFER_CREATED for operator payout
		// instead of mislabeling it as failed.
		log.Error().Err(err).Msg("creator payout failed, escrow left at offer_created")
		return
	}
	if err := s.transition(ctx, escrow.ID, domain.EscrowStatusDistributed, ports.EscrowUpdate{
		CreatorPaymentTxHash: &payoutHash,
	}); err != nil {
		log.Error().Err(err).Msg("persisting distributed failed")
		return
	}

	log.Info().
		Str("token_id", mint.TokenID).
		Str("offer_index", offer.OfferIndex).
		Str("payout_tx", payoutHash).
		Msg("escrow completed")
}

// transition persists a status change plus its artifacts in one atomic
// update.
func (s *EscrowServiceImpl) transition(ctx context.Context, id string, status domain.EscrowStatus, fields ports.EscrowUpdate) error {
	fields.Status = &status
	if err := s.escrowRepo.Update(ctx, id, fields); err != nil {
		return err
	}
	s.metrics.EscrowTransition(string(status))
	return nil
}

func (s *EscrowServiceImpl) fail(ctx context.Context, id string, reason string) {
	if err := s.transition(ctx, id, domain.EscrowStatusFailed, ports.EscrowUpdate{
		FailureReason: &reason,
	}); err != nil {
		s.log.Error().Err(err).Str("escrow_id", id).Str("reason", reason).Msg("persisting failure state failed")
		return
	}
	s.log.Warn().Str("escrow_id", id).Str("reason", reason).Msg("escrow failed")
}
