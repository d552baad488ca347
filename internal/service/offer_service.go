package service

import (
	"context"
	"fmt"

	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"

	"github.com/rs/zerolog"
)

// OfferServiceImpl implements ports.OfferService: a directed, zero-cost
// transfer offer naming the buyer as sole eligible acceptor.
type OfferServiceImpl struct {
	submitter     ports.LedgerSubmitter
	vault         ports.VaultService
	broker        ports.Signer
	walletFactory ports.WalletFactory
	log           zerolog.Logger
}

// NewOfferService creates a new OfferServiceImpl.
func NewOfferService(
	submitter ports.LedgerSubmitter,
	vault ports.VaultService,
	broker ports.Signer,
	walletFactory ports.WalletFactory,
	log zerolog.Logger,
) *OfferServiceImpl {
	return &OfferServiceImpl{
		submitter:     submitter,
		vault:         vault,
		broker:        broker,
		walletFactory: walletFactory,
		log:           log,
	}
}

// CreateOffer signs with the token's current owner as recorded on the mint
// outcome, and extracts the created offer's ledger index for out-of-core
// tooling to reference or cancel later.
func (s *OfferServiceImpl) CreateOffer(ctx context.Context, escrow *domain.EscrowRecord, mint *ports.MintResult) (*ports.OfferResult, error) {
	signer, err := s.ownerSigner(escrow, mint)
	if err != nil {
		return nil, err
	}

	tx := &domain.LedgerTx{
		TransactionType: domain.TxTypeNFTokenCreateOffer,
		Account:         signer.Address(),
		NFTokenID:       mint.TokenID,
		Amount:          "0",
		Destination:     escrow.BuyerAddress,
		Flags:           domain.FlagSellOffer,
	}

	res, err := s.submitter.SubmitAndWait(ctx, tx, signer)
	if err != nil {
		return nil, fmt.Errorf("offer submission: %w", err)
	}

	offerIndex, ok := res.Meta.CreatedOfferIndex()
	if !ok {
		return nil, fmt.Errorf("offer %s validated but no offer entry found in metadata", res.Hash)
	}

	s.log.Info().
		Str("escrow_id", escrow.ID).
		Str("offer_tx", res.Hash).
		Str("offer_index", offerIndex).
		Str("buyer", escrow.BuyerAddress).
		Msg("transfer offer created")

	return &ports.OfferResult{TxHash: res.Hash, OfferIndex: offerIndex}, nil
}

// ownerSigner resolves the signing identity matching the token's owning
// account after the mint. The owner is taken from the mint outcome, never
// assumed from the platform type alone.
func (s *OfferServiceImpl) ownerSigner(escrow *domain.EscrowRecord, mint *ports.MintResult) (ports.Signer, error) {
	if mint.OwnerAddress == s.broker.Address() {
		return s.broker, nil
	}
	if escrow.IssuerSeedEnc == nil {
		return nil, fmt.Errorf("token owner %s is not the broker and escrow %s has no issuer seed", mint.OwnerAddress, escrow.ID)
	}
	seed, err := s.vault.Decrypt(*escrow.IssuerSeedEnc)
	if err != nil {
		return nil, fmt.Errorf("decrypting issuer seed: %w", err)
	}
	issuer, err := s.walletFactory(seed)
	if err != nil {
		return nil, fmt.Errorf("reconstructing issuer wallet: %w", err)
	}
	if issuer.Address() != mint.OwnerAddress {
		return nil, fmt.Errorf("issuer wallet %s does not match token owner %s", issuer.Address(), mint.OwnerAddress)
	}
	return issuer, nil
}
