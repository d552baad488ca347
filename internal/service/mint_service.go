package service

import (
	"context"
	"encoding/hex"
	"fmt"

	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"

	"github.com/rs/zerolog"
)

// MintServiceImpl implements ports.MintService: it builds, signs and
// submits the token-creation operation and recovers the new token's id from
// the resulting ledger metadata.
type MintServiceImpl struct {
	submitter     ports.LedgerSubmitter
	vault         ports.VaultService
	projectRepo   ports.ProjectRepository
	broker        ports.Signer
	walletFactory ports.WalletFactory
	log           zerolog.Logger
}

// NewMintService creates a new MintServiceImpl.
func NewMintService(
	submitter ports.LedgerSubmitter,
	vault ports.VaultService,
	projectRepo ports.ProjectRepository,
	broker ports.Signer,
	walletFactory ports.WalletFactory,
	log zerolog.Logger,
) *MintServiceImpl {
	return &MintServiceImpl{
		submitter:     submitter,
		vault:         vault,
		projectRepo:   projectRepo,
		broker:        broker,
		walletFactory: walletFactory,
		log:           log,
	}
}

// Mint dispatches on the escrow's platform type to pick the signing
// identity, submits the mint, and waits for final validation.
func (s *MintServiceImpl) Mint(ctx context.Context, escrow *domain.EscrowRecord) (*ports.MintResult, error) {
	signer, tx, err := s.buildMint(ctx, escrow)
	if err != nil {
		return nil, err
	}

	res, err := s.submitter.SubmitAndWait(ctx, tx, signer)
	if err != nil {
		return nil, fmt.Errorf("mint submission: %w", err)
	}

	tokenID, ok := res.Meta.MintedTokenID()
	if !ok {
		// The ledger reported success but no token page change carries the
		// new token; treat as a failed mint rather than guessing.
		return nil, fmt.Errorf("mint %s validated but no token id found in metadata", res.Hash)
	}

	s.log.Info().
		Str("escrow_id", escrow.ID).
		Str("mint_tx", res.Hash).
		Str("token_id", tokenID).
		Str("owner", signer.Address()).
		Msg("token minted")

	return &ports.MintResult{
		TxHash:       res.Hash,
		TokenID:      tokenID,
		OwnerAddress: signer.Address(),
	}, nil
}

func (s *MintServiceImpl) buildMint(ctx context.Context, escrow *domain.EscrowRecord) (ports.Signer, *domain.LedgerTx, error) {
	tx := &domain.LedgerTx{
		TransactionType: domain.TxTypeNFTokenMint,
		Flags:           domain.FlagTransferable,
		NFTokenTaxon:    escrow.Taxon,
	}
	if escrow.MetadataURI != nil && *escrow.MetadataURI != "" {
		tx.URI = hex.EncodeToString([]byte(*escrow.MetadataURI))
	}

	switch escrow.PlatformType {
	case domain.PlatformTypeExternal:
		if escrow.IssuerSeedEnc == nil {
			return nil, nil, fmt.Errorf("external escrow %s has no encrypted issuer seed", escrow.ID)
		}
		seed, err := s.vault.Decrypt(*escrow.IssuerSeedEnc)
		if err != nil {
			return nil, nil, fmt.Errorf("decrypting issuer seed: %w", err)
		}
		issuer, err := s.walletFactory(seed)
		if err != nil {
			return nil, nil, fmt.Errorf("reconstructing issuer wallet: %w", err)
		}
		tx.Account = issuer.Address()
		return issuer, tx, nil

	case domain.PlatformTypePlatformMinted:
		if escrow.ProjectID == nil {
			return nil, nil, fmt.Errorf("platform-minted escrow %s has no project", escrow.ID)
		}
		project, err := s.projectRepo.GetByID(ctx, *escrow.ProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("loading project %s: %w", escrow.ProjectID, err)
		}
		if project == nil {
			return nil, nil, fmt.Errorf("project %s not found", escrow.ProjectID)
		}
		// The broker signs, but the token lives in the creator's namespace
		// and the royalty travels with it.
		tx.Account = s.broker.Address()
		tx.Issuer = project.CreatorAddress
		tx.TransferFee = project.TransferFee()
		tx.NFTokenTaxon = project.Taxon
		return s.broker, tx, nil

	default:
		return nil, nil, fmt.Errorf("escrow %s has unknown platform type %q", escrow.ID, escrow.PlatformType)
	}
}
