package service

import (
	"context"
	"time"

	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"
	"nft-escrow-broker/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ManagementServiceImpl implements ports.EscrowManagementService: the
// record-creation side of the workflow, driven by the storefront backend
// over HTTP before any payment exists.
type ManagementServiceImpl struct {
	escrowRepo    ports.EscrowRepository
	projectRepo   ports.ProjectRepository
	vault         ports.VaultService
	brokerAddress string
	log           zerolog.Logger
}

// NewManagementService creates a new ManagementServiceImpl.
func NewManagementService(
	escrowRepo ports.EscrowRepository,
	projectRepo ports.ProjectRepository,
	vault ports.VaultService,
	brokerAddress string,
	log zerolog.Logger,
) *ManagementServiceImpl {
	return &ManagementServiceImpl{
		escrowRepo:    escrowRepo,
		projectRepo:   projectRepo,
		vault:         vault,
		brokerAddress: brokerAddress,
		log:           log,
	}
}

// CreateEscrow validates the amount invariant, encrypts the issuer seed for
// external escrows, persists the PENDING_PAYMENT record, and returns the
// memo payload the buyer must attach to the deposit.
func (s *ManagementServiceImpl) CreateEscrow(ctx context.Context, req ports.CreateEscrowParams) (*ports.CreateEscrowResult, error) {
	if !req.PlatformType.IsValid() {
		return nil, apperror.ErrInvalidPlatformType()
	}
	if req.TotalAmount <= 0 || req.MintCost < 0 || req.BrokerFee < 0 {
		return nil, apperror.Validation("amounts must be positive")
	}
	if req.TotalAmount != req.MintCost+req.BrokerFee {
		return nil, apperror.ErrAmountMismatch()
	}
	if req.BuyerAddress == "" {
		return nil, apperror.Validation("buyer_address is required")
	}

	escrow := &domain.EscrowRecord{
		ID:             uuid.New().String(),
		PlatformType:   req.PlatformType,
		TotalAmount:    req.TotalAmount,
		MintCost:       req.MintCost,
		BrokerFee:      req.BrokerFee,
		BuyerAddress:   req.BuyerAddress,
		CreatorAddress: req.CreatorAddress,
		MetadataURI:    req.MetadataURI,
		Taxon:          req.Taxon,
		Status:         domain.EscrowStatusPendingPayment,
		CreatedAt:      time.Now().UTC(),
	}

	switch req.PlatformType {
	case domain.PlatformTypeExternal:
		if req.IssuerSeed == nil || *req.IssuerSeed == "" {
			return nil, apperror.ErrMissingIssuerSeed()
		}
		if req.CreatorAddress == "" {
			return nil, apperror.Validation("creator_address is required")
		}
		enc, err := s.vault.Encrypt(*req.IssuerSeed)
		if err != nil {
			return nil, apperror.ErrVaultFailure(err)
		}
		escrow.IssuerSeedEnc = &enc

	case domain.PlatformTypePlatformMinted:
		if req.ProjectID == nil {
			return nil, apperror.ErrMissingProject()
		}
		project, err := s.projectRepo.GetByID(ctx, *req.ProjectID)
		if err != nil {
			return nil, apperror.ErrDatabaseError(err)
		}
		if project == nil {
			return nil, apperror.ErrNotFound("project")
		}
		escrow.ProjectID = req.ProjectID
		escrow.CreatorAddress = project.CreatorAddress
		escrow.Taxon = project.Taxon
	}

	if err := s.escrowRepo.Create(ctx, escrow); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}

	memoHex, err := domain.EncodeMemo(domain.MemoPayload{
		CorrelationID: escrow.ID,
		PlatformHint:  escrow.PlatformType,
	})
	if err != nil {
		return nil, apperror.InternalError(err)
	}

	s.log.Info().
		Str("escrow_id", escrow.ID).
		Str("platform_type", string(escrow.PlatformType)).
		Int64("total_amount", escrow.TotalAmount).
		Msg("escrow created")

	return &ports.CreateEscrowResult{
		Escrow:         escrow,
		DepositAddress: s.brokerAddress,
		MemoHex:        memoHex,
	}, nil
}

// GetEscrow returns the escrow record for status inspection.
func (s *ManagementServiceImpl) GetEscrow(ctx context.Context, id string) (*domain.EscrowRecord, error) {
	escrow, err := s.escrowRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if escrow == nil {
		return nil, apperror.ErrNotFound("escrow")
	}
	return escrow, nil
}

// CreateProject persists a project record for platform-minted escrows.
func (s *ManagementServiceImpl) CreateProject(ctx context.Context, req ports.CreateProjectParams) (*domain.ProjectRecord, error) {
	if req.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	if req.CreatorAddress == "" {
		return nil, apperror.Validation("creator_address is required")
	}
	if req.RoyaltyPercentage < 0 || req.RoyaltyPercentage > 50 {
		return nil, apperror.Validation("royalty_percentage must be between 0 and 50")
	}

	project := &domain.ProjectRecord{
		ID:                uuid.New(),
		Name:              req.Name,
		CreatorAddress:    req.CreatorAddress,
		Taxon:             req.Taxon,
		RoyaltyPercentage: req.RoyaltyPercentage,
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return project, nil
}

// GetProject returns one project record.
func (s *ManagementServiceImpl) GetProject(ctx context.Context, id uuid.UUID) (*domain.ProjectRecord, error) {
	project, err := s.projectRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if project == nil {
		return nil, apperror.ErrNotFound("project")
	}
	return project, nil
}
