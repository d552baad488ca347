package service

import (
	"context"
	"errors"
	"testing"

	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"
	"nft-escrow-broker/internal/core/ports/mocks"
	"nft-escrow-broker/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type mgmtTestDeps struct {
	svc         *ManagementServiceImpl
	escrowRepo  *mocks.MockEscrowRepository
	projectRepo *mocks.MockProjectRepository
	vault       *mocks.MockVaultService
	ctrl        *gomock.Controller
}

func setupManagementService(t *testing.T) *mgmtTestDeps {
	ctrl := gomock.NewController(t)
	d := &mgmtTestDeps{
		escrowRepo:  mocks.NewMockEscrowRepository(ctrl),
		projectRepo: mocks.NewMockProjectRepository(ctrl),
		vault:       mocks.NewMockVaultService(ctrl),
		ctrl:        ctrl,
	}
	d.svc = NewManagementService(d.escrowRepo, d.projectRepo, d.vault, brokerAddress, zerolog.Nop())
	return d
}

func externalParams() ports.CreateEscrowParams {
	seed := "plain-seed"
	return ports.CreateEscrowParams{
		PlatformType:   domain.PlatformTypeExternal,
		TotalAmount:    1000000,
		MintCost:       900000,
		BrokerFee:      100000,
		BuyerAddress:   "rBUYER00000000000000000000000000000000000",
		CreatorAddress: issuerAddress,
		IssuerSeed:     &seed,
	}
}

func TestManagementService_CreateEscrow_External(t *testing.T) {
	d := setupManagementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()

	d.vault.EXPECT().Encrypt("plain-seed").Return("encrypted-blob", nil)
	d.escrowRepo.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, e *domain.EscrowRecord) error {
			assert.Equal(t, domain.EscrowStatusPendingPayment, e.Status)
			require.NotNil(t, e.IssuerSeedEnc)
			assert.Equal(t, "encrypted-blob", *e.IssuerSeedEnc)
			_, err := uuid.Parse(e.ID)
			assert.NoError(t, err, "correlation id should be a generated UUID")
			return nil
		})

	res, err := d.svc.CreateEscrow(ctx, externalParams())
	require.NoError(t, err)
	assert.Equal(t, brokerAddress, res.DepositAddress)

	// The returned memo must decode back to the new escrow's id.
	payload, err := domain.DecodeMemo(res.MemoHex)
	require.NoError(t, err)
	assert.Equal(t, res.Escrow.ID, payload.CorrelationID)
	assert.Equal(t, domain.PlatformTypeExternal, payload.PlatformHint)
}

func TestManagementService_CreateEscrow_AmountMismatch(t *testing.T) {
	d := setupManagementService(t)
	defer d.ctrl.Finish()

	params := externalParams()
	params.BrokerFee = 50000 // 900000 + 50000 != 1000000

	_, err := d.svc.CreateEscrow(context.Background(), params)
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ESC_002", appErr.Code)
}

func TestManagementService_CreateEscrow_External_MissingSeed(t *testing.T) {
	d := setupManagementService(t)
	defer d.ctrl.Finish()

	params := externalParams()
	params.IssuerSeed = nil

	_, err := d.svc.CreateEscrow(context.Background(), params)
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ESC_004", appErr.Code)
}

func TestManagementService_CreateEscrow_PlatformMinted_CopiesProjectFields(t *testing.T) {
	d := setupManagementService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	projectID := uuid.New()

	d.projectRepo.EXPECT().GetByID(ctx, projectID).Return(&domain.ProjectRecord{
		ID:             projectID,
		Name:           "Genesis Drop",
		CreatorAddress: "rCREATOR000000000000000000000000000000000",
		Taxon:          42,
	}, nil)
	d.escrowRepo.EXPECT().Create(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, e *domain.EscrowRecord) error {
			assert.Equal(t, "rCREATOR000000000000000000000000000000000", e.CreatorAddress)
			assert.Equal(t, uint32(42), e.Taxon)
			assert.Nil(t, e.IssuerSeedEnc)
			return nil
		})

	_, err := d.svc.CreateEscrow(ctx, ports.CreateEscrowParams{
		PlatformType: domain.PlatformTypePlatformMinted,
		TotalAmount:  1000000,
		MintCost:     900000,
		BrokerFee:    100000,
		BuyerAddress: "rBUYER00000000000000000000000000000000000",
		ProjectID:    &projectID,
	})
	require.NoError(t, err)
}

func TestManagementService_CreateEscrow_PlatformMinted_ProjectNotFound(t *testing.T) {
	d := setupManagementService(t)
	defer d.ctrl.Finish()

	projectID := uuid.New()
	d.projectRepo.EXPECT().GetByID(gomock.Any(), projectID).Return(nil, nil)

	_, err := d.svc.CreateEscrow(context.Background(), ports.CreateEscrowParams{
		PlatformType: domain.PlatformTypePlatformMinted,
		TotalAmount:  1000000,
		MintCost:     900000,
		BrokerFee:    100000,
		BuyerAddress: "rBUYER00000000000000000000000000000000000",
		ProjectID:    &projectID,
	})
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ESC_001", appErr.Code)
}

func TestManagementService_GetEscrow_NotFound(t *testing.T) {
	d := setupManagementService(t)
	defer d.ctrl.Finish()

	d.escrowRepo.EXPECT().GetByID(gomock.Any(), "missing").Return(nil, nil)

	_, err := d.svc.GetEscrow(context.Background(), "missing")
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "ESC_001", appErr.Code)
}

func TestManagementService_CreateProject(t *testing.T) {
	d := setupManagementService(t)
	defer d.ctrl.Finish()

	d.projectRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)

	p, err := d.svc.CreateProject(context.Background(), ports.CreateProjectParams{
		Name:              "Genesis Drop",
		CreatorAddress:    "rCREATOR000000000000000000000000000000000",
		Taxon:             42,
		RoyaltyPercentage: 2.5,
	})
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, p.ID)
	assert.Equal(t, 2.5, p.RoyaltyPercentage)
}

func TestManagementService_CreateProject_RoyaltyOutOfRange(t *testing.T) {
	d := setupManagementService(t)
	defer d.ctrl.Finish()

	_, err := d.svc.CreateProject(context.Background(), ports.CreateProjectParams{
		Name:              "Greedy Drop",
		CreatorAddress:    "rCREATOR000000000000000000000000000000000",
		RoyaltyPercentage: 51,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "royalty_percentage")
}

func TestManagementService_CreateEscrow_RepoFailure(t *testing.T) {
	d := setupManagementService(t)
	defer d.ctrl.Finish()

	d.vault.EXPECT().Encrypt(gomock.Any()).Return("enc", nil)
	d.escrowRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("duplicate key"))

	_, err := d.svc.CreateEscrow(context.Background(), externalParams())
	require.Error(t, err)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_001", appErr.Code)
}
