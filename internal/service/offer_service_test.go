package service

import (
	"context"
	"errors"
	"testing"

	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"
	"nft-escrow-broker/internal/core/ports/mocks"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func offerMeta(index string) *domain.TxMeta {
	return &domain.TxMeta{
		TransactionResult: domain.ResultSuccess,
		AffectedNodes: []domain.AffectedNode{{
			CreatedNode: &domain.NodeDetail{
				LedgerEntryType: "NFTokenOffer",
				LedgerIndex:     index,
			},
		}},
	}
}

type offerTestDeps struct {
	svc       *OfferServiceImpl
	submitter *mocks.MockLedgerSubmitter
	vault     *mocks.MockVaultService
	ctrl      *gomock.Controller
}

func setupOfferService(t *testing.T) *offerTestDeps {
	ctrl := gomock.NewController(t)
	d := &offerTestDeps{
		submitter: mocks.NewMockLedgerSubmitter(ctrl),
		vault:     mocks.NewMockVaultService(ctrl),
		ctrl:      ctrl,
	}
	factory := func(seed string) (ports.Signer, error) {
		return fakeSigner{addr: issuerAddress}, nil
	}
	d.svc = NewOfferService(d.submitter, d.vault, fakeSigner{addr: brokerAddress}, factory, zerolog.Nop())
	return d
}

func TestOfferService_BrokerOwnedToken(t *testing.T) {
	d := setupOfferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	escrow := externalEscrow()
	mint := &ports.MintResult{TxHash: "MINT", TokenID: "TOKEN1", OwnerAddress: brokerAddress}

	d.submitter.EXPECT().
		SubmitAndWait(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *domain.LedgerTx, signer ports.Signer) (*domain.SubmitResult, error) {
			assert.Equal(t, brokerAddress, signer.Address())
			assert.Equal(t, domain.TxTypeNFTokenCreateOffer, tx.TransactionType)
			assert.Equal(t, "TOKEN1", tx.NFTokenID)
			// Zero-cost and directed at the buyer only.
			assert.Equal(t, "0", tx.Amount)
			assert.Equal(t, escrow.BuyerAddress, tx.Destination)
			assert.Equal(t, domain.FlagSellOffer, tx.Flags)
			return &domain.SubmitResult{Hash: "OFFERHASH", Result: domain.ResultSuccess, Meta: offerMeta("IDX1")}, nil
		})

	res, err := d.svc.CreateOffer(ctx, escrow, mint)
	require.NoError(t, err)
	assert.Equal(t, "OFFERHASH", res.TxHash)
	assert.Equal(t, "IDX1", res.OfferIndex)
}

func TestOfferService_IssuerOwnedToken(t *testing.T) {
	d := setupOfferService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	escrow := externalEscrow()
	mint := &ports.MintResult{TxHash: "MINT", TokenID: "TOKEN1", OwnerAddress: issuerAddress}

	d.vault.EXPECT().Decrypt("encrypted-seed-blob").Return("plain-seed", nil)
	d.submitter.EXPECT().
		SubmitAndWait(ctx, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *domain.LedgerTx, signer ports.Signer) (*domain.SubmitResult, error) {
			assert.Equal(t, issuerAddress, signer.Address())
			assert.Equal(t, issuerAddress, tx.Account)
			return &domain.SubmitResult{Hash: "OFFERHASH2", Result: domain.ResultSuccess, Meta: offerMeta("IDX2")}, nil
		})

	res, err := d.svc.CreateOffer(ctx, escrow, mint)
	require.NoError(t, err)
	assert.Equal(t, "IDX2", res.OfferIndex)
}

func TestOfferService_OwnerMismatch(t *testing.T) {
	d := setupOfferService(t)
	defer d.ctrl.Finish()

	escrow := externalEscrow()
	// The reconstructed issuer wallet does not own this token.
	mint := &ports.MintResult{TxHash: "MINT", TokenID: "TOKEN1", OwnerAddress: "rSOMEONEELSE00000000000000000000000000000"}

	d.vault.EXPECT().Decrypt("encrypted-seed-blob").Return("plain-seed", nil)

	_, err := d.svc.CreateOffer(context.Background(), escrow, mint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not match token owner")
}

func TestOfferService_NonBrokerOwnerWithoutSeed(t *testing.T) {
	d := setupOfferService(t)
	defer d.ctrl.Finish()

	escrow := externalEscrow()
	escrow.IssuerSeedEnc = nil
	mint := &ports.MintResult{TxHash: "MINT", TokenID: "TOKEN1", OwnerAddress: issuerAddress}

	_, err := d.svc.CreateOffer(context.Background(), escrow, mint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no issuer seed")
}

func TestOfferService_OfferIndexAbsentFromMeta(t *testing.T) {
	d := setupOfferService(t)
	defer d.ctrl.Finish()

	escrow := externalEscrow()
	mint := &ports.MintResult{TxHash: "MINT", TokenID: "TOKEN1", OwnerAddress: brokerAddress}

	d.submitter.EXPECT().SubmitAndWait(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&domain.SubmitResult{Hash: "H", Result: domain.ResultSuccess, Meta: &domain.TxMeta{TransactionResult: domain.ResultSuccess}}, nil)

	_, err := d.svc.CreateOffer(context.Background(), escrow, mint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no offer entry found")
}

func TestOfferService_SubmitFailure(t *testing.T) {
	d := setupOfferService(t)
	defer d.ctrl.Finish()

	escrow := externalEscrow()
	mint := &ports.MintResult{TxHash: "MINT", TokenID: "TOKEN1", OwnerAddress: brokerAddress}

	d.submitter.EXPECT().SubmitAndWait(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, errors.New("websocket closed"))

	_, err := d.svc.CreateOffer(context.Background(), escrow, mint)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "offer submission")
}
