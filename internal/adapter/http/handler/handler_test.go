package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"nft-escrow-broker/internal/adapter/http/dto"
	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"
	"nft-escrow-broker/internal/core/ports/mocks"
	"nft-escrow-broker/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func jsonRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func testEscrowRecord() *domain.EscrowRecord {
	now := time.Now().UTC()
	return &domain.EscrowRecord{
		ID:             "corr-1234",
		PlatformType:   domain.PlatformTypeExternal,
		TotalAmount:    1000000,
		MintCost:       900000,
		BrokerFee:      100000,
		BuyerAddress:   "rBUYER00000000000000000000000000000000000",
		CreatorAddress: "rCREATOR000000000000000000000000000000000",
		Status:         domain.EscrowStatusPendingPayment,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// --- Escrow Handler Tests ---

func TestCreateEscrow_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockEscrowManagementService(ctrl)
	h := NewEscrowHandler(mockSvc)

	escrow := testEscrowRecord()
	seed := "38b915a108685bcec77c795e0ae63d64a7fd2ab4265350deb25cb02c40f94bb5"

	mockSvc.EXPECT().CreateEscrow(gomock.Any(), ports.CreateEscrowParams{
		PlatformType:   domain.PlatformTypeExternal,
		TotalAmount:    1000000,
		MintCost:       900000,
		BrokerFee:      100000,
		BuyerAddress:   escrow.BuyerAddress,
		CreatorAddress: escrow.CreatorAddress,
		IssuerSeed:     &seed,
	}).Return(&ports.CreateEscrowResult{
		Escrow:         escrow,
		DepositAddress: "rBROKER0000000000000000000000000000000000",
		MemoHex:        "7B22636F7272656C6174696F6E4964223A22636F72722D31323334227D",
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/escrows", dto.CreateEscrowRequest{
		PlatformType:   "EXTERNAL",
		TotalAmount:    1000000,
		MintCost:       900000,
		BrokerFee:      100000,
		BuyerAddress:   escrow.BuyerAddress,
		CreatorAddress: escrow.CreatorAddress,
		IssuerSeed:     &seed,
	})

	h.CreateEscrow(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), "corr-1234")
	assert.Contains(t, w.Body.String(), "deposit_address")
	assert.NotContains(t, w.Body.String(), seed, "issuer seed must never appear in the response")
}

func TestCreateEscrow_InvalidPlatformType(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockEscrowManagementService(ctrl)
	h := NewEscrowHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/escrows", map[string]any{
		"platform_type": "SIDECHAIN",
		"total_amount":  1000000,
		"mint_cost":     900000,
		"broker_fee":    100000,
		"buyer_address": "rBUYER00000000000000000000000000000000000",
	})

	h.CreateEscrow(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateEscrow_BadProjectID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockEscrowManagementService(ctrl)
	h := NewEscrowHandler(mockSvc)

	bad := "not-a-uuid"
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/escrows", dto.CreateEscrowRequest{
		PlatformType: "PLATFORM_MINTED",
		TotalAmount:  1000000,
		MintCost:     900000,
		BrokerFee:    100000,
		BuyerAddress: "rBUYER00000000000000000000000000000000000",
		ProjectID:    &bad,
	})

	h.CreateEscrow(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "UUID")
}

func TestGetEscrow_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockEscrowManagementService(ctrl)
	h := NewEscrowHandler(mockSvc)

	escrow := testEscrowRecord()
	escrow.Status = domain.EscrowStatusDistributed

	mockSvc.EXPECT().GetEscrow(gomock.Any(), "corr-1234").Return(escrow, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/escrows/corr-1234", nil)
	c.Params = gin.Params{{Key: "id", Value: "corr-1234"}}

	h.GetEscrow(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "DISTRIBUTED")
}

func TestGetEscrow_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockEscrowManagementService(ctrl)
	h := NewEscrowHandler(mockSvc)

	mockSvc.EXPECT().GetEscrow(gomock.Any(), "missing").Return(nil, apperror.ErrNotFound("escrow"))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/escrows/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	h.GetEscrow(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ESC_001")
}

// --- Project Handler Tests ---

func TestCreateProject_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockEscrowManagementService(ctrl)
	h := NewProjectHandler(mockSvc)

	projectID := uuid.New()
	mockSvc.EXPECT().CreateProject(gomock.Any(), ports.CreateProjectParams{
		Name:              "Genesis Drop",
		CreatorAddress:    "rCREATOR000000000000000000000000000000000",
		Taxon:             7,
		RoyaltyPercentage: 2.5,
	}).Return(&domain.ProjectRecord{
		ID:                projectID,
		Name:              "Genesis Drop",
		CreatorAddress:    "rCREATOR000000000000000000000000000000000",
		Taxon:             7,
		RoyaltyPercentage: 2.5,
		CreatedAt:         time.Now().UTC(),
	}, nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/projects", dto.CreateProjectRequest{
		Name:              "Genesis Drop",
		CreatorAddress:    "rCREATOR000000000000000000000000000000000",
		Taxon:             7,
		RoyaltyPercentage: 2.5,
	})

	h.CreateProject(c)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), projectID.String())
}

func TestCreateProject_RoyaltyOutOfRange(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockEscrowManagementService(ctrl)
	h := NewProjectHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = jsonRequest(t, http.MethodPost, "/api/v1/projects", dto.CreateProjectRequest{
		Name:              "Greedy Drop",
		CreatorAddress:    "rCREATOR000000000000000000000000000000000",
		RoyaltyPercentage: 75,
	})

	h.CreateProject(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetProject_InvalidID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := mocks.NewMockEscrowManagementService(ctrl)
	h := NewProjectHandler(mockSvc)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/api/v1/projects/abc", nil)
	c.Params = gin.Params{{Key: "id", Value: "abc"}}

	h.GetProject(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- Health Handler Tests ---

type fakeChecker struct {
	name string
	err  error
}

func (f fakeChecker) Ping(ctx context.Context) error { return f.err }
func (f fakeChecker) Name() string                   { return f.name }

func TestHealthCheck_AllHealthy(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(fakeChecker{name: "postgresql"}, fakeChecker{name: "redis"})(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"healthy"`)
}

func TestHealthCheck_Degraded(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/health", nil)

	HealthCheck(
		fakeChecker{name: "postgresql"},
		fakeChecker{name: "redis", err: errors.New("connection refused")},
	)(c)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"degraded"`)
	assert.Contains(t, w.Body.String(), "connection refused")
}
