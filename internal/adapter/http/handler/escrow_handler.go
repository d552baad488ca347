package handler

import (
	"nft-escrow-broker/internal/adapter/http/dto"
	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"
	"nft-escrow-broker/pkg/apperror"
	"nft-escrow-broker/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// EscrowHandler handles escrow management endpoints.
type EscrowHandler struct {
	mgmtSvc ports.EscrowManagementService
}

// NewEscrowHandler creates a new EscrowHandler.
func NewEscrowHandler(mgmtSvc ports.EscrowManagementService) *EscrowHandler {
	return &EscrowHandler{mgmtSvc: mgmtSvc}
}

// CreateEscrow handles POST /api/v1/escrows.
func (h *EscrowHandler) CreateEscrow(c *gin.Context) {
	var req dto.CreateEscrowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	params := ports.CreateEscrowParams{
		PlatformType:   domain.PlatformType(req.PlatformType),
		TotalAmount:    req.TotalAmount,
		MintCost:       req.MintCost,
		BrokerFee:      req.BrokerFee,
		BuyerAddress:   req.BuyerAddress,
		CreatorAddress: req.CreatorAddress,
		MetadataURI:    req.MetadataURI,
		Taxon:          req.Taxon,
		IssuerSeed:     req.IssuerSeed,
	}
	if req.ProjectID != nil {
		projectID, err := uuid.Parse(*req.ProjectID)
		if err != nil {
			response.Error(c, apperror.Validation("project_id must be a valid UUID"))
			return
		}
		params.ProjectID = &projectID
	}

	result, err := h.mgmtSvc.CreateEscrow(c.Request.Context(), params)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.CreateEscrowResponse{
		Escrow:         toEscrowResponse(result.Escrow),
		DepositAddress: result.DepositAddress,
		PaymentMemo:    result.MemoHex,
	})
}

// GetEscrow handles GET /api/v1/escrows/:id.
func (h *EscrowHandler) GetEscrow(c *gin.Context) {
	escrow, err := h.mgmtSvc.GetEscrow(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toEscrowResponse(escrow))
}

// toEscrowResponse converts a domain.EscrowRecord to its DTO.
func toEscrowResponse(e *domain.EscrowRecord) dto.EscrowResponse {
	resp := dto.EscrowResponse{
		ID:                   e.ID,
		PlatformType:         string(e.PlatformType),
		TotalAmount:          e.TotalAmount,
		MintCost:             e.MintCost,
		BrokerFee:            e.BrokerFee,
		BuyerAddress:         e.BuyerAddress,
		CreatorAddress:       e.CreatorAddress,
		MetadataURI:          e.MetadataURI,
		Taxon:                e.Taxon,
		Status:               string(e.Status),
		FailureReason:        e.FailureReason,
		PaymentTxHash:        e.PaymentTxHash,
		MintTxHash:           e.MintTxHash,
		MintedTokenID:        e.MintedTokenID,
		OfferIndex:           e.OfferIndex,
		OfferTxHash:          e.OfferTxHash,
		CreatorPaymentTxHash: e.CreatorPaymentTxHash,
		CreatedAt:            e.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:            e.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if e.ProjectID != nil {
		s := e.ProjectID.String()
		resp.ProjectID = &s
	}
	if e.PaymentValidatedAt != nil {
		s := e.PaymentValidatedAt.Format("2006-01-02T15:04:05Z07:00")
		resp.PaymentValidatedAt = &s
	}
	return resp
}
