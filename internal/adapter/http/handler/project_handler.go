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

// ProjectHandler handles project management endpoints.
type ProjectHandler struct {
	mgmtSvc ports.EscrowManagementService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(mgmtSvc ports.EscrowManagementService) *ProjectHandler {
	return &ProjectHandler{mgmtSvc: mgmtSvc}
}

// CreateProject handles POST /api/v1/projects.
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	project, err := h.mgmtSvc.CreateProject(c.Request.Context(), ports.CreateProjectParams{
		Name:              req.Name,
		CreatorAddress:    req.CreatorAddress,
		Taxon:             req.Taxon,
		RoyaltyPercentage: req.RoyaltyPercentage,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toProjectResponse(project))
}

// GetProject handles GET /api/v1/projects/:id.
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("project id must be a valid UUID"))
		return
	}

	project, err := h.mgmtSvc.GetProject(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, toProjectResponse(project))
}

// toProjectResponse converts a domain.ProjectRecord to its DTO.
func toProjectResponse(p *domain.ProjectRecord) dto.ProjectResponse {
	return dto.ProjectResponse{
		ID:                p.ID.String(),
		Name:              p.Name,
		CreatorAddress:    p.CreatorAddress,
		Taxon:             p.Taxon,
		RoyaltyPercentage: p.RoyaltyPercentage,
		CreatedAt:         p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
