package postgres

import (
	"context"
	"errors"
	"fmt"

	"nft-escrow-broker/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProjectRepo implements ports.ProjectRepository.
type ProjectRepo struct {
	pool Pool
}

// NewProjectRepo creates a new ProjectRepo.
func NewProjectRepo(pool Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

// Create inserts a new project record.
func (r *ProjectRepo) Create(ctx context.Context, p *domain.ProjectRecord) error {
	query := `INSERT INTO projects (id, name, creator_address, taxon, royalty_percentage, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.CreatorAddress, p.Taxon, p.RoyaltyPercentage, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert project: %w", err)
	}
	return nil
}

// GetByID fetches a project by UUID. Returns nil, nil when the project does
// not exist.
func (r *ProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ProjectRecord, error) {
	query := `SELECT id, name, creator_address, taxon, royalty_percentage, created_at
		FROM projects WHERE id = $1`

	p := &domain.ProjectRecord{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&p.ID, &p.Name, &p.CreatorAddress, &p.Taxon, &p.RoyaltyPercentage, &p.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan project: %w", err)
	}
	return p, nil
}
