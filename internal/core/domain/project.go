package domain

import (
	"time"

	"github.com/google/uuid"
)

// ProjectRecord supplies the creator address, taxon and royalty for
// PLATFORM_MINTED escrows. It is owned by the surrounding product; the
// escrow engine reads it and never writes it.
type ProjectRecord struct {
	ID                uuid.UUID `json:"id"`
	Name              string    `json:"name"`
	CreatorAddress    string    `json:"creator_address"`
	Taxon             uint32    `json:"taxon"`
	RoyaltyPercentage float64   `json:"royalty_percentage"` // 0-50, e.g. 2.5 = 2.5%
	CreatedAt         time.Time `json:"created_at"`
}

// TransferFee converts the royalty percentage to the ledger's
// basis-point-of-a-percent convention (percentage x 1000).
func (p *ProjectRecord) TransferFee() uint16 {
	return uint16(p.RoyaltyPercentage * 1000)
}
