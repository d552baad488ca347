package dto

// CreateEscrowRequest is the request body for escrow creation.
type CreateEscrowRequest struct {
	PlatformType   string  `json:"platform_type" binding:"required,oneof=EXTERNAL PLATFORM_MINTED"`
	TotalAmount    int64   `json:"total_amount" binding:"required,gt=0"`
	MintCost       int64   `json:"mint_cost" binding:"required,gt=0"`
	BrokerFee      int64   `json:"broker_fee" binding:"required,gt=0"`
	BuyerAddress   string  `json:"buyer_address" binding:"required"`
	CreatorAddress string  `json:"creator_address,omitempty"`
	MetadataURI    *string `json:"metadata_uri,omitempty"`
	Taxon          uint32  `json:"taxon"`
	ProjectID      *string `json:"project_id,omitempty"`
	IssuerSeed     *string `json:"issuer_seed,omitempty"`
}

// CreateProjectRequest is the request body for project creation.
type CreateProjectRequest struct {
	Name              string  `json:"name" binding:"required,min=1,max=100"`
	CreatorAddress    string  `json:"creator_address" binding:"required"`
	Taxon             uint32  `json:"taxon"`
	RoyaltyPercentage float64 `json:"royalty_percentage" binding:"gte=0,lte=50"`
}

// EscrowResponse is the response body for escrow state. The encrypted
// issuer seed is never exposed.
type EscrowResponse struct {
	ID             string  `json:"id"`
	PlatformType   string  `json:"platform_type"`
	ProjectID      *string `json:"project_id,omitempty"`
	TotalAmount    int64   `json:"total_amount"`
	MintCost       int64   `json:"mint_cost"`
	BrokerFee      int64   `json:"broker_fee"`
	BuyerAddress   string  `json:"buyer_address"`
	CreatorAddress string  `json:"creator_address"`
	MetadataURI    *string `json:"metadata_uri,omitempty"`
	Taxon          uint32  `json:"taxon"`
	Status         string  `json:"status"`
	FailureReason  *string `json:"failure_reason,omitempty"`

	PaymentTxHash        *string `json:"payment_tx_hash,omitempty"`
	MintTxHash           *string `json:"mint_tx_hash,omitempty"`
	MintedTokenID        *string `json:"minted_token_id,omitempty"`
	OfferIndex           *string `json:"offer_index,omitempty"`
	OfferTxHash          *string `json:"offer_tx_hash,omitempty"`
	CreatorPaymentTxHash *string `json:"creator_payment_tx_hash,omitempty"`

	CreatedAt          string  `json:"created_at"`
	PaymentValidatedAt *string `json:"payment_validated_at,omitempty"`
	UpdatedAt          string  `json:"updated_at"`
}

// CreateEscrowResponse is returned on escrow creation with the payment
// instructions for the buyer.
type CreateEscrowResponse struct {
	Escrow         EscrowResponse `json:"escrow"`
	DepositAddress string         `json:"deposit_address"`
	PaymentMemo    string         `json:"payment_memo"` // Hex-encoded memo to attach
}

// ProjectResponse is the response body for project records.
type ProjectResponse struct {
	ID                string  `json:"id"`
	Name              string  `json:"name"`
	CreatorAddress    string  `json:"creator_address"`
	Taxon             uint32  `json:"taxon"`
	RoyaltyPercentage float64 `json:"royalty_percentage"`
	CreatedAt         string  `json:"created_at"`
}
