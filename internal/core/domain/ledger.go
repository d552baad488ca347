package domain

// Ledger transaction type names as they appear on the wire.
const (
	TxTypePayment          = "Payment"
	TxTypeNFTokenMint      = "NFTokenMint"
	TxTypeNFTokenCreateOffer = "NFTokenCreateOffer"
)

// ResultSuccess is the ledger outcome code for a successfully applied
// transaction.
const ResultSuccess = "tesSUCCESS"

// Transaction flag bits.
const (
	// FlagTransferable marks a minted token as freely transferable.
	FlagTransferable uint32 = 0x00000008
	// FlagSellOffer marks a transfer offer as a sell-side offer (the owner
	// gives the token away, here at zero cost).
	FlagSellOffer uint32 = 0x00000001
)

// LedgerTx is the JSON transaction body submitted to and received from the
// ledger. Field casing follows the ledger's wire convention.
type LedgerTx struct {
	TransactionType string        `json:"TransactionType"`
	Account         string        `json:"Account,omitempty"`
	Destination     string        `json:"Destination,omitempty"`
	Amount          string        `json:"Amount,omitempty"` // Decimal string, smallest unit
	Fee             string        `json:"Fee,omitempty"`
	Sequence        uint32        `json:"Sequence,omitempty"`
	Flags           uint32        `json:"Flags,omitempty"`
	Memos           []MemoWrapper `json:"Memos,omitempty"`

	// NFTokenMint fields.
	NFTokenTaxon uint32 `json:"NFTokenTaxon,omitempty"`
	TransferFee  uint16 `json:"TransferFee,omitempty"`
	Issuer       string `json:"Issuer,omitempty"`
	URI          string `json:"URI,omitempty"` // Hex-encoded metadata URI

	// NFTokenCreateOffer fields.
	NFTokenID string `json:"NFTokenID,omitempty"`

	// Signing envelope.
	SigningPubKey string `json:"SigningPubKey,omitempty"`
	TxnSignature  string `json:"TxnSignature,omitempty"`

	Hash string `json:"hash,omitempty"`
}

// MemoWrapper matches the ledger's one-level memo nesting.
type MemoWrapper struct {
	Memo Memo `json:"Memo"`
}

// Memo carries an application-defined hex payload on a transaction.
type Memo struct {
	MemoData string `json:"MemoData"`
}

// TransactionEnvelope is a ledger event as delivered on the subscription
// stream: the transaction plus validation status and result metadata.
type TransactionEnvelope struct {
	Type         string   `json:"type"`
	Validated    bool     `json:"validated"`
	EngineResult string   `json:"engine_result"`
	Transaction  LedgerTx `json:"transaction"`
	Meta         *TxMeta  `json:"meta,omitempty"`
}

// TxMeta holds the ledger-state changes produced by an applied transaction.
type TxMeta struct {
	TransactionResult string         `json:"TransactionResult"`
	AffectedNodes     []AffectedNode `json:"AffectedNodes,omitempty"`
}

// AffectedNode is one created/modified/deleted ledger entry in a
// transaction's metadata. Exactly one of the three is set.
type AffectedNode struct {
	CreatedNode  *NodeDetail `json:"CreatedNode,omitempty"`
	ModifiedNode *NodeDetail `json:"ModifiedNode,omitempty"`
	DeletedNode  *NodeDetail `json:"DeletedNode,omitempty"`
}

// NodeDetail describes the before/after fields of an affected ledger entry.
type NodeDetail struct {
	LedgerEntryType string      `json:"LedgerEntryType"`
	LedgerIndex     string      `json:"LedgerIndex,omitempty"`
	NewFields       *NodeFields `json:"NewFields,omitempty"`
	FinalFields     *NodeFields `json:"FinalFields,omitempty"`
	PreviousFields  *NodeFields `json:"PreviousFields,omitempty"`
}

// NodeFields holds the subset of ledger entry fields the engine inspects.
type NodeFields struct {
	NFTokens []NFTokenEntry `json:"NFTokens,omitempty"`
}

// NFTokenEntry wraps one token entry on a token page.
type NFTokenEntry struct {
	NFToken NFToken `json:"NFToken"`
}

// NFToken is a single token as stored on a token page.
type NFToken struct {
	NFTokenID string `json:"NFTokenID"`
	URI       string `json:"URI,omitempty"`
}

// SubmitResult is the final validated outcome of a submitted operation.
type SubmitResult struct {
	Hash   string
	Result string
	Meta   *TxMeta
}

// MintedTokenID scans the metadata for a created or modified token page and
// returns the most recently added token's identifier. The second return is
// false when no new token can be located, which callers must treat as a
// failed mint even if the ledger reported success.
func (m *TxMeta) MintedTokenID() (string, bool) {
	if m == nil {
		return "", false
	}
	id := ""
	for _, node := range m.AffectedNodes {
		switch {
		case node.CreatedNode != nil && node.CreatedNode.LedgerEntryType == "NFTokenPage":
			if fields := node.CreatedNode.NewFields; fields != nil && len(fields.NFTokens) > 0 {
				id = fields.NFTokens[len(fields.NFTokens)-1].NFToken.NFTokenID
			}
		case node.ModifiedNode != nil && node.ModifiedNode.LedgerEntryType == "NFTokenPage":
			if added := addedToken(node.ModifiedNode); added != "" {
				id = added
			}
		}
	}
	return id, id != ""
}

// addedToken diffs a modified token page and returns the last token present
// in the final fields but absent from the previous fields.
func addedToken(node *NodeDetail) string {
	if node.FinalFields == nil {
		return ""
	}
	previous := make(map[string]bool)
	if node.PreviousFields != nil {
		for _, entry := range node.PreviousFields.NFTokens {
			previous[entry.NFToken.NFTokenID] = true
		}
	}
	added := ""
	for _, entry := range node.FinalFields.NFTokens {
		if !previous[entry.NFToken.NFTokenID] {
			added = entry.NFToken.NFTokenID
		}
	}
	return added
}

// CreatedOfferIndex returns the ledger index of the transfer offer entry
// created by an NFTokenCreateOffer transaction.
func (m *TxMeta) CreatedOfferIndex() (string, bool) {
	if m == nil {
		return "", false
	}
	for _, node := range m.AffectedNodes {
		if node.CreatedNode != nil && node.CreatedNode.LedgerEntryType == "NFTokenOffer" {
			return node.CreatedNode.LedgerIndex, true
		}
	}
	return "", false
}
