package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEscrowRecord_IsTerminal(t *testing.T) {
	tests := []struct {
		name   string
		status EscrowStatus
		want   bool
	}{
		{"pending payment", EscrowStatusPendingPayment, false},
		{"payment received", EscrowStatusPaymentReceived, false},
		{"minted", EscrowStatusMinted, false},
		{"offer created", EscrowStatusOfferCreated, false},
		{"distributed", EscrowStatusDistributed, true},
		{"failed", EscrowStatusFailed, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &EscrowRecord{Status: tt.status}
			assert.Equal(t, tt.want, e.IsTerminal())
		})
	}
}

func TestEscrowRecord_AmountsConsistent(t *testing.T) {
	tests := []struct {
		name                       string
		total, mintCost, brokerFee int64
		want                       bool
	}{
		{"exact split", 1000000, 900000, 100000, true},
		{"zero fee", 500, 500, 0, true},
		{"short by one", 1000000, 900000, 99999, false},
		{"over by one", 1000000, 900000, 100001, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := &EscrowRecord{TotalAmount: tt.total, MintCost: tt.mintCost, BrokerFee: tt.brokerFee}
			assert.Equal(t, tt.want, e.AmountsConsistent())
		})
	}
}

func TestPlatformType_IsValid(t *testing.T) {
	assert.True(t, PlatformTypeExternal.IsValid())
	assert.True(t, PlatformTypePlatformMinted.IsValid())
	assert.False(t, PlatformType("").IsValid())
	assert.False(t, PlatformType("SELF_CUSTODY").IsValid())
}

func TestProjectRecord_TransferFee(t *testing.T) {
	tests := []struct {
		name    string
		royalty float64
		want    uint16
	}{
		{"zero royalty", 0, 0},
		{"fractional percent", 2.5, 2500},
		{"whole percent", 10, 10000},
		{"maximum", 50, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &ProjectRecord{RoyaltyPercentage: tt.royalty}
			assert.Equal(t, tt.want, p.TransferFee())
		})
	}
}

func TestEncodeDecodeMemo_RoundTrip(t *testing.T) {
	payload := MemoPayload{
		CorrelationID: "8f14e45f-ceea-467f-aab6-3b1f8f0a9c21",
		PlatformHint:  PlatformTypeExternal,
	}

	memoHex, err := EncodeMemo(payload)
	require.NoError(t, err)

	decoded, err := DecodeMemo(memoHex)
	require.NoError(t, err)
	assert.Equal(t, payload, *decoded)
}

func TestDecodeMemo_Rejections(t *testing.T) {
	tests := []struct {
		name string
		memo string
	}{
		{"not hex", "zz-not-hex"},
		{"hex but not json", "deadbeef"},
		{"json missing correlation id", "7b22706c6174666f726d48696e74223a2245585445524e414c227d"},
		{"json missing platform hint", "7b22636f7272656c6174696f6e4964223a22616263227d"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMemo(tt.memo)
			assert.Error(t, err)
		})
	}
}

func TestTxMeta_MintedTokenID_CreatedPage(t *testing.T) {
	meta := &TxMeta{
		TransactionResult: ResultSuccess,
		AffectedNodes: []AffectedNode{{
			CreatedNode: &NodeDetail{
				LedgerEntryType: "NFTokenPage",
				NewFields: &NodeFields{NFTokens: []NFTokenEntry{
					{NFToken: NFToken{NFTokenID: "TOKEN-FIRST"}},
				}},
			},
		}},
	}

	id, ok := meta.MintedTokenID()
	require.True(t, ok)
	assert.Equal(t, "TOKEN-FIRST", id)
}

func TestTxMeta_MintedTokenID_ModifiedPage(t *testing.T) {
	// A mint onto an existing page shows up as the token present after but
	// not before, regardless of its position on the page.
	meta := &TxMeta{
		AffectedNodes: []AffectedNode{{
			ModifiedNode: &NodeDetail{
				LedgerEntryType: "NFTokenPage",
				PreviousFields: &NodeFields{NFTokens: []NFTokenEntry{
					{NFToken: NFToken{NFTokenID: "TOKEN-OLD"}},
				}},
				FinalFields: &NodeFields{NFTokens: []NFTokenEntry{
					{NFToken: NFToken{NFTokenID: "TOKEN-NEW"}},
					{NFToken: NFToken{NFTokenID: "TOKEN-OLD"}},
				}},
			},
		}},
	}

	id, ok := meta.MintedTokenID()
	require.True(t, ok)
	assert.Equal(t, "TOKEN-NEW", id)
}

func TestTxMeta_MintedTokenID_Absent(t *testing.T) {
	tests := []struct {
		name string
		meta *TxMeta
	}{
		{"nil meta", nil},
		{"no nodes", &TxMeta{}},
		{"unrelated entry", &TxMeta{AffectedNodes: []AffectedNode{{
			CreatedNode: &NodeDetail{LedgerEntryType: "DirectoryNode"},
		}}}},
		{"page unchanged", &TxMeta{AffectedNodes: []AffectedNode{{
			ModifiedNode: &NodeDetail{
				LedgerEntryType: "NFTokenPage",
				PreviousFields: &NodeFields{NFTokens: []NFTokenEntry{
					{NFToken: NFToken{NFTokenID: "TOKEN-OLD"}},
				}},
				FinalFields: &NodeFields{NFTokens: []NFTokenEntry{
					{NFToken: NFToken{NFTokenID: "TOKEN-OLD"}},
				}},
			},
		}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := tt.meta.MintedTokenID()
			assert.False(t, ok)
		})
	}
}

func TestTxMeta_CreatedOfferIndex(t *testing.T) {
	meta := &TxMeta{
		AffectedNodes: []AffectedNode{
			{ModifiedNode: &NodeDetail{LedgerEntryType: "AccountRoot"}},
			{CreatedNode: &NodeDetail{LedgerEntryType: "NFTokenOffer", LedgerIndex: "OFFERIDX01"}},
		},
	}

	idx, ok := meta.CreatedOfferIndex()
	require.True(t, ok)
	assert.Equal(t, "OFFERIDX01", idx)

	_, ok = (&TxMeta{}).CreatedOfferIndex()
	assert.False(t, ok)
	var nilMeta *TxMeta
	_, ok = nilMeta.CreatedOfferIndex()
	assert.False(t, ok)
}
