package service

import (
	"strconv"

	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"

	"github.com/rs/zerolog"
)

// TxFilter implements ports.MemoDecoder. It reduces the raw subscription
// stream to escrow payments addressed to the broker account. Third-party
// payments to the broker are expected traffic, so every rejection path is
// a silent ignore, never an error.
type TxFilter struct {
	brokerAddress string
	log           zerolog.Logger
}

// NewTxFilter creates a filter bound to one broker account.
func NewTxFilter(brokerAddress string, log zerolog.Logger) *TxFilter {
	return &TxFilter{brokerAddress: brokerAddress, log: log}
}

// Decode returns the decoded payment and true when the envelope is a
// finally-validated, successful value transfer to the broker account whose
// memo parses to an escrow correlation payload.
func (f *TxFilter) Decode(env *domain.TransactionEnvelope) (*ports.DecodedPayment, bool) {
	if env == nil || !env.Validated {
		return nil, false
	}
	if env.EngineResult != domain.ResultSuccess {
		return nil, false
	}
	tx := &env.Transaction
	if tx.TransactionType != domain.TxTypePayment {
		return nil, false
	}
	if tx.Destination != f.brokerAddress {
		return nil, false
	}

	amount, err := strconv.ParseInt(tx.Amount, 10, 64)
	if err != nil || amount < 0 {
		return nil, false
	}

	// First memo that decodes to a correlation payload wins.
	for _, wrapper := range tx.Memos {
		payload, err := domain.DecodeMemo(wrapper.Memo.MemoData)
		if err != nil {
			f.log.Debug().Err(err).Str("tx_hash", tx.Hash).Msg("memo did not decode, skipping")
			continue
		}
		return &ports.DecodedPayment{
			CorrelationID: payload.CorrelationID,
			PlatformHint:  payload.PlatformHint,
			Amount:        amount,
			TxHash:        tx.Hash,
			Sender:        tx.Account,
		}, true
	}
	return nil, false
}
