package ports

import (
	"context"

	"nft-escrow-broker/internal/core/domain"
)

// Signer is one ledger signing identity: the broker's own wallet or an
// issuer wallet reconstructed from a decrypted seed.
type Signer interface {
	Address() string
	PublicKeyHex() string
	// Sign returns the hex-encoded signature over the payload.
	Sign(payload []byte) (string, error)
}

// WalletFactory builds a signer from a hex-encoded seed.
type WalletFactory func(seed string) (Signer, error)

// LedgerSubmitter submits a signed operation and waits for its final
// validation by the ledger. A non-success outcome code is returned as an
// error. The wait is bounded only by ctx and the transport.
type LedgerSubmitter interface {
	SubmitAndWait(ctx context.Context, tx *domain.LedgerTx, signer Signer) (*domain.SubmitResult, error)
}

// LedgerStream exposes the subscription side of the ledger connection: raw
// validated transaction envelopes touching the broker account, in the
// ledger's delivery order on the current connection.
type LedgerStream interface {
	Transactions() <-chan domain.TransactionEnvelope
}
