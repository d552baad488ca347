package ledger

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Wallet is an ed25519 signing identity on the ledger. It implements
// ports.Signer for both the broker's own wallet and issuer wallets
// reconstructed from decrypted seeds.
type Wallet struct {
	priv    ed25519.PrivateKey
	pubHex  string
	address string
}

// NewWallet derives a wallet from a hex-encoded 32-byte ed25519 seed.
func NewWallet(seedHex string) (*Wallet, error) {
	seed, err := hex.DecodeString(strings.TrimSpace(seedHex))
	if err != nil {
		return nil, fmt.Errorf("decoding wallet seed: %w", err)
	}
	if len(seed) != ed25519.SeedSize {
		return nil, fmt.Errorf("wallet seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &Wallet{
		priv:    priv,
		pubHex:  strings.ToUpper(hex.EncodeToString(pub)),
		address: deriveAddress(pub),
	}, nil
}

// Address returns the wallet's ledger account address.
func (w *Wallet) Address() string {
	return w.address
}

// PublicKeyHex returns the uppercase hex public key carried in the signing
// envelope.
func (w *Wallet) PublicKeyHex() string {
	return w.pubHex
}

// Sign returns the hex-encoded ed25519 signature over the payload.
func (w *Wallet) Sign(payload []byte) (string, error) {
	sig := ed25519.Sign(w.priv, payload)
	return strings.ToUpper(hex.EncodeToString(sig)), nil
}

// deriveAddress maps a public key to its account address: 'r' plus the
// uppercase hex of the first 20 bytes of SHA-256(pubkey).
func deriveAddress(pub ed25519.PublicKey) string {
	sum := sha256.Sum256(pub)
	return "r" + strings.ToUpper(hex.EncodeToString(sum[:20]))
}
