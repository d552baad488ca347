package ledger

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"nft-escrow-broker/internal/core/domain"
	"nft-escrow-broker/internal/core/ports"
)

// canonicalJSON serialises a transaction with lexicographically sorted keys
// so that signer and validators agree byte-for-byte on the signing payload.
func canonicalJSON(tx *domain.LedgerTx) ([]byte, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("marshaling transaction: %w", err)
	}
	// Round-trip through a map: encoding/json writes map keys sorted.
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("canonicalizing transaction: %w", err)
	}
	return json.Marshal(m)
}

// signTx fills the signing envelope: the signature covers the canonical
// serialization of the transaction with SigningPubKey set and TxnSignature
// absent. The returned hash identifies the signed transaction.
func signTx(tx *domain.LedgerTx, signer ports.Signer) (string, error) {
	tx.SigningPubKey = signer.PublicKeyHex()
	tx.TxnSignature = ""
	tx.Hash = ""

	payload, err := canonicalJSON(tx)
	if err != nil {
		return "", err
	}
	sig, err := signer.Sign(payload)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}
	tx.TxnSignature = sig

	signed, err := canonicalJSON(tx)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(signed)
	hash := strings.ToUpper(hex.EncodeToString(sum[:]))
	tx.Hash = hash
	return hash, nil
}
