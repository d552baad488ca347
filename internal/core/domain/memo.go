package domain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// MemoPayload is the correlation record a buyer attaches to the escrow
// payment: UTF-8 JSON, hex-encoded in the transaction memo.
type MemoPayload struct {
	CorrelationID string       `json:"correlationId"`
	PlatformHint  PlatformType `json:"platformHint"`
}

// EncodeMemo serialises a memo payload to the hex form carried on the wire.
func EncodeMemo(p MemoPayload) (string, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("marshaling memo payload: %w", err)
	}
	return hex.EncodeToString(data), nil
}

// DecodeMemo parses a hex-encoded memo payload. Returns an error for
// malformed hex, invalid JSON or missing fields; callers treat any error as
// "not an escrow memo", never as a fault.
func DecodeMemo(memoHex string) (*MemoPayload, error) {
	raw, err := hex.DecodeString(memoHex)
	if err != nil {
		return nil, fmt.Errorf("decoding memo hex: %w", err)
	}
	var p MemoPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parsing memo payload: %w", err)
	}
	if p.CorrelationID == "" {
		return nil, fmt.Errorf("memo payload missing correlationId")
	}
	if !p.PlatformHint.IsValid() {
		return nil, fmt.Errorf("memo payload missing or invalid platformHint")
	}
	return &p, nil
}
