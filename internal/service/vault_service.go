package service

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/crypto/scrypt"
)

// scrypt parameters for deriving the AES key from the vault passphrase.
const (
	scryptN = 32768
	scryptR = 8
	scryptP = 1
)

// AESVaultService implements ports.VaultService using AES-256-GCM with a
// scrypt-derived key. Issuer seeds are stored as hex(nonce || ciphertext).
type AESVaultService struct {
	key []byte // 32-byte derived key
}

// NewAESVaultService derives the vault key from the passphrase and salt.
// saltHex must decode to at least 16 bytes. An empty passphrase is refused:
// the service cannot safely run without real key material.
func NewAESVaultService(passphrase, saltHex string) (*AESVaultService, error) {
	if passphrase == "" {
		return nil, fmt.Errorf("vault passphrase is empty")
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return nil, fmt.Errorf("decoding vault salt: %w", err)
	}
	if len(salt) < 16 {
		return nil, fmt.Errorf("vault salt must be at least 16 bytes, got %d", len(salt))
	}
	key, err := scrypt.Key([]byte(passphrase), salt, scryptN, scryptR, scryptP, 32)
	if err != nil {
		return nil, fmt.Errorf("deriving vault key: %w", err)
	}
	return &AESVaultService{key: key}, nil
}

// Encrypt encrypts plaintext using AES-256-GCM.
func (s *AESVaultService) Encrypt(plaintext string) (string, error) {
	aesGCM, err := s.gcm()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aesGCM.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generating nonce: %w", err)
	}

	ciphertext := aesGCM.Seal(nonce, nonce, []byte(plaintext), nil)
	return hex.EncodeToString(ciphertext), nil
}

// Decrypt decrypts a hex-encoded AES-256-GCM ciphertext.
func (s *AESVaultService) Decrypt(ciphertextHex string) (string, error) {
	ciphertext, err := hex.DecodeString(ciphertextHex)
	if err != nil {
		return "", fmt.Errorf("decoding ciphertext: %w", err)
	}

	aesGCM, err := s.gcm()
	if err != nil {
		return "", err
	}

	nonceSize := aesGCM.NonceSize()
	if len(ciphertext) < nonceSize {
		return "", fmt.Errorf("ciphertext too short")
	}

	nonce, ciphertext := ciphertext[:nonceSize], ciphertext[nonceSize:]
	plaintext, err := aesGCM.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", fmt.Errorf("decrypting: %w", err)
	}

	return string(plaintext), nil
}

func (s *AESVaultService) gcm() (cipher.AEAD, error) {
	block, err := aes.NewCipher(s.key)
	if err != nil {
		return nil, fmt.Errorf("creating cipher: %w", err)
	}
	aesGCM, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("creating GCM: %w", err)
	}
	return aesGCM, nil
}
