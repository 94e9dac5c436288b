// Package signer holds the process signing key used to attest deployment
// payments. A Signer is built once at startup and passed to the services that
// need it.
package signer

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mintroai/payment-service/libs/go/constants"
	"github.com/mintroai/payment-service/libs/go/logger"
	"go.uber.org/zap"
)

// InsecureTestKey is the well-known private key 0x...01. Anyone can sign with it.
// It is only used when no key is configured outside production.
const InsecureTestKey = "0x0000000000000000000000000000000000000000000000000000000000000001"

const (
	signatureLength = crypto.SignatureLength
	recoveryIDIndex = crypto.RecoveryIDOffset
	legacyVOffset   = 27
)

var (
	// ErrInvalidKey indicates the configured private key cannot be parsed.
	ErrInvalidKey = errors.New("signer: invalid private key")

	// ErrNoKeyConfigured indicates no key was configured and the insecure fallback is not allowed.
	ErrNoKeyConfigured = errors.New("signer: no signing key configured")

	// ErrInvalidSignature indicates a signature that cannot be used for recovery.
	ErrInvalidSignature = errors.New("signer: invalid signature")
)

// Signer signs messages under the Ethereum personal message convention.
type Signer struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
	insecure   bool
}

// NewSigner parses a hex private key, with or without 0x prefix.
func NewSigner(privateKeyHex string) (*Signer, error) {
	privateKeyHex = strings.TrimPrefix(strings.TrimSpace(privateKeyHex), "0x")
	privateKey, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, ErrInvalidKey
	}
	return NewSignerFromKey(privateKey), nil
}

// NewSignerFromKey wraps an existing key.
func NewSignerFromKey(key *ecdsa.PrivateKey) *Signer {
	return &Signer{
		privateKey: key,
		address:    crypto.PubkeyToAddress(key.PublicKey),
	}
}

// LoadSigner builds the process signer from configuration.
//
// With no key configured, production refuses to start. Other stages fall back to
// InsecureTestKey only when allowInsecure is set, and say so loudly.
func LoadSigner(privateKeyHex, stage string, allowInsecure bool) (*Signer, error) {
	log := logger.ForComponent(logger.ComponentSigner)

	if strings.TrimSpace(privateKeyHex) != "" {
		s, err := NewSigner(privateKeyHex)
		if err != nil {
			return nil, err
		}
		log.Info("Signer initialized", zap.String("address", s.Address().Hex()))
		return s, nil
	}

	if stage == constants.ProdEnvironment {
		log.Error("SIGNER_PRIVATE_KEY is not set; refusing to start in production")
		return nil, fmt.Errorf("%w: stage %s requires SIGNER_PRIVATE_KEY", ErrNoKeyConfigured, stage)
	}
	if !allowInsecure {
		return nil, fmt.Errorf("%w: set SIGNER_PRIVATE_KEY or ALLOW_INSECURE_SIGNER=true", ErrNoKeyConfigured)
	}

	s, err := NewSigner(InsecureTestKey)
	if err != nil {
		return nil, err
	}
	s.insecure = true

	log.Warn("==================================================================")
	log.Warn("WARNING: SIGNER_PRIVATE_KEY not set, using the PUBLIC insecure test key",
		zap.String("address", s.Address().Hex()),
		zap.String("stage", stage))
	log.Warn("Signatures issued by this process can be forged by anyone. NEVER deploy this configuration.")
	log.Warn("==================================================================")

	return s, nil
}

// Address returns the signer's public address.
func (s *Signer) Address() common.Address {
	return s.address
}

// Insecure reports whether the signer uses the well-known test key.
func (s *Signer) Insecure() bool {
	return s.insecure
}

// SignPersonalMessage signs keccak256("\x19Ethereum Signed Message:\n" + len(msg) + msg).
// The returned signature is r || s || v with v in {27, 28}.
func (s *Signer) SignPersonalMessage(msg []byte) ([]byte, error) {
	sig, err := crypto.Sign(accounts.TextHash(msg), s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign message: %w", err)
	}
	sig[recoveryIDIndex] += legacyVOffset
	return sig, nil
}

// RecoverPersonalMessageSigner returns the address that produced sig over msg
// under the personal message convention. Both {0, 1} and {27, 28} v values
// are accepted.
func RecoverPersonalMessageSigner(msg, sig []byte) (common.Address, error) {
	if len(sig) != signatureLength {
		return common.Address{}, ErrInvalidSignature
	}

	normalized := make([]byte, signatureLength)
	copy(normalized, sig)
	if normalized[recoveryIDIndex] >= legacyVOffset {
		normalized[recoveryIDIndex] -= legacyVOffset
	}
	if normalized[recoveryIDIndex] > 1 {
		return common.Address{}, ErrInvalidSignature
	}

	pub, err := crypto.SigToPub(accounts.TextHash(msg), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
