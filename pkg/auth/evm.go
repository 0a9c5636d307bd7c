package auth

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrMalformedMessage is returned when X-Message does not follow "<prefix>:<unix seconds>".
	ErrMalformedMessage = errors.New("malformed auth message")
	// ErrMessageExpired is returned when the signed timestamp is outside the allowed window.
	ErrMessageExpired = errors.New("auth message expired")
)

// VerifyEIP191Signature verifies an EIP-191 personal_sign signature
// Returns the recovered Ethereum address if valid
func VerifyEIP191Signature(message, signature string) (common.Address, error) {
	sigBytes, err := hex.DecodeString(strings.TrimPrefix(signature, "0x"))
	if err != nil {
		return common.Address{}, fmt.Errorf("invalid signature hex: %w", err)
	}

	if len(sigBytes) != crypto.SignatureLength {
		return common.Address{}, fmt.Errorf("invalid signature length: expected %d, got %d", crypto.SignatureLength, len(sigBytes))
	}

	// v can be 0, 1, 27, or 28
	if sigBytes[crypto.RecoveryIDOffset] >= 27 {
		sigBytes[crypto.RecoveryIDOffset] -= 27
	}

	pubKey, err := crypto.SigToPub(PersonalMessageHash(message), sigBytes)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to recover public key: %w", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

// PersonalMessageHash returns the keccak256 hash of the EIP-191 prefixed message.
func PersonalMessageHash(message string) []byte {
	prefixed := fmt.Sprintf("\x19Ethereum Signed Message:\n%d%s", len(message), message)
	return crypto.Keccak256([]byte(prefixed))
}

// OperatorMessage builds the message an operator signs at the given time.
func OperatorMessage(prefix string, at time.Time) string {
	return prefix + ":" + strconv.FormatInt(at.Unix(), 10)
}

// VerifyOperatorMessage checks the message format and freshness, then recovers the signer.
// A timestamp further than maxAge from now in either direction is rejected; maxAge <= 0 disables the check.
func VerifyOperatorMessage(message, signature, prefix string, maxAge time.Duration, now time.Time) (common.Address, error) {
	rest, ok := strings.CutPrefix(message, prefix+":")
	if !ok {
		return common.Address{}, fmt.Errorf("%w: expected prefix %q", ErrMalformedMessage, prefix)
	}
	ts, err := strconv.ParseInt(rest, 10, 64)
	if err != nil {
		return common.Address{}, fmt.Errorf("%w: invalid timestamp", ErrMalformedMessage)
	}

	if maxAge > 0 {
		age := now.Sub(time.Unix(ts, 0))
		if age > maxAge || age < -maxAge {
			return common.Address{}, fmt.Errorf("%w: signed %s ago", ErrMessageExpired, age.Truncate(time.Second))
		}
	}

	return VerifyEIP191Signature(message, signature)
}

// ValidateEVMAddress checks if a string is a valid EVM address
func ValidateEVMAddress(address string) bool {
	if !strings.HasPrefix(address, "0x") {
		return false
	}
	if len(address) != 42 {
		return false
	}
	_, err := hex.DecodeString(address[2:])
	return err == nil
}

// NormalizeAddress returns a checksummed EVM address
func NormalizeAddress(address string) string {
	return common.HexToAddress(address).Hex()
}
