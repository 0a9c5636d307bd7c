// Package metadata encodes token drafts into the argument tuple of the
// collection's mint entry point.
package metadata

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"go.uber.org/zap"

	"github.com/chainsafe/nft-minter/pkg/mint"
)

// ErrEncoding is returned when a draft cannot be encoded.
var ErrEncoding = errors.New("encoding error")

// Args is the encoded argument tuple (tokenId, name, description, symbol, uri).
type Args struct {
	TokenID     *big.Int
	Name        hexutil.Bytes
	Description hexutil.Bytes
	Symbol      hexutil.Bytes
	URI         hexutil.Bytes
}

// Fields returns zap fields with every encoded argument.
func (a *Args) Fields() []zap.Field {
	return []zap.Field{
		zap.String("token_id", a.TokenID.String()),
		zap.Stringer("name", a.Name),
		zap.Stringer("description", a.Description),
		zap.Stringer("symbol", a.Symbol),
		zap.Stringer("uri", a.URI),
	}
}

// EncodeText returns the UTF-8 bytes of s.
func EncodeText(s string) hexutil.Bytes {
	return hexutil.Bytes(s)
}

// DecodeText is the inverse of EncodeText.
func DecodeText(b hexutil.Bytes) string {
	return string(b)
}

// DecodeHex decodes a 0x-prefixed (or bare) hex string produced by EncodeText.
func DecodeHex(s string) (string, error) {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	b, err := hexutil.Decode(s)
	if err != nil {
		return "", fmt.Errorf("decode hex text: %w", err)
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("decode hex text: invalid utf-8")
	}
	return string(b), nil
}

// ValidateDraft checks the text fields and token id of d.
func ValidateDraft(d mint.TokenDraft) error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return fmt.Errorf("%w: name is required", ErrEncoding)
	case strings.TrimSpace(d.Description) == "":
		return fmt.Errorf("%w: description is required", ErrEncoding)
	case strings.TrimSpace(d.Symbol) == "":
		return fmt.Errorf("%w: symbol is required", ErrEncoding)
	case d.TokenID == nil:
		return fmt.Errorf("%w: token id is required", ErrEncoding)
	case d.TokenID.Sign() < 0:
		return fmt.Errorf("%w: token id must not be negative", ErrEncoding)
	}
	return nil
}

// Encode builds the argument tuple for d with the content locator loc.
func Encode(d mint.TokenDraft, loc mint.ContentLocator) (*Args, error) {
	if err := ValidateDraft(d); err != nil {
		return nil, err
	}
	if loc == "" {
		return nil, fmt.Errorf("%w: content locator is required", ErrEncoding)
	}

	return &Args{
		TokenID:     new(big.Int).Set(d.TokenID),
		Name:        EncodeText(d.Name),
		Description: EncodeText(d.Description),
		Symbol:      EncodeText(d.Symbol),
		URI:         EncodeText(loc.String()),
	}, nil
}
