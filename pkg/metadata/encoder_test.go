package metadata

import (
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chainsafe/nft-minter/pkg/mint"
)

func TestEncodeText(t *testing.T) {
	assert.Equal(t, "0x57494e45", EncodeText("WINE").String())
	assert.Equal(t, "0x4368c3a2746561750a", EncodeText("Château\n").String())
	assert.Equal(t, "0x", EncodeText("").String())
}

func TestTextRoundTrip(t *testing.T) {
	inputs := []string{
		"Château Test",
		"Vintage",
		"ipfs://bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy",
		"日本酒 🍶",
		"line\nbreak\ttab",
	}
	for _, in := range inputs {
		assert.Equal(t, in, DecodeText(EncodeText(in)))

		out, err := DecodeHex(EncodeText(in).String())
		require.NoError(t, err)
		assert.Equal(t, in, out)
	}
}

func TestDecodeHex_Errors(t *testing.T) {
	_, err := DecodeHex("0xzz")
	assert.Error(t, err)

	_, err = DecodeHex("0xff")
	assert.Error(t, err, "invalid utf-8")

	out, err := DecodeHex("57494e45")
	require.NoError(t, err)
	assert.Equal(t, "WINE", out)
}

func TestValidateDraft(t *testing.T) {
	valid := mint.TokenDraft{Name: "n", Description: "d", Symbol: "s", TokenID: big.NewInt(0)}
	require.NoError(t, ValidateDraft(valid))

	tests := map[string]func(d *mint.TokenDraft){
		"empty name":        func(d *mint.TokenDraft) { d.Name = "" },
		"blank description": func(d *mint.TokenDraft) { d.Description = "   " },
		"empty symbol":      func(d *mint.TokenDraft) { d.Symbol = "" },
		"nil token id":      func(d *mint.TokenDraft) { d.TokenID = nil },
		"negative token id": func(d *mint.TokenDraft) { d.TokenID = big.NewInt(-1) },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			d := valid
			mutate(&d)
			err := ValidateDraft(d)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEncoding))
		})
	}
}

func TestEncode(t *testing.T) {
	tokenID := big.NewInt(0)
	draft := mint.TokenDraft{Name: "Château Test", Description: "Vintage", Symbol: "WINE", TokenID: tokenID}

	args, err := Encode(draft, "ipfs://QmTest")
	require.NoError(t, err)

	assert.Equal(t, int64(0), args.TokenID.Int64())
	assert.Equal(t, "Château Test", DecodeText(args.Name))
	assert.Equal(t, "Vintage", DecodeText(args.Description))
	assert.Equal(t, "0x57494e45", args.Symbol.String())
	assert.Equal(t, "ipfs://QmTest", DecodeText(args.URI))
	assert.Len(t, args.Fields(), 5)

	tokenID.SetInt64(42)
	assert.Equal(t, int64(0), args.TokenID.Int64(), "args must not alias the draft token id")
}

func TestEncode_LargeTokenID(t *testing.T) {
	huge, ok := new(big.Int).SetString("115792089237316195423570985008687907853269984665640564039457584007913129639935", 10)
	require.True(t, ok)

	args, err := Encode(mint.TokenDraft{Name: "n", Description: "d", Symbol: "s", TokenID: huge}, "ipfs://x")
	require.NoError(t, err)
	assert.Equal(t, 0, huge.Cmp(args.TokenID))
}

func TestEncode_MissingLocator(t *testing.T) {
	_, err := Encode(mint.TokenDraft{Name: "n", Description: "d", Symbol: "s", TokenID: big.NewInt(1)}, "")
	assert.ErrorIs(t, err, ErrEncoding)
}
