package contract

import (
	"encoding/hex"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionSelector(t *testing.T) {
	tests := []struct {
		name     string
		fn       ABIEntry
		expected string
	}{
		{
			"balanceOf(address)",
			ABIEntry{Name: "balanceOf", Inputs: []ABIParam{{Type: "address"}}},
			"0x70a08231",
		},
		{
			"transfer(address,uint256)",
			ABIEntry{Name: "transfer", Inputs: []ABIParam{{Type: "address"}, {Type: "uint256"}}},
			"0xa9059cbb",
		},
		{
			"name()",
			ABIEntry{Name: "name", Inputs: []ABIParam{}},
			"0x06fdde03",
		},
		{
			"symbol()",
			ABIEntry{Name: "symbol", Inputs: []ABIParam{}},
			"0x95d89b41",
		},
		{
			"decimals()",
			ABIEntry{Name: "decimals", Inputs: nil},
			"0x313ce567",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, functionSelector(&tt.fn))
		})
	}
}

// ---------------------------------------------------------------------------
// encodeParam
// ---------------------------------------------------------------------------

func TestEncodeParamAddress(t *testing.T) {
	tests := []struct {
		name     string
		val      string
		expected string
	}{
		{
			"lowercase",
			"0x1234567890abcdef1234567890abcdef12345678",
			"0000000000000000000000001234567890abcdef1234567890abcdef12345678",
		},
		{
			"checksummed",
			"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
			"000000000000000000000000f39fd6e51aad88f6f4ce6ab8827279cfffb92266",
		},
		{
			"surrounding whitespace",
			"  0x1234567890abcdef1234567890abcdef12345678 ",
			"0000000000000000000000001234567890abcdef1234567890abcdef12345678",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeParam("address", tt.val)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestEncodeParamAddressInvalid(t *testing.T) {
	for _, val := range []string{"", "0x123", "0xZZ34567890abcdef1234567890abcdef12345678"} {
		_, err := encodeParam("address", val)
		assert.Error(t, err, val)
	}
}

func TestEncodeParamUint256(t *testing.T) {
	tests := []struct {
		name     string
		val      string
		expected string
	}{
		{"zero", "0", strings.Repeat("0", 64)},
		{"one", "1", strings.Repeat("0", 63) + "1"},
		{"hex literal", "0xff", strings.Repeat("0", 62) + "ff"},
		{"one token", "1000000000000000000", strings.Repeat("0", 49) + "de0b6b3a7640000"},
		{"max", "0x" + strings.Repeat("f", 64), strings.Repeat("f", 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeParam("uint256", tt.val)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Len(t, got, 64)
		})
	}
}

func TestEncodeParamUint256Rejects(t *testing.T) {
	tests := []struct {
		name string
		val  string
		msg  string
	}{
		{"decimal fraction", "1.5", "invalid integer"},
		{"text", "abc", "invalid integer"},
		{"empty", "", "invalid integer"},
		{"negative", "-5", "out of range"},
		{"overflow", "0x1" + strings.Repeat("0", 64), "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := encodeParam("uint256", tt.val)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestEncodeParamBool(t *testing.T) {
	got, err := encodeParam("bool", "true")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0", 63)+"1", got)

	got, err = encodeParam("bool", "false")
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("0", 64), got)
}

func TestEncodeParamUnsupportedType(t *testing.T) {
	_, err := encodeParam("bytes", "0x00")
	assert.ErrorContains(t, err, "unsupported")
}

// ---------------------------------------------------------------------------
// encodeCall
// ---------------------------------------------------------------------------

func TestEncodeCallNoArgs(t *testing.T) {
	fn, err := findFunction(erc20ABI, "symbol")
	require.NoError(t, err)

	got, err := encodeCall(fn, nil)
	require.NoError(t, err)
	assert.Equal(t, "0x95d89b41", got)
}

func TestEncodeCallTransfer(t *testing.T) {
	fn, err := findFunction(erc20ABI, "transfer")
	require.NoError(t, err)

	got, err := encodeCall(fn, []string{"0x1234567890abcdef1234567890abcdef12345678", "100"})
	require.NoError(t, err)
	assert.Equal(t,
		"0xa9059cbb"+
			"0000000000000000000000001234567890abcdef1234567890abcdef12345678"+
			"0000000000000000000000000000000000000000000000000000000000000064",
		got)
}

func TestEncodeCallArgCountMismatch(t *testing.T) {
	fn, err := findFunction(erc20ABI, "transfer")
	require.NoError(t, err)

	_, err = encodeCall(fn, []string{"0x1234567890abcdef1234567890abcdef12345678"})
	assert.ErrorContains(t, err, "expects 2 arguments")
}

func TestEncodeCallInvalidArg(t *testing.T) {
	fn, err := findFunction(erc20ABI, "transfer")
	require.NoError(t, err)

	_, err = encodeCall(fn, []string{"0x1234567890abcdef1234567890abcdef12345678", "2.5"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encoding param value")
}

func TestFindFunctionMissing(t *testing.T) {
	_, err := findFunction(erc20ABI, "mint")
	assert.ErrorContains(t, err, `function "mint" not found`)
}

// ---------------------------------------------------------------------------
// decodeWord / decodeResult
// ---------------------------------------------------------------------------

func word(hexStr string) []byte {
	b, _ := hex.DecodeString(strings.Repeat("0", 64-len(hexStr)) + hexStr)
	return b
}

func TestDecodeWordAddress(t *testing.T) {
	got, err := decodeWord("address", word("f39fd6e51aad88f6f4ce6ab8827279cfffb92266"), nil)
	require.NoError(t, err)
	assert.Equal(t, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266", got)
}

func TestDecodeWordUint256(t *testing.T) {
	got, err := decodeWord("uint256", word("de0b6b3a7640000"), nil)
	require.NoError(t, err)
	assert.Equal(t, "1000000000000000000", got)
}

func TestDecodeWordBool(t *testing.T) {
	got, err := decodeWord("bool", word("1"), nil)
	require.NoError(t, err)
	assert.Equal(t, "true", got)

	got, err = decodeWord("bool", word("0"), nil)
	require.NoError(t, err)
	assert.Equal(t, "false", got)
}

// abiString encodes s the way a string return value is laid out.
func abiString(s string) string {
	data := hex.EncodeToString([]byte(s))
	if pad := len(data) % 64; pad != 0 || data == "" {
		data += strings.Repeat("0", 64-pad)
	}
	return "0x" +
		strings.Repeat("0", 62) + "20" +
		strings.Repeat("0", 64-len(hex.EncodeToString([]byte{byte(len(s))}))) + hex.EncodeToString([]byte{byte(len(s))}) +
		data
}

func TestDecodeResultString(t *testing.T) {
	fn, err := findFunction(erc20ABI, "symbol")
	require.NoError(t, err)

	got, err := decodeResult(fn, abiString("W3D"))
	require.NoError(t, err)
	assert.Equal(t, []string{"W3D"}, got)
}

func TestDecodeWordStringOffsetBeyondData(t *testing.T) {
	_, err := decodeWord("string", word("ff"), word("ff"))
	assert.Error(t, err)
}

func TestDecodeWordStringLengthBeyondData(t *testing.T) {
	full := append(word("20"), word("ff")...)
	_, err := decodeWord("string", word("20"), full)
	assert.Error(t, err)
}

func TestDecodeResultTruncatedData(t *testing.T) {
	fn, err := findFunction(erc20ABI, "balanceOf")
	require.NoError(t, err)

	_, err = decodeResult(fn, "0x")
	assert.ErrorContains(t, err, "returned 0 bytes")
}

func TestDecodeResultInvalidHex(t *testing.T) {
	fn, err := findFunction(erc20ABI, "balanceOf")
	require.NoError(t, err)

	_, err = decodeResult(fn, "0xnothex")
	assert.ErrorContains(t, err, "decoding hex result")
}

func TestDecodeResultNoOutputs(t *testing.T) {
	got, err := decodeResult(&ABIEntry{Name: "noop"}, "0x")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEncodeDecodeRoundTripUint(t *testing.T) {
	enc, err := encodeParam("uint256", "123456789012345678901234567890")
	require.NoError(t, err)

	raw, err := hex.DecodeString(enc)
	require.NoError(t, err)

	got, err := decodeWord("uint256", raw, raw)
	require.NoError(t, err)
	assert.Equal(t, "123456789012345678901234567890", got)
}

// ---------------------------------------------------------------------------
// ABI helpers
// ---------------------------------------------------------------------------

func TestParseABI(t *testing.T) {
	abi, err := ParseABI([]byte(`[{"name":"balanceOf","type":"function","inputs":[{"name":"a","type":"address"}],"outputs":[{"name":"","type":"uint256"}],"stateMutability":"view"}]`))
	require.NoError(t, err)
	require.Len(t, abi, 1)
	assert.True(t, abi[0].IsReadFunction())
	assert.False(t, abi[0].IsWriteFunction())

	_, err = ParseABI([]byte(`{`))
	assert.Error(t, err)
}

func TestLoadABI(t *testing.T) {
	dir := t.TempDir()
	full, err := json.Marshal(erc20ABI)
	require.NoError(t, err)
	path := filepath.Join(dir, "token.abi.json")
	require.NoError(t, os.WriteFile(path, full, 0o600))

	abi, err := LoadABI(path)
	require.NoError(t, err)
	assert.Len(t, abi, len(erc20ABI))
}

func TestLoadABIMissingFunction(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token.abi.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"name":"symbol","type":"function","stateMutability":"view"}]`), 0o600))

	_, err := LoadABI(path)
	assert.ErrorContains(t, err, `function "decimals" not found`)
}

func TestLoadABIMissingFile(t *testing.T) {
	_, err := LoadABI(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
