package contract

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"golang.org/x/crypto/sha3"
)

// --- ABI encoding (simplified, for common types) ---

// encodeCall builds calldata: 4-byte selector + encoded args.
func encodeCall(fn *ABIEntry, args []string) (string, error) {
	if len(args) != len(fn.Inputs) {
		return "", fmt.Errorf("%s expects %d arguments, got %d", fn.Name, len(fn.Inputs), len(args))
	}

	var encoded strings.Builder
	encoded.WriteString(functionSelector(fn))

	for i, param := range fn.Inputs {
		enc, err := encodeParam(param.Type, args[i])
		if err != nil {
			return "", fmt.Errorf("encoding param %s: %w", param.Name, err)
		}
		encoded.WriteString(enc)
	}

	return encoded.String(), nil
}

// functionSelector computes the 4-byte selector for a function.
func functionSelector(fn *ABIEntry) string {
	types := make([]string, len(fn.Inputs))
	for i, p := range fn.Inputs {
		types[i] = p.Type
	}
	sig := fn.Name + "(" + strings.Join(types, ",") + ")"

	h := sha3.NewLegacyKeccak256()
	h.Write([]byte(sig))
	return "0x" + hex.EncodeToString(h.Sum(nil)[:4])
}

var maxUint256 = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 256), big.NewInt(1))

// encodeParam encodes a single ABI parameter value as a 32-byte hex word.
func encodeParam(typ, val string) (string, error) {
	val = strings.TrimSpace(val)

	switch {
	case typ == "address":
		if !common.IsHexAddress(val) {
			return "", fmt.Errorf("invalid address: %q", val)
		}
		return hex.EncodeToString(common.LeftPadBytes(common.HexToAddress(val).Bytes(), 32)), nil

	case strings.HasPrefix(typ, "uint"):
		n, ok := new(big.Int).SetString(val, 0)
		if !ok {
			return "", fmt.Errorf("invalid integer: %s", val)
		}
		if n.Sign() < 0 || n.Cmp(maxUint256) > 0 {
			return "", fmt.Errorf("value out of range for %s: %s", typ, val)
		}
		return fmt.Sprintf("%064x", n), nil

	case typ == "bool":
		if val == "true" || val == "1" {
			return fmt.Sprintf("%064d", 1), nil
		}
		return fmt.Sprintf("%064d", 0), nil
	}

	return "", fmt.Errorf("unsupported parameter type %s", typ)
}

// decodeResult decodes the raw hex result into string values.
func decodeResult(fn *ABIEntry, hexData string) ([]string, error) {
	data, err := hex.DecodeString(strings.TrimPrefix(hexData, "0x"))
	if err != nil {
		return nil, fmt.Errorf("decoding hex result: %w", err)
	}

	if len(fn.Outputs) == 0 {
		return nil, nil
	}
	if len(data) < 32*len(fn.Outputs) {
		return nil, fmt.Errorf("%s returned %d bytes, want at least %d", fn.Name, len(data), 32*len(fn.Outputs))
	}

	results := make([]string, 0, len(fn.Outputs))
	for i, out := range fn.Outputs {
		word := data[i*32 : (i+1)*32]
		val, err := decodeWord(out.Type, word, data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s output %d: %w", fn.Name, i, err)
		}
		results = append(results, val)
	}

	return results, nil
}

func decodeWord(typ string, word []byte, fullData []byte) (string, error) {
	switch {
	case typ == "address":
		return common.BytesToAddress(word[12:]).Hex(), nil

	case strings.HasPrefix(typ, "uint") || strings.HasPrefix(typ, "int"):
		return new(big.Int).SetBytes(word).String(), nil

	case typ == "bool":
		if word[31] == 1 {
			return "true", nil
		}
		return "false", nil

	case typ == "string":
		// String uses an offset + length encoding.
		offset := new(big.Int).SetBytes(word)
		if !offset.IsUint64() || offset.Uint64()+32 > uint64(len(fullData)) {
			return "", fmt.Errorf("string offset out of range")
		}
		start := offset.Uint64()
		length := new(big.Int).SetBytes(fullData[start : start+32])
		if !length.IsUint64() || start+32+length.Uint64() > uint64(len(fullData)) {
			return "", fmt.Errorf("string length out of range")
		}
		return string(fullData[start+32 : start+32+length.Uint64()]), nil
	}

	return "0x" + hex.EncodeToString(word), nil
}
