package contract

import (
	"encoding/json"
	"fmt"
	"os"
)

// ABIEntry is one ABI entry (function, event, etc.).
type ABIEntry struct {
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Inputs          []ABIParam `json:"inputs"`
	Outputs         []ABIParam `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
}

// ABIParam is a parameter in an ABI entry.
type ABIParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// IsReadFunction returns true if the function is read-only (view/pure).
func (e ABIEntry) IsReadFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "view" || e.StateMutability == "pure")
}

// IsWriteFunction returns true if the function modifies state.
func (e ABIEntry) IsWriteFunction() bool {
	return e.Type == "function" &&
		(e.StateMutability == "nonpayable" || e.StateMutability == "payable")
}

// ParseABI decodes a JSON ABI array.
func ParseABI(data []byte) ([]ABIEntry, error) {
	var entries []ABIEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing ABI: %w", err)
	}
	return entries, nil
}

// requiredFunctions are the functions Token calls.
var requiredFunctions = []string{"symbol", "decimals", "balanceOf", "transfer"}

// LoadABI reads a JSON ABI file for a token and checks that it declares
// every function Token calls.
func LoadABI(path string) ([]ABIEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	entries, err := ParseABI(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	for _, name := range requiredFunctions {
		if _, err := findFunction(entries, name); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	return entries, nil
}

func findFunction(abi []ABIEntry, name string) (*ABIEntry, error) {
	for i := range abi {
		if abi[i].Type == "function" && abi[i].Name == name {
			return &abi[i], nil
		}
	}
	return nil, fmt.Errorf("function %q not found in ABI", name)
}
