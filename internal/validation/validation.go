// Package validation checks transfer form input before it is dispatched.
//
// Every function here is pure, so the dashboard runs them on each keystroke.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Limits applied by the validators.
const (
	EthereumAddressLength = 42
	MaxDecimalPlaces      = 18
)

var ethereumAddressRe = regexp.MustCompile(`^0x[a-fA-F0-9]{40}$`)

// Result is the outcome of one validation call. ErrorMessage is empty when IsValid is true.
type Result struct {
	IsValid      bool
	ErrorMessage string
}

func valid() Result { return Result{IsValid: true} }

func invalid(msg string) Result { return Result{ErrorMessage: msg} }

// ValidateAmount checks a token amount typed by the user.
func ValidateAmount(amount string) Result {
	if strings.TrimSpace(amount) == "" {
		return invalid("Amount is required")
	}

	n, ok := parseNumber(amount)
	if !ok {
		return invalid("Amount must be a valid number")
	}

	if n <= 0 {
		return invalid("Amount must be greater than 0")
	}

	// Textual digit count, no rounding.
	if _, frac, found := strings.Cut(amount, "."); found && len(frac) > MaxDecimalPlaces {
		return invalid(fmt.Sprintf("Amount cannot have more than %d decimal places", MaxDecimalPlaces))
	}

	return valid()
}

// ValidateEthereumAddress checks a destination address.
func ValidateEthereumAddress(destination string) Result {
	if strings.TrimSpace(destination) == "" {
		return invalid("Destination is required")
	}

	trimmed := strings.TrimSpace(destination)

	if !strings.HasPrefix(trimmed, "0x") {
		return invalid("Destination must start with 0x")
	}

	if len(trimmed) != EthereumAddressLength {
		return invalid(fmt.Sprintf("Destination must be %d characters long", EthereumAddressLength))
	}

	if !ethereumAddressRe.MatchString(trimmed) {
		return invalid("Destination must be a valid Ethereum address")
	}

	return valid()
}

// ValidateTransferForm validates the amount first and only looks at the
// destination once the amount is acceptable.
func ValidateTransferForm(amount, destination string) Result {
	if r := ValidateAmount(amount); !r.IsValid {
		return r
	}
	return ValidateEthereumAddress(destination)
}

// parseNumber reports the numeric value of s, ignoring surrounding whitespace.
// Infinities and NaN are rejected.
func parseNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsInf(n, 0) || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
