package swap

import (
	"fmt"
	"strings"
)

// SpliceSignature appends a Permit2 signature to router calldata using the
// trailing-bytes convention: base || 32-byte big-endian signature byte
// length || signature. Both inputs and the output are hex strings; the base
// keeps its 0x prefix, the appended parts never carry one.
//
// With no signature the calldata passes through untouched (native-asset
// swaps need no permit).
func SpliceSignature(calldataHex string, signatureHex string) string {
	sig := strings.TrimPrefix(signatureHex, "0x")
	if sig == "" {
		return calldataHex
	}

	lengthWord := fmt.Sprintf("%064x", len(sig)/2)

	return calldataHex + lengthWord + sig
}
