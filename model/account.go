package model

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
)

// Account is a plain externally-owned account whose key lives behind the
// remote signer. The address is the only thing this process ever holds.
type Account struct {
	Address common.Address `json:"address"`
	Name    string         `json:"name,omitempty"`
}

// SmartAccount is a contract wallet. Signatures are validated on-chain
// through isValidSignature, so every signed payload must identify which
// owner produced it.
type SmartAccount struct {
	Address common.Address `json:"address"`
	Owners  []Account      `json:"owners"`
	Name    string         `json:"name,omitempty"`
}

// OwnerAt bounds-checks the owner index against the wallet's owner set.
func (s *SmartAccount) OwnerAt(index int) (*Account, error) {
	if len(s.Owners) == 0 {
		return nil, NewValidationError("smart account must have owners")
	}
	if index < 0 || index >= len(s.Owners) {
		return nil, NewValidationError("Owner index %d out of range", index)
	}
	return &s.Owners[index], nil
}

func (s *SmartAccount) ToJSON() ([]byte, error) {
	return json.Marshal(s)
}

// ParseAddress validates and normalizes a 0x-prefixed 20-byte hex address.
func ParseAddress(s string) (common.Address, error) {
	if !common.IsHexAddress(s) {
		return common.Address{}, fmt.Errorf("invalid ethereum address: %s", s)
	}
	return common.HexToAddress(s), nil
}
