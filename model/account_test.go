package model

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnerAt(t *testing.T) {
	account := &SmartAccount{
		Address: common.HexToAddress("0x4bbeEB066eD09B7AEd07bF39EEe0460DFa261520"),
		Owners: []Account{
			{Address: common.HexToAddress("0x804e49e8C4eDb560AE7c48B554f6d2e27Bb81557")},
			{Address: common.HexToAddress("0x742d35Cc6634C0532925a3b844Bc9e7595f12340")},
		},
	}

	owner, err := account.OwnerAt(1)
	require.NoError(t, err)
	assert.Equal(t, account.Owners[1].Address, owner.Address)

	_, err = account.OwnerAt(2)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "out of range")

	_, err = account.OwnerAt(-1)
	require.ErrorAs(t, err, &validationErr)
}

func TestOwnerAtNoOwners(t *testing.T) {
	account := &SmartAccount{Address: common.HexToAddress("0x4bbeEB066eD09B7AEd07bF39EEe0460DFa261520")}

	_, err := account.OwnerAt(0)
	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, err.Error(), "must have owners")
}

func TestParseAddress(t *testing.T) {
	parsed, err := ParseAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913")
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x833589fCD6eDb6E08f4c7C32D4f71b54bdA02913"), parsed)

	for _, bad := range []string{"", "0x123", "not-an-address", "833589fCD6eDb6E08f4c7C32D4f71b54bdA02913x"} {
		_, err := ParseAddress(bad)
		assert.Error(t, err, "address %q must be rejected", bad)
	}
}
