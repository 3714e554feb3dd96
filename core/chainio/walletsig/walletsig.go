// Package walletsig produces signatures a Coinbase Smart Wallet contract
// accepts through isValidSignature (ERC-1271).
//
// Two steps separate this from plain ECDSA signing. First, the message hash
// must be replay-safe: the wallet contract validates against a hash that
// binds the chain id and the wallet address, so a signature minted for one
// deployment cannot be replayed on another chain or wallet. Second, the raw
// 65-byte signature must be wrapped in the SignatureWrapper struct
// (uint8 ownerIndex, bytes signatureData) so the contract knows which
// registered owner to verify against.
package walletsig

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/avakit/swapcore/model"
)

const (
	walletDomainName    = "Coinbase Smart Wallet"
	walletDomainVersion = "1"
	walletMessageType   = "CoinbaseSmartWalletMessage"

	signatureLength = 65
)

// TypedDataSigner signs EIP-712 payloads for a managed address.
type TypedDataSigner interface {
	SignTypedData(ctx context.Context, address common.Address, typed apitypes.TypedData, idempotencyKey string) (string, error)
}

var wrapperArgs abi.Arguments

func init() {
	uint8Type, err := abi.NewType("uint8", "", nil)
	if err != nil {
		panic(fmt.Errorf("invalid uint8 abi type: %w", err))
	}
	bytesType, err := abi.NewType("bytes", "", nil)
	if err != nil {
		panic(fmt.Errorf("invalid bytes abi type: %w", err))
	}
	wrapperArgs = abi.Arguments{
		{Name: "ownerIndex", Type: uint8Type},
		{Name: "signatureData", Type: bytesType},
	}
}

// ComputeReplaySafeTypedData hashes the original typed data exactly as
// EIP-712 defines (keccak256(0x1901 || domainSeparator || structHash)) and
// rewraps that digest as the single bytes32 field of a
// CoinbaseSmartWalletMessage bound to chainID and the wallet address.
func ComputeReplaySafeTypedData(typed apitypes.TypedData, chainID int64, wallet common.Address) (apitypes.TypedData, error) {
	domainSeparator, err := typed.HashStruct("EIP712Domain", typed.Domain.Map())
	if err != nil {
		return apitypes.TypedData{}, fmt.Errorf("cannot hash domain: %w", err)
	}

	structHash, err := typed.HashStruct(typed.PrimaryType, typed.Message)
	if err != nil {
		return apitypes.TypedData{}, fmt.Errorf("cannot hash %s struct: %w", typed.PrimaryType, err)
	}

	digest := crypto.Keccak256(
		[]byte{0x19, 0x01},
		domainSeparator,
		structHash,
	)

	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			walletMessageType: []apitypes.Type{
				{Name: "hash", Type: "bytes32"},
			},
		},
		PrimaryType: walletMessageType,
		Domain: apitypes.TypedDataDomain{
			Name:              walletDomainName,
			Version:           walletDomainVersion,
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: wallet.Hex(),
		},
		Message: apitypes.TypedDataMessage{
			"hash": hexutil.Encode(digest),
		},
	}, nil
}

// WrapSignature decomposes a 65-byte r||s||v signature and ABI-encodes the
// SignatureWrapper tuple the wallet contract expects.
func WrapSignature(signatureHex string, ownerIndex int) (string, error) {
	if ownerIndex < 0 || ownerIndex > 255 {
		return "", model.NewValidationError("owner index must fit uint8, got %d", ownerIndex)
	}

	sig, err := hex.DecodeString(strings.TrimPrefix(signatureHex, "0x"))
	if err != nil {
		return "", model.NewValidationError("signature is not valid hex: %v", err)
	}
	if len(sig) != signatureLength {
		return "", model.NewValidationError("signature must be %d bytes, got %d", signatureLength, len(sig))
	}

	// r (0..31) || s (32..63) || v (64), re-packed verbatim
	packed, err := wrapperArgs.Pack(uint8(ownerIndex), sig)
	if err != nil {
		return "", fmt.Errorf("cannot encode signature wrapper: %w", err)
	}

	return hexutil.Encode(packed), nil
}

// SignAndWrap runs the full smart wallet signing flow: replay-safe rehash,
// remote signature by the owner at ownerIndex, then wrapper encoding.
func SignAndWrap(
	ctx context.Context,
	td TypedDataSigner,
	account *model.SmartAccount,
	chainID int64,
	typed apitypes.TypedData,
	ownerIndex int,
	idempotencyKey string,
) (string, error) {
	owner, err := account.OwnerAt(ownerIndex)
	if err != nil {
		return "", err
	}

	replaySafe, err := ComputeReplaySafeTypedData(typed, chainID, account.Address)
	if err != nil {
		return "", err
	}

	signature, err := td.SignTypedData(ctx, owner.Address, replaySafe, idempotencyKey)
	if err != nil {
		return "", err
	}

	return WrapSignature(signature, ownerIndex)
}
