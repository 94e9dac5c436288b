package services

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/holiman/uint256"
	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/types/business"
)

const (
	wordLength   = 32
	createLength = wordLength*5 + common.AddressLength
	create2Extra = common.HashLength
)

// PackDeploymentData returns the tightly packed encoding the deployer contract
// hashes:
//
//	CREATE:  bytecodeHash ‖ paymentAmount ‖ deployer ‖ deadline ‖ nonce ‖ chainId
//	CREATE2: bytecodeHash ‖ salt ‖ paymentAmount ‖ deployer ‖ deadline ‖ nonce ‖ chainId
//
// Hashes are 32 bytes, the address 20 bytes, and every integer a 32-byte
// big-endian word.
func PackDeploymentData(data business.DeploymentData) ([]byte, error) {
	payment, err := toWord("payment_amount", data.PaymentAmount)
	if err != nil {
		return nil, err
	}
	nonce, err := toWord("nonce", data.Nonce)
	if err != nil {
		return nil, err
	}
	if data.ChainID <= 0 {
		return nil, apperrors.Newf(apperrors.CodeInvalidField, "Invalid chain id %d", data.ChainID).
			WithDetails(apperrors.DetailFields, []string{"chain_id"})
	}
	deadline := uint256.NewInt(data.Deadline).Bytes32()
	chainID := uint256.NewInt(uint64(data.ChainID)).Bytes32()

	size := createLength
	if data.IsCreate2() {
		size += create2Extra
	}
	packed := make([]byte, 0, size)
	packed = append(packed, data.BytecodeHash.Bytes()...)
	if data.IsCreate2() {
		packed = append(packed, data.Salt.Bytes()...)
	}
	packed = append(packed, payment[:]...)
	packed = append(packed, data.DeployerAddress.Bytes()...)
	packed = append(packed, deadline[:]...)
	packed = append(packed, nonce[:]...)
	packed = append(packed, chainID[:]...)
	return packed, nil
}

// DeploymentDigest is keccak256 of PackDeploymentData
func DeploymentDigest(data business.DeploymentData) (common.Hash, error) {
	packed, err := PackDeploymentData(data)
	if err != nil {
		return common.Hash{}, err
	}
	return crypto.Keccak256Hash(packed), nil
}

func toWord(field string, v *big.Int) ([32]byte, error) {
	if v == nil {
		return [32]byte{}, apperrors.Newf(apperrors.CodeMissingField, "Missing required field: %s", field).
			WithDetails(apperrors.DetailFields, []string{field})
	}
	if v.Sign() < 0 {
		return [32]byte{}, apperrors.Newf(apperrors.CodeInvalidField, "%s must not be negative", field).
			WithDetails(apperrors.DetailFields, []string{field})
	}
	word, overflow := uint256.FromBig(v)
	if overflow {
		return [32]byte{}, apperrors.Newf(apperrors.CodeInvalidField, "%s does not fit in uint256", field).
			WithDetails(apperrors.DetailFields, []string{field})
	}
	return word.Bytes32(), nil
}
