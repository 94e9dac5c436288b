package services_test

import (
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/mintroai/payment-service/libs/go/apperrors"
	"github.com/mintroai/payment-service/libs/go/constants"
	"github.com/mintroai/payment-service/libs/go/services"
	"github.com/mintroai/payment-service/libs/go/signer"
	"github.com/mintroai/payment-service/libs/go/types/api/params"
	"github.com/mintroai/payment-service/libs/go/types/business"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Foundry/Anvil default accounts. Well-known test keys - NEVER use in production.
const (
	anvilKey0 = "ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"
	anvilKey1 = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"
)

var (
	testBytecode = common.FromHex("0x6080604052348015600f57600080fd5b50603f80601d6000396000f3fe6080604052600080fdfea164736f6c6343000818000a")
	testDeployer = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	fixedNow     = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

func newTestSigner(t *testing.T, key string) *signer.Signer {
	t.Helper()
	s, err := signer.NewSigner(key)
	require.NoError(t, err)
	return s
}

func newSignatureService(t *testing.T) *services.SignatureService {
	t.Helper()
	return services.NewSignatureService(newTestSigner(t, anvilKey0),
		services.WithSignatureClock(func() time.Time { return fixedNow }))
}

func authorizationParams() params.AuthorizationParams {
	deadline := uint64(1_750_000_000)
	deployer := testDeployer
	return params.AuthorizationParams{
		Bytecode:        testBytecode,
		PaymentAmount:   big.NewInt(20_000_000_000_000_000),
		DeployerAddress: &deployer,
		ChainID:         56,
		Deadline:        &deadline,
		Nonce:           big.NewInt(1_717_243_200_123),
	}
}

func word(v *big.Int) []byte {
	return common.LeftPadBytes(v.Bytes(), 32)
}

func TestPackDeploymentData_Layout(t *testing.T) {
	salt := common.HexToHash("0x01")
	data := business.DeploymentData{
		BytecodeHash:    crypto.Keccak256Hash(testBytecode),
		PaymentAmount:   big.NewInt(12345),
		DeployerAddress: testDeployer,
		Deadline:        99,
		Nonce:           big.NewInt(7),
		ChainID:         1313161554,
	}

	var expected []byte
	expected = append(expected, data.BytecodeHash.Bytes()...)
	expected = append(expected, word(big.NewInt(12345))...)
	expected = append(expected, testDeployer.Bytes()...)
	expected = append(expected, word(big.NewInt(99))...)
	expected = append(expected, word(big.NewInt(7))...)
	expected = append(expected, word(big.NewInt(1313161554))...)

	packed, err := services.PackDeploymentData(data)
	require.NoError(t, err)
	assert.Len(t, packed, 180)
	assert.Equal(t, expected, packed)

	data.Salt = &salt
	packed2, err := services.PackDeploymentData(data)
	require.NoError(t, err)
	assert.Len(t, packed2, 212)
	assert.Equal(t, data.BytecodeHash.Bytes(), packed2[:32])
	assert.Equal(t, salt.Bytes(), packed2[32:64])
	assert.Equal(t, expected[32:], packed2[64:])
}

// Reference vectors computed outside go-ethereum (solidityPackedKeccak256 and
// signMessage semantics, Anvil key 0) over authorizationParams().
func TestSignatureService_Authorize_ReferenceVectors(t *testing.T) {
	salt := common.BigToHash(big.NewInt(1))

	tests := []struct {
		name       string
		salt       *common.Hash
		wantDigest string
		wantSig    string
	}{
		{
			name:       "create",
			wantDigest: "0x4fa229816172dcc0a55d4f9f6da5e7ce1ca70fd30384f49ba3100d3969d65eb6",
			wantSig:    "0x801efcbbeff7153df37c8478d91206b92ccf77a2f6bd7b038a6f88155e7e3cc033946943565eeefcc5632ed499d5264b5fd662f0db883637436024818eed7c8a1b",
		},
		{
			name:       "create2",
			salt:       &salt,
			wantDigest: "0x2f369b9253e94b7e21f50a8a66793d45e4882ac56480ea9f97907e881c452d70",
			wantSig:    "0x968b6cc404bff67fda585d8298e22b1d2bc3fde7126d77cea415a71b45dbc40e4d2ac48da44ccc136977d9d660e0da4b10845e4745d56d552093917fc846f0991c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := authorizationParams()
			p.Salt = tt.salt

			auth, err := newSignatureService(t).Authorize(p)
			require.NoError(t, err)
			assert.Equal(t, "0xd5a58e68dd95bb091ba88b2cff99b352e32ad1ddf0acbb73390edf12aa98dc6f", auth.Data.BytecodeHash.Hex())

			digest, err := services.DeploymentDigest(auth.Data)
			require.NoError(t, err)
			assert.Equal(t, tt.wantDigest, digest.Hex())
			assert.Equal(t, tt.wantSig, hexutil.Encode(auth.Signature))
		})
	}
}

func TestPackDeploymentData_Errors(t *testing.T) {
	overflow := new(big.Int).Lsh(big.NewInt(1), 256)
	maxUint256 := new(big.Int).Sub(overflow, big.NewInt(1))

	base := business.DeploymentData{
		BytecodeHash:    crypto.Keccak256Hash(testBytecode),
		PaymentAmount:   big.NewInt(1),
		DeployerAddress: testDeployer,
		Nonce:           big.NewInt(1),
		ChainID:         56,
	}

	tests := []struct {
		name   string
		mutate func(d *business.DeploymentData)
		want   error
	}{
		{name: "max uint256 fits", mutate: func(d *business.DeploymentData) { d.Nonce = maxUint256 }},
		{name: "payment overflows uint256", mutate: func(d *business.DeploymentData) { d.PaymentAmount = overflow }, want: apperrors.ErrInvalidField},
		{name: "nonce overflows uint256", mutate: func(d *business.DeploymentData) { d.Nonce = overflow }, want: apperrors.ErrInvalidField},
		{name: "negative payment", mutate: func(d *business.DeploymentData) { d.PaymentAmount = big.NewInt(-1) }, want: apperrors.ErrInvalidField},
		{name: "negative chain id", mutate: func(d *business.DeploymentData) { d.ChainID = -56 }, want: apperrors.ErrInvalidField},
		{name: "missing nonce", mutate: func(d *business.DeploymentData) { d.Nonce = nil }, want: apperrors.ErrMissingField},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := base
			tt.mutate(&data)
			_, err := services.PackDeploymentData(data)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestSignatureService_Authorize(t *testing.T) {
	service := newSignatureService(t)

	auth, err := service.Authorize(authorizationParams())
	require.NoError(t, err)

	assert.Len(t, auth.Signature, 65)
	assert.Contains(t, []byte{27, 28}, auth.Signature[64])
	assert.Equal(t, common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"), auth.Signer)
	assert.Equal(t, crypto.Keccak256Hash(testBytecode), auth.Data.BytecodeHash)
	assert.Equal(t, auth.Data.PaymentAmount, auth.TxValue)
	assert.Equal(t, "20000000000000000", auth.TxValue.String())
	assert.False(t, auth.Data.IsCreate2())

	// the signature is over the personal message hash of the packed digest
	digest, err := services.DeploymentDigest(auth.Data)
	require.NoError(t, err)
	recovered, err := signer.RecoverPersonalMessageSigner(digest.Bytes(), auth.Signature)
	require.NoError(t, err)
	assert.Equal(t, auth.Signer, recovered)
}

func TestSignatureService_Authorize_Defaults(t *testing.T) {
	service := newSignatureService(t)

	p := authorizationParams()
	p.Deadline = nil
	p.Nonce = nil

	auth, err := service.Authorize(p)
	require.NoError(t, err)

	assert.Equal(t, uint64(fixedNow.Add(time.Hour).Unix()), auth.Data.Deadline)
	millis := big.NewInt(fixedNow.UnixMilli())
	assert.True(t, auth.Data.Nonce.Cmp(millis) >= 0)
	assert.True(t, auth.Data.Nonce.Cmp(new(big.Int).Add(millis, big.NewInt(1_000_000))) < 0)

	withTTL := services.NewSignatureService(newTestSigner(t, anvilKey0),
		services.WithSignatureClock(func() time.Time { return fixedNow }),
		services.WithAuthorizationTTL(10*time.Minute))
	auth, err = withTTL.Authorize(p)
	require.NoError(t, err)
	assert.Equal(t, uint64(fixedNow.Add(10*time.Minute).Unix()), auth.Data.Deadline)
}

func TestSignatureService_Authorize_MissingFields(t *testing.T) {
	service := newSignatureService(t)

	_, err := service.Authorize(params.AuthorizationParams{})
	require.Error(t, err)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeMissingField, appErr.Code)
	assert.Equal(t, []string{"bytecode", "payment_amount", "deployer_address", "chain_id"}, appErr.Details[apperrors.DetailFields])
}

func TestSignatureService_Verify_RoundTrip(t *testing.T) {
	service := newSignatureService(t)
	salt := crypto.Keccak256Hash([]byte("salt"))

	for _, create2 := range []bool{false, true} {
		p := authorizationParams()
		if create2 {
			p.Salt = &salt
		}
		auth, err := service.Authorize(p)
		require.NoError(t, err)

		result, err := service.Verify(auth.Data, auth.Signature)
		require.NoError(t, err)
		assert.True(t, result.Valid)
		assert.Equal(t, service.Address(), result.Recovered)
		assert.Equal(t, service.Address(), result.Signer)
	}
}

func TestSignatureService_Verify_AlteredFields(t *testing.T) {
	service := newSignatureService(t)
	salt := crypto.Keccak256Hash([]byte("salt"))

	p := authorizationParams()
	p.Salt = &salt
	auth, err := service.Authorize(p)
	require.NoError(t, err)

	otherSalt := crypto.Keccak256Hash([]byte("other"))
	tests := []struct {
		name   string
		mutate func(d *business.DeploymentData)
	}{
		{name: "bytecode hash", mutate: func(d *business.DeploymentData) { d.BytecodeHash = crypto.Keccak256Hash([]byte("other")) }},
		{name: "salt", mutate: func(d *business.DeploymentData) { d.Salt = &otherSalt }},
		{name: "payment amount", mutate: func(d *business.DeploymentData) { d.PaymentAmount = big.NewInt(1) }},
		{name: "deployer", mutate: func(d *business.DeploymentData) {
			d.DeployerAddress = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")
		}},
		{name: "deadline", mutate: func(d *business.DeploymentData) { d.Deadline++ }},
		{name: "nonce", mutate: func(d *business.DeploymentData) { d.Nonce = new(big.Int).Add(d.Nonce, big.NewInt(1)) }},
		{name: "chain id", mutate: func(d *business.DeploymentData) { d.ChainID = 97 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := auth.Data
			tt.mutate(&data)

			result, err := service.Verify(data, auth.Signature)
			require.NoError(t, err)
			assert.False(t, result.Valid)
			assert.NotEqual(t, service.Address(), result.Recovered)
		})
	}
}

func TestSignatureService_Verify_CreateAndCreate2AreNotInterchangeable(t *testing.T) {
	service := newSignatureService(t)
	zeroSalt := common.Hash{}

	create, err := service.Authorize(authorizationParams())
	require.NoError(t, err)

	p := authorizationParams()
	p.Salt = &zeroSalt
	create2, err := service.Authorize(p)
	require.NoError(t, err)

	assert.NotEqual(t, create.Signature, create2.Signature)

	// CREATE signature checked as CREATE2
	asCreate2 := create.Data
	asCreate2.Salt = &zeroSalt
	result, err := service.Verify(asCreate2, create.Signature)
	require.NoError(t, err)
	assert.False(t, result.Valid)

	// CREATE2 signature checked as CREATE
	asCreate := create2.Data
	asCreate.Salt = nil
	result, err = service.Verify(asCreate, create2.Signature)
	require.NoError(t, err)
	assert.False(t, result.Valid)
}

func TestSignatureService_Verify_ForeignAndMalformedSignatures(t *testing.T) {
	service := newSignatureService(t)
	other := services.NewSignatureService(newTestSigner(t, anvilKey1))

	auth, err := other.Authorize(authorizationParams())
	require.NoError(t, err)

	result, err := service.Verify(auth.Data, auth.Signature)
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, other.Address(), result.Recovered)

	result, err = service.Verify(auth.Data, []byte{0x01, 0x02})
	require.NoError(t, err)
	assert.False(t, result.Valid)
	assert.Equal(t, common.Address{}, result.Recovered)
}

func TestSignatureService_Verify_HashFromBytecode(t *testing.T) {
	service := newSignatureService(t)
	auth, err := service.Authorize(authorizationParams())
	require.NoError(t, err)

	data := auth.Data
	data.BytecodeHash = common.Hash{}
	result, err := service.Verify(data, auth.Signature)
	require.NoError(t, err)
	assert.True(t, result.Valid)
}

func TestSignatureService_Verify_InputErrors(t *testing.T) {
	service := newSignatureService(t)
	auth, err := service.Authorize(authorizationParams())
	require.NoError(t, err)

	_, err = service.Verify(business.DeploymentData{}, auth.Signature)
	appErr, ok := apperrors.As(err)
	require.True(t, ok)
	assert.Equal(t, apperrors.CodeMissingField, appErr.Code)
	assert.Equal(t, []string{"bytecode_hash", "payment_amount", "deployer_address", "nonce", "chain_id"}, appErr.Details[apperrors.DetailFields])

	data := auth.Data
	data.PaymentAmount = new(big.Int).Lsh(big.NewInt(1), 256)
	_, err = service.Verify(data, auth.Signature)
	assert.True(t, errors.Is(err, apperrors.ErrInvalidField))
}

func TestSignatureService_SignerInfo(t *testing.T) {
	service := newSignatureService(t)
	info := service.SignerInfo()
	assert.True(t, info.Ready)
	assert.Equal(t, service.Address(), info.Address)

	insecure, err := signer.LoadSigner("", constants.LocalEnvironment, true)
	require.NoError(t, err)
	info = services.NewSignatureService(insecure).SignerInfo()
	assert.False(t, info.Ready)
	assert.Equal(t, common.HexToAddress("0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"), info.Address)
}
