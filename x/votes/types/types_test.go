package types_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/govbridge/cosmos/x/votes/types"
)

func samplePayload() types.VotePayload {
	return types.VotePayload{
		Account:    common.BytesToAddress([]byte{0x11}),
		ChainID:    7,
		SessionKey: common.BytesToHash([]byte("session")),
		Nonce:      3,
		TotalVotes: math.NewInt(1000),
		Allocations: []types.VoteAllocation{
			{ReactorKey: common.BytesToHash([]byte("reactor-a")), Amount: math.NewInt(600)},
			{ReactorKey: common.BytesToHash([]byte("reactor-b")), Amount: math.NewInt(400)},
		},
	}
}

func TestVotePayloadRoundTrip(t *testing.T) {
	payload := samplePayload()

	decoded, err := types.DecodeVotePayload(types.EncodeVotePayload(payload))
	require.NoError(t, err)
	require.Equal(t, payload.Account, decoded.Account)
	require.Equal(t, payload.ChainID, decoded.ChainID)
	require.Equal(t, payload.SessionKey, decoded.SessionKey)
	require.Equal(t, payload.Nonce, decoded.Nonce)
	require.True(t, payload.TotalVotes.Equal(decoded.TotalVotes))
	require.Equal(t, len(payload.Allocations), len(decoded.Allocations))
	for i := range payload.Allocations {
		require.Equal(t, payload.Allocations[i].ReactorKey, decoded.Allocations[i].ReactorKey)
		require.True(t, payload.Allocations[i].Amount.Equal(decoded.Allocations[i].Amount))
	}
}

func TestVotePayloadNoAllocations(t *testing.T) {
	payload := samplePayload()
	payload.Allocations = nil
	payload.TotalVotes = math.ZeroInt()

	decoded, err := types.DecodeVotePayload(types.EncodeVotePayload(payload))
	require.NoError(t, err)
	require.Empty(t, decoded.Allocations)
	require.True(t, decoded.TotalVotes.IsZero())
}

func TestDecodeVotePayloadRejectsBadLengths(t *testing.T) {
	_, err := types.DecodeVotePayload(nil)
	require.Error(t, err)

	_, err = types.DecodeVotePayload(make([]byte, 100))
	require.Error(t, err)

	// A declared allocation count with no matching words is rejected.
	encoded := types.EncodeVotePayload(samplePayload())
	_, err = types.DecodeVotePayload(encoded[:len(encoded)-32])
	require.Error(t, err)
}

func TestDecodeVotePayloadRejectsOversizedCount(t *testing.T) {
	payload := samplePayload()
	payload.Allocations = nil
	payload.TotalVotes = math.ZeroInt()

	// A count word large enough to wrap the expected-length product must be
	// rejected, not indexed.
	encoded := types.EncodeVotePayload(payload)
	binary.BigEndian.PutUint64(encoded[5*32+24:6*32], 1<<58)
	_, err := types.DecodeVotePayload(encoded)
	require.Error(t, err)
	require.Contains(t, err.Error(), "allocations")
}

func TestUserVoteInfoRoundTrip(t *testing.T) {
	info := types.UserVoteInfo{
		TotalUsed:      math.NewInt(1000),
		TotalAvailable: math.NewInt(1500),
		Allocations: []types.VoteAllocation{
			{ReactorKey: common.BytesToHash([]byte("reactor-a")), Amount: math.NewInt(600)},
			{ReactorKey: common.BytesToHash([]byte("reactor-b")), Amount: math.NewInt(400)},
		},
	}

	decoded, err := types.DecodeUserVoteInfo(types.EncodeUserVoteInfo(info))
	require.NoError(t, err)
	require.True(t, info.TotalUsed.Equal(decoded.TotalUsed))
	require.True(t, info.TotalAvailable.Equal(decoded.TotalAvailable))
	require.Equal(t, len(info.Allocations), len(decoded.Allocations))
	for i := range info.Allocations {
		require.Equal(t, info.Allocations[i].ReactorKey, decoded.Allocations[i].ReactorKey)
		require.True(t, info.Allocations[i].Amount.Equal(decoded.Allocations[i].Amount))
	}

	// An empty record also survives the trip.
	empty, err := types.DecodeUserVoteInfo(types.EncodeUserVoteInfo(types.NewUserVoteInfo()))
	require.NoError(t, err)
	require.True(t, empty.TotalUsed.IsZero())
	require.True(t, empty.TotalAvailable.IsZero())
	require.Empty(t, empty.Allocations)
}

func TestDecodeUserVoteInfoRejectsBadLengths(t *testing.T) {
	_, err := types.DecodeUserVoteInfo(nil)
	require.Error(t, err)

	_, err = types.DecodeUserVoteInfo(make([]byte, 100))
	require.Error(t, err)

	encoded := types.EncodeUserVoteInfo(types.NewUserVoteInfo())
	binary.BigEndian.PutUint64(encoded[2*32+24:3*32], 1<<58)
	_, err = types.DecodeUserVoteInfo(encoded)
	require.Error(t, err)
}

func TestKeyAmountsRoundTrip(t *testing.T) {
	entries := []types.KeyAmount{
		{Key: common.BytesToHash([]byte("reactor-a")), Amount: math.NewInt(600)},
		{Key: common.BytesToHash([]byte("reactor-b")), Amount: math.NewInt(400)},
	}

	decoded, err := types.DecodeKeyAmounts(types.EncodeKeyAmounts(entries))
	require.NoError(t, err)
	require.Equal(t, len(entries), len(decoded))
	for i := range entries {
		require.Equal(t, entries[i].Key, decoded[i].Key)
		require.True(t, entries[i].Amount.Equal(decoded[i].Amount))
	}

	decoded, err = types.DecodeKeyAmounts(nil)
	require.NoError(t, err)
	require.Empty(t, decoded)

	_, err = types.DecodeKeyAmounts(make([]byte, 33))
	require.Error(t, err)
}

func TestVoteDigestBindsDomain(t *testing.T) {
	payload := samplePayload()
	contract := common.BytesToAddress([]byte("votes-component"))

	digest := types.VoteDigest(7, contract, payload)
	require.Equal(t, digest, types.VoteDigest(7, contract, payload))

	// Verify chain id and verifying contract both separate the digest space.
	require.NotEqual(t, digest, types.VoteDigest(8, contract, payload))
	require.NotEqual(t, digest, types.VoteDigest(7, common.BytesToAddress([]byte("other")), payload))

	// Verify every payload field reaches the struct hash.
	changed := samplePayload()
	changed.Nonce++
	require.NotEqual(t, digest, types.VoteDigest(7, contract, changed))
	changed = samplePayload()
	changed.Allocations[0].Amount = math.NewInt(601)
	require.NotEqual(t, digest, types.VoteDigest(7, contract, changed))
}

func TestRecoverSignerRoundTrip(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	expected := crypto.PubkeyToAddress(key.PublicKey)

	digest := types.VoteDigest(7, common.BytesToAddress([]byte("votes-component")), samplePayload())
	sig, err := crypto.Sign(digest.Bytes(), key)
	require.NoError(t, err)

	signer, err := types.RecoverSigner(digest, sig)
	require.NoError(t, err)
	require.Equal(t, expected, signer)

	// Wallets emit V as 27/28; both forms must recover.
	shifted := make([]byte, len(sig))
	copy(shifted, sig)
	shifted[64] += 27
	signer, err = types.RecoverSigner(digest, shifted)
	require.NoError(t, err)
	require.Equal(t, expected, signer)

	_, err = types.RecoverSigner(digest, sig[:64])
	require.ErrorIs(t, err, types.ErrInvalidSignature)
}

func TestVotePayloadValidate(t *testing.T) {
	payload := samplePayload()
	require.NoError(t, payload.Validate())

	payload.Account = common.Address{}
	require.ErrorIs(t, payload.Validate(), types.ErrZeroAccount)

	payload = samplePayload()
	payload.TotalVotes = math.NewInt(-1)
	require.ErrorIs(t, payload.Validate(), types.ErrNegativeAmount)

	payload = samplePayload()
	payload.Allocations[1].Amount = math.NewInt(-5)
	require.ErrorIs(t, payload.Validate(), types.ErrNegativeAmount)
}
