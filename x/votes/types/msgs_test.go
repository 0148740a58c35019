package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"cosmossdk.io/math"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/govbridge/cosmos/x/votes/types"
)

func TestMsgVoteGetSigners(t *testing.T) {
	submitter := common.BytesToAddress([]byte{0x11})
	msg := types.NewMsgVote(submitter.Hex(), submitter.Hex(), common.BytesToHash([]byte("session")).Hex(), 1, math.NewInt(100), nil, "0x00")

	signers := msg.GetSigners()
	require.Len(t, signers, 1)
	require.Equal(t, sdk.AccAddress(submitter.Bytes()), signers[0])
}

func TestMsgSetSigningChainIDGetSigners(t *testing.T) {
	authority := sdk.AccAddress([]byte("authority")).String()
	msg := types.NewMsgSetSigningChainID(authority, 7)

	signers := msg.GetSigners()
	require.Len(t, signers, 1)
	require.Equal(t, authority, signers[0].String())

	msg.Authority = "not-bech32"
	require.Panics(t, func() { msg.GetSigners() })
}
