package types_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"

	"github.com/govbridge/cosmos/x/relay/types"
)

func TestMsgRegisterSenderGetSigners(t *testing.T) {
	authority := sdk.AccAddress([]byte("authority")).String()
	msg := types.NewMsgRegisterSender(authority, common.BytesToAddress([]byte{0x11}).Hex(), true)

	signers := msg.GetSigners()
	require.Len(t, signers, 1)
	require.Equal(t, authority, signers[0].String())

	msg.Authority = "not-bech32"
	require.Panics(t, func() { msg.GetSigners() })
}

func TestMsgDeliverGetSigners(t *testing.T) {
	submitter := common.BytesToAddress([]byte{0x22})
	msg := types.NewMsgDeliver(submitter.Hex(), 1, common.BytesToAddress([]byte{0x33}).Hex(), []byte{0x01})

	signers := msg.GetSigners()
	require.Len(t, signers, 1)
	require.Equal(t, sdk.AccAddress(submitter.Bytes()), signers[0])
}
