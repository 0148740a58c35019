package cmd

import (
	"io"

	"github.com/spf13/cobra"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/cosmos/cosmos-sdk/server"
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	sdk "github.com/cosmos/cosmos-sdk/types"

	"github.com/govbridge/cosmos/app"
)

// NewRootCmd creates a new root command for govbridged. It is called once in
// the main function.
func NewRootCmd() (*cobra.Command, interface{}) {
	// Set config for prefixes
	config := sdk.GetConfig()
	config.SetBech32PrefixForAccount(app.AccountAddressPrefix, app.AccountAddressPrefix+"pub")
	config.SetBech32PrefixForValidator(app.AccountAddressPrefix+"valoper", app.AccountAddressPrefix+"valoperpub")
	config.SetBech32PrefixForConsensusNode(app.AccountAddressPrefix+"valcons", app.AccountAddressPrefix+"valconspub")
	config.Seal()

	rootCmd := &cobra.Command{
		Use:   "govbridged",
		Short: "Governance bridge daemon",
		Long: `Governance bridge is a blockchain application built using Cosmos SDK.
It relays governance events from a source ledger, maintains delegation-aware
token balances and aggregates voting power across allocation targets.`,
	}

	server.AddCommands(rootCmd, app.DefaultNodeHome, newApp, nil, addModuleInitFlags)

	return rootCmd, nil
}

func addModuleInitFlags(startCmd *cobra.Command) {
	// Module initialization flags will be added here
}

// newApp creates the application
func newApp(
	logger log.Logger,
	db dbm.DB,
	traceStore io.Writer,
	appOpts servertypes.AppOptions,
) servertypes.Application {
	return app.New(logger, db, traceStore, true, appOpts)
}
