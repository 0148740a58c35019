package app

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	storetypes "cosmossdk.io/store/types"
	"github.com/cosmos/cosmos-sdk/baseapp"
	"github.com/cosmos/cosmos-sdk/client"
	"github.com/cosmos/cosmos-sdk/codec"
	codectypes "github.com/cosmos/cosmos-sdk/codec/types"
	"github.com/cosmos/cosmos-sdk/server/api"
	"github.com/cosmos/cosmos-sdk/server/config"
	servertypes "github.com/cosmos/cosmos-sdk/server/types"
	"github.com/cosmos/cosmos-sdk/types/module"
	"github.com/cosmos/cosmos-sdk/version"
	"github.com/cosmos/cosmos-sdk/x/auth"
	authkeeper "github.com/cosmos/cosmos-sdk/x/auth/keeper"
	authtx "github.com/cosmos/cosmos-sdk/x/auth/tx"
	authtypes "github.com/cosmos/cosmos-sdk/x/auth/types"
	"github.com/cosmos/cosmos-sdk/x/bank"
	bankkeeper "github.com/cosmos/cosmos-sdk/x/bank/keeper"
	banktypes "github.com/cosmos/cosmos-sdk/x/bank/types"
	"github.com/cosmos/cosmos-sdk/x/genutil"
	genutiltypes "github.com/cosmos/cosmos-sdk/x/genutil/types"
	"github.com/cosmos/cosmos-sdk/x/staking"
	stakingkeeper "github.com/cosmos/cosmos-sdk/x/staking/keeper"
	stakingtypes "github.com/cosmos/cosmos-sdk/x/staking/types"
	"github.com/cosmos/gogoproto/grpc"

	"cosmossdk.io/log"
	dbm "github.com/cosmos/cosmos-db"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/govbridge/cosmos/x/balances"
	balanceskeeper "github.com/govbridge/cosmos/x/balances/keeper"
	balancestypes "github.com/govbridge/cosmos/x/balances/types"
	"github.com/govbridge/cosmos/x/relay"
	relaykeeper "github.com/govbridge/cosmos/x/relay/keeper"
	relaytypes "github.com/govbridge/cosmos/x/relay/types"
	"github.com/govbridge/cosmos/x/votes"
	voteskeeper "github.com/govbridge/cosmos/x/votes/keeper"
	votestypes "github.com/govbridge/cosmos/x/votes/types"
)

const (
	AccountAddressPrefix = "cosmos"
	Name                 = "govbridge"
)

var (
	// DefaultNodeHome default home directories for the application daemon
	DefaultNodeHome string

	// ModuleBasics defines the module BasicManager is in charge of setting up basic,
	// non-dependant module elements, such as codec registration
	// and genesis verification.
	ModuleBasics = module.NewBasicManager(
		auth.AppModuleBasic{},
		genutil.NewAppModuleBasic(genutiltypes.DefaultMessageValidator),
		bank.AppModuleBasic{},
		staking.AppModuleBasic{},
		relay.AppModuleBasic{},
		balances.AppModuleBasic{},
		votes.AppModuleBasic{},
	)
)

func init() {
	userHomeDir, err := os.UserHomeDir()
	if err != nil {
		panic(err)
	}

	DefaultNodeHome = filepath.Join(userHomeDir, "."+Name)
}

// App extends an ABCI application, but with most of its parameters exported.
// They are exported for convenience in creating helper functions, as object
// capabilities aren't needed for testing.
type App struct {
	*baseapp.BaseApp

	cdc               *codec.LegacyAmino
	appCodec          codec.Codec
	interfaceRegistry codectypes.InterfaceRegistry
	txConfig          client.TxConfig

	invCheckPeriod uint

	// keys to access the substores
	keys    map[string]*storetypes.KVStoreKey
	tkeys   map[string]*storetypes.TransientStoreKey
	memKeys map[string]*storetypes.MemoryStoreKey

	// keepers
	AccountKeeper  authkeeper.AccountKeeper
	BankKeeper     bankkeeper.Keeper
	StakingKeeper  *stakingkeeper.Keeper
	RelayKeeper    relaykeeper.Keeper
	BalancesKeeper balanceskeeper.Keeper
	VotesKeeper    voteskeeper.Keeper

	// the module manager
	mm *module.Manager

	// simulation manager
	sm *module.SimulationManager

	// module configurator
	configurator module.Configurator
}

// New returns a reference to an initialized blockchain app
func New(
	logger log.Logger,
	db dbm.DB,
	traceStore io.Writer,
	loadLatest bool,
	appOpts servertypes.AppOptions,
	baseAppOptions ...func(*baseapp.BaseApp),
) *App {
	interfaceRegistry := codectypes.NewInterfaceRegistry()
	appCodec := codec.NewProtoCodec(interfaceRegistry)
	legacyAmino := codec.NewLegacyAmino()
	txConfig := authtx.NewTxConfig(appCodec, authtx.DefaultSignModes)

	bApp := baseapp.NewBaseApp(Name, logger, db, txConfig.TxDecoder(), baseAppOptions...)
	bApp.SetCommitMultiStoreTracer(traceStore)
	bApp.SetVersion(version.Version)
	bApp.SetInterfaceRegistry(interfaceRegistry)
	bApp.SetTxEncoder(txConfig.TxEncoder())

	keys := storetypes.NewKVStoreKeys(
		authtypes.StoreKey,
		banktypes.StoreKey,
		stakingtypes.StoreKey,
		relaytypes.StoreKey,
		balancestypes.StoreKey,
		votestypes.StoreKey,
	)

	tkeys := storetypes.NewTransientStoreKeys()
	memKeys := storetypes.NewMemoryStoreKeys()

	app := &App{
		BaseApp:           bApp,
		cdc:               legacyAmino,
		appCodec:          appCodec,
		interfaceRegistry: interfaceRegistry,
		txConfig:          txConfig,
		keys:              keys,
		tkeys:             tkeys,
		memKeys:           memKeys,
	}

	authority := authtypes.NewModuleAddress("gov").String()

	// Stable component identities: the relay presents relayID to receivers,
	// receivers are routed by their own identities, and the aggregator signs
	// its typed-data domain with aggregatorID.
	relayID := ComponentID(relaytypes.ModuleName)
	ledgerID := ComponentID(balancestypes.ModuleName)
	aggregatorID := ComponentID(votestypes.ModuleName)

	app.RelayKeeper = *relaykeeper.NewKeeper(keys[relaytypes.StoreKey], authority, relayID)
	app.BalancesKeeper = *balanceskeeper.NewKeeper(keys[balancestypes.StoreKey], authority)
	app.VotesKeeper = *voteskeeper.NewKeeper(keys[votestypes.StoreKey], authority, aggregatorID)

	// Set cross-module dependencies
	app.BalancesKeeper.SetTrustedRelay(relayID)
	app.VotesKeeper.SetTrustedRelay(relayID)
	app.VotesKeeper.SetBalancesKeeper(app.BalancesKeeper)
	app.RelayKeeper.SetRoute(ledgerID, &app.BalancesKeeper)
	app.RelayKeeper.SetRoute(aggregatorID, &app.VotesKeeper)

	return app
}

// ComponentID derives a stable identity for one of the app's relay-visible
// components.
func ComponentID(name string) common.Address {
	return common.BytesToAddress(crypto.Keccak256([]byte(Name + "/" + name))[12:])
}

// Name returns the name of the App
func (app *App) Name() string { return app.BaseApp.Name() }

// LegacyAmino returns SimApp's amino codec.
func (app *App) LegacyAmino() *codec.LegacyAmino {
	return app.cdc
}

// AppCodec returns an app codec.
func (app *App) AppCodec() codec.Codec {
	return app.appCodec
}

// InterfaceRegistry returns an InterfaceRegistry
func (app *App) InterfaceRegistry() codectypes.InterfaceRegistry {
	return app.interfaceRegistry
}

// TxConfig returns SimApp's TxConfig
func (app *App) TxConfig() client.TxConfig {
	return app.txConfig
}

// DefaultGenesis returns a default genesis from the registered AppModuleBasic's.
func (app *App) DefaultGenesis() map[string]json.RawMessage {
	return ModuleBasics.DefaultGenesis(app.appCodec)
}

// GetKey returns the KVStoreKey for the provided store key.
func (app *App) GetKey(storeKey string) *storetypes.KVStoreKey {
	return app.keys[storeKey]
}

// GetTKey returns the TransientStoreKey for the provided store key.
func (app *App) GetTKey(storeKey string) *storetypes.TransientStoreKey {
	return app.tkeys[storeKey]
}

// GetMemKey returns the MemStoreKey for the provided mem key.
func (app *App) GetMemKey(storeKey string) *storetypes.MemoryStoreKey {
	return app.memKeys[storeKey]
}

// RegisterAPIRoutes registers all application module routes with the provided API server.
func (app *App) RegisterAPIRoutes(apiSvr *api.Server, apiConfig config.APIConfig) {
	// Module API routes will be registered here
}

// RegisterGRPCServer registers gRPC services directly with the gRPC server.
func (app *App) RegisterGRPCServer(server grpc.Server) {
	// Module gRPC services will be registered here
}

// RegisterTxService registers the gRPC Query service for tx.
func (app *App) RegisterTxService(clientCtx client.Context) {
	// Tx service will be registered here
}

// RegisterTendermintService registers the gRPC Query service for CometBFT queries.
func (app *App) RegisterTendermintService(clientCtx client.Context) {
	// CometBFT service will be registered here
}

// RegisterNodeService registers the node gRPC Query service.
func (app *App) RegisterNodeService(clientCtx client.Context, cfg config.Config) {
	// Node service will be registered here
}

// Close is called to gracefully cleanup resources.
func (app *App) Close() error {
	return nil
}
