package testutil

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"

	"cosmossdk.io/log"
	"cosmossdk.io/math"
	"cosmossdk.io/store"
	storemetrics "cosmossdk.io/store/metrics"
	storetypes "cosmossdk.io/store/types"
	cmtproto "github.com/cometbft/cometbft/proto/tendermint/types"
	dbm "github.com/cosmos/cosmos-db"
	sdk "github.com/cosmos/cosmos-sdk/types"
	"github.com/ethereum/go-ethereum/common"
)

// Authority is the bech32 address used for administrative calls in tests.
const Authority = "cosmos10d07y265gmmuvt4z0w9aw880jnsr700j6zn9kn"

// NewTestContext mounts the given store keys on a fresh in-memory multistore
// and returns a context over it.
func NewTestContext(t *testing.T, keys ...*storetypes.KVStoreKey) sdk.Context {
	t.Helper()

	db := dbm.NewMemDB()
	cms := store.NewCommitMultiStore(db, log.NewNopLogger(), storemetrics.NewNoOpMetrics())
	for _, key := range keys {
		cms.MountStoreWithDB(key, storetypes.StoreTypeIAVL, db)
	}
	if err := cms.LoadLatestVersion(); err != nil {
		t.Fatalf("failed to load store: %v", err)
	}

	return sdk.NewContext(cms, cmtproto.Header{Time: time.Now()}, false, log.NewNopLogger())
}

// PropertyTestConfig holds configuration for property-based tests
type PropertyTestConfig struct {
	MinSuccessfulTests int
	MaxDiscardRatio    float64
	Workers            int
	Rng                *gopter.LockedSource
}

// DefaultPropertyTestConfig returns default configuration for property tests
func DefaultPropertyTestConfig() *PropertyTestConfig {
	return &PropertyTestConfig{
		MinSuccessfulTests: 100,
		MaxDiscardRatio:    5.0,
		Workers:            1,
		Rng:                gopter.NewLockedSource(time.Now().UnixNano()),
	}
}

// NewPropertyTester creates a new property tester with default configuration
func NewPropertyTester(t *testing.T) *gopter.Properties {
	config := DefaultPropertyTestConfig()
	parameters := &gopter.TestParameters{
		MinSuccessfulTests: config.MinSuccessfulTests,
		MaxDiscardRatio:    config.MaxDiscardRatio,
		Workers:            config.Workers,
		Rng:                config.Rng,
	}
	return gopter.NewProperties(parameters)
}

// Generators for property-based testing

// GenEVMAddress generates non-zero EVM-style identifiers
func GenEVMAddress() gopter.Gen {
	return gen.SliceOfN(common.AddressLength, gen.UInt8()).
		Map(func(bytes []byte) common.Address {
			return common.BytesToAddress(bytes)
		}).
		SuchThat(func(addr common.Address) bool {
			return addr != (common.Address{})
		})
}

// GenAccount generates accounts from a small pool so that update sequences
// revisit the same slots
func GenAccount() gopter.Gen {
	return gen.IntRange(1, 8).Map(func(i int) common.Address {
		return common.BytesToAddress([]byte{byte(i)})
	})
}

// GenAmount generates valid balance amounts in base units
func GenAmount() gopter.Gen {
	return gen.Int64Range(0, 1_000_000_000).Map(func(i int64) math.Int {
		return math.NewInt(i)
	})
}

// GenReactorKey generates allocation target identifiers
func GenReactorKey() gopter.Gen {
	return gen.SliceOfN(common.HashLength, gen.UInt8()).Map(func(bytes []byte) common.Hash {
		return common.BytesToHash(bytes)
	})
}

// TestHelper provides utility functions for testing
type TestHelper struct {
	t *testing.T
}

// NewTestHelper creates a new test helper
func NewTestHelper(t *testing.T) *TestHelper {
	return &TestHelper{t: t}
}

// AssertNoError asserts that no error occurred
func (h *TestHelper) AssertNoError(err error) {
	if err != nil {
		h.t.Fatalf("Unexpected error: %v", err)
	}
}

// AssertError asserts that an error occurred
func (h *TestHelper) AssertError(err error) {
	if err == nil {
		h.t.Fatal("Expected error but got none")
	}
}

// AssertTrue asserts that a condition is true
func (h *TestHelper) AssertTrue(condition bool, message string) {
	if !condition {
		h.t.Fatal(message)
	}
}
