package types

// Votes module event types
const (
	EventTypeVoteCast           = "vote_cast"
	EventTypeVotesRebalanced    = "votes_rebalanced"
	EventTypeCycleRolledOver    = "cycle_rolled_over"
	EventTypeReactorKeysUpdated = "reactor_keys_updated"
	EventTypeMultipliersUpdated = "multipliers_updated"
	EventTypeSettingsUpdated    = "settings_updated"
	EventTypePausedSet          = "paused_set"
	EventTypeSnapshot           = "aggregation_snapshot"
)

// Votes module event attribute keys
const (
	AttributeKeyAccount        = "account"
	AttributeKeyTotalUsed      = "total_used"
	AttributeKeyTotalAvailable = "total_available"
	AttributeKeyAllocations    = "allocations"
	AttributeKeySessionKey     = "session_key"
	AttributeKeyCycleIndex     = "cycle_index"
	AttributeKeyTimestamp      = "timestamp"
	AttributeKeySetting        = "setting"
	AttributeKeyValue          = "value"
	AttributeKeyAdded          = "added"
	AttributeKeyRemoved        = "removed"
	AttributeKeyCount          = "count"
	AttributeKeyPaused         = "paused"
)
