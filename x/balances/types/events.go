package types

// Balances module event types
const (
	EventTypeBalanceUpdated     = "balance_updated"
	EventTypeDelegationEnabled  = "delegation_enabled"
	EventTypeDelegationDisabled = "delegation_disabled"
	EventTypeTokensAdded        = "tokens_added"
	EventTypeTokensRemoved      = "tokens_removed"
)

// Balances module event attribute keys
const (
	AttributeKeyAccount       = "account"
	AttributeKeyToken         = "token"
	AttributeKeyAmount        = "amount"
	AttributeKeyApplied       = "applied"
	AttributeKeyAuthoritative = "authoritative"
	AttributeKeyDelegator     = "delegator"
	AttributeKeyDelegatee     = "delegatee"
	AttributeKeyCount         = "count"
)
