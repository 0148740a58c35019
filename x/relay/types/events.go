package types

// Relay module event types
const (
	EventTypeSenderRegistered        = "sender_registered"
	EventTypeDestinationsRegistered  = "destinations_registered"
	EventTypeDestinationUnregistered = "destination_unregistered"
	EventTypeMessageDelivered        = "message_delivered"
	EventTypeMessageIgnored          = "message_ignored"
	EventTypeTrustedSourceSet        = "trusted_source_set"
)

// Relay module event attribute keys
const (
	AttributeKeySender      = "sender"
	AttributeKeyEventType   = "event_type"
	AttributeKeyDestination = "destination"
	AttributeKeyCount       = "count"
	AttributeKeySequence    = "sequence"
	AttributeKeyEnabled     = "enabled"
	AttributeKeySource      = "source"
)
