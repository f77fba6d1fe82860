package domain

import "time"

// Event types
const (
	EventTypeRateUpdated    = "rate.updated"
	EventTypeDeposited      = "ledger.deposited"
	EventTypeRedeemed       = "ledger.redeemed"
	EventTypeTransferred    = "transfer.created"
	EventTypePacketSent     = "bridge.packet_sent"
	EventTypePacketReceived = "bridge.packet_received"
	EventTypeAccountCreated = "account.created"
)

// Aggregate types
const (
	AggregateTypeAccount = "account"
	AggregateTypeRate    = "rate"
	AggregateTypePacket  = "packet"
)

// OutboxEvent represents an event to be published
type OutboxEvent struct {
	ID            string
	AggregateID   string
	AggregateType string
	EventType     string
	Payload       map[string]any
	CreatedAt     time.Time
	PublishedAt   *time.Time
	Published     bool
}

// RateUpdatedEvent payload
type RateUpdatedEvent struct {
	PreviousRate string `json:"previous_rate"`
	NewRate      string `json:"new_rate"`
}

// DepositedEvent payload
type DepositedEvent struct {
	AccountID  string `json:"account_id"`
	Amount     string `json:"amount"`
	LockedRate string `json:"locked_rate"`
}

// RedeemedEvent payload
type RedeemedEvent struct {
	AccountID string `json:"account_id"`
	Amount    string `json:"amount"`
}

// TransferredEvent payload
type TransferredEvent struct {
	TransferID    string `json:"transfer_id"`
	FromAccountID string `json:"from_account_id"`
	ToAccountID   string `json:"to_account_id"`
	Amount        string `json:"amount"`
	InheritedRate bool   `json:"inherited_rate"`
}

// PacketSentEvent payload is the packet itself plus routing.
type PacketSentEvent struct {
	PacketID           string `json:"packet_id"`
	PeerID             string `json:"peer_id"`
	SourceAccountID    string `json:"source_account_id"`
	DestinationAccount string `json:"destination_account"`
	Amount             string `json:"amount"`
	SourceLockedRate   string `json:"source_locked_rate"`
}

// PacketReceivedEvent payload
type PacketReceivedEvent struct {
	PacketID           string `json:"packet_id"`
	DestinationAccount string `json:"destination_account"`
	Amount             string `json:"amount"`
	SourceLockedRate   string `json:"source_locked_rate"`
}
