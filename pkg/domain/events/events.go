// Package events defines the domain events emitted after users and
// transactions are stored.
package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeUserCreated        = "UserCreated"
	EventTypeTransactionCreated = "TransactionCreated"
)

// Event is implemented by every domain event.
type Event interface {
	Type() string
	ID() uuid.UUID
	OccurredAt() time.Time
}

// Meta carries the identity shared by all events.
type Meta struct {
	EventID   uuid.UUID `json:"id"`
	Timestamp time.Time `json:"occurred_at"`
}

func newMeta() Meta {
	return Meta{EventID: uuid.New(), Timestamp: time.Now().UTC()}
}

func (m Meta) ID() uuid.UUID         { return m.EventID }
func (m Meta) OccurredAt() time.Time { return m.Timestamp }

// UserCreated is emitted once a user has been committed.
type UserCreated struct {
	Meta
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
}

func (UserCreated) Type() string { return EventTypeUserCreated }

func NewUserCreated(userID uint, email string) *UserCreated {
	return &UserCreated{Meta: newMeta(), UserID: userID, Email: email}
}

// TransactionCreated is emitted once a transaction has been committed.
// AssetSymbol is empty unless the transaction is a trade.
type TransactionCreated struct {
	Meta
	TransactionID uint   `json:"transaction_id"`
	UserID        uint   `json:"user_id"`
	TxType        string `json:"type"`
	AssetSymbol   string `json:"asset_symbol,omitempty"`
}

func (TransactionCreated) Type() string { return EventTypeTransactionCreated }

func NewTransactionCreated(id, userID uint, txType, symbol string) *TransactionCreated {
	return &TransactionCreated{
		Meta:          newMeta(),
		TransactionID: id,
		UserID:        userID,
		TxType:        txType,
		AssetSymbol:   symbol,
	}
}
