package model

import "time"

type ActionStatus string

const (
	ActionQueued    ActionStatus = "queued"
	ActionDelivered ActionStatus = "delivered"
	ActionFailed    ActionStatus = "failed"
)

func (s ActionStatus) String() string {
	return string(s)
}

func (s ActionStatus) Valid() bool {
	return s == ActionQueued || s == ActionDelivered || s == ActionFailed
}

// ContactAction is one call/whatsapp/copy tap on a listing's phone number,
// persisted in the contact_actions table.
type ContactAction struct {
	ID         string       `db:"id"          json:"id"`
	ClientID   int64        `db:"client_id"   json:"client_id"`
	ListingRef string       `db:"listing_ref" json:"listing_ref"`
	Phone      string       `db:"phone"       json:"phone"` // E.164 when valid, else normalized input
	DialCode   string       `db:"dial_code"   json:"dial_code"`
	Intent     string       `db:"intent"      json:"intent"` // call|whatsapp|copy
	Status     ActionStatus `db:"status"      json:"status"`
	CreatedAt  time.Time    `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time    `db:"updated_at"  json:"updated_at"`
}
