package model

// ContactEvent is what webhook sinks receive for one contact action.
type ContactEvent struct {
	Phone      string `json:"phone"`
	Masked     string `json:"masked"`
	Intent     string `json:"intent"`
	ListingRef string `json:"listing_ref,omitempty"`
	Message    string `json:"message,omitempty"`
	URI        string `json:"uri,omitempty"`
}

// Envelope is the payload published to Kafka (via Debezium outbox SMT).
type Envelope struct {
	ID       string       `json:"id"`        // contact action ULID
	ClientID int64        `json:"client_id"` // api client id
	Event    ContactEvent `json:"event"`
}
