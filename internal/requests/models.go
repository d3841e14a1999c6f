package requests

import "time"

// Status is the lifecycle state of a line item. PENDING is the only
// non-terminal state.
type Status string

const (
	StatusPending   Status = "PENDING"
	StatusAttended  Status = "ATTENDED"
	StatusCancelled Status = "CANCELLED"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusAttended, StatusCancelled:
		return true
	default:
		return false
	}
}

// LineItem is one requested product. All line items submitted in one
// checkout action share a RequestID; Seq numbers them within the group.
type LineItem struct {
	RequestID   string    `json:"request_id"`
	Seq         int       `json:"seq"`
	SubmittedAt time.Time `json:"submitted_at"`
	Requester   string    `json:"requester_name"`
	Category    string    `json:"category"`
	CatalogCode string    `json:"catalog_code,omitempty"`
	Description string    `json:"description"`
	Unit        string    `json:"unit_of_measure,omitempty"`
	Quantity    int       `json:"quantity"`
	Status      Status    `json:"status"`
	HandledBy   string    `json:"handled_by,omitempty"`
}

// SubmitItem is one line of an incoming batch. Quantity arrives as text
// (the submission form sends strings) and is parsed before anything is
// persisted.
type SubmitItem struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
}

// Group is the inbox view of one request: every line item sharing a
// RequestID plus the aggregate status.
type Group struct {
	RequestID     string     `json:"request_id"`
	Requester     string     `json:"requester_name"`
	SubmittedAt   time.Time  `json:"submitted_at"`
	Status        Status     `json:"status"`
	TotalQuantity int        `json:"total_quantity"`
	Items         []LineItem `json:"items"`
}

// AggregateStatus applies the conservative grouping rule: a group reads
// ATTENDED (or CANCELLED) only when every item does; any disagreement
// reads PENDING.
func AggregateStatus(items []LineItem) Status {
	if len(items) == 0 {
		return StatusPending
	}

	first := items[0].Status
	for _, item := range items[1:] {
		if item.Status != first {
			return StatusPending
		}
	}

	if first.IsValid() {
		return first
	}
	return StatusPending
}
