package domain

import "time"

// SentAccountRow is one summary row of the "accounts I've sent to" view:
// a distinct receiver with the most recent send date and the total number of
// transfers made to it.
type SentAccountRow struct {
	Name         string    `json:"name"`
	Number       string    `json:"number"`
	MostRecentAt time.Time `json:"most_recent_at"`
	SendCount    int       `json:"send_count"`
}

// SentAccountsPage is one page of the sent-to aggregation.
type SentAccountsPage struct {
	Rows       []SentAccountRow `json:"rows"`
	Page       int              `json:"page"`
	TotalPages int              `json:"total_pages"`
	TotalRows  int              `json:"total_rows"`
}

// HistoryEntryType classifies a history entry from the account's point of view.
type HistoryEntryType string

const (
	HistorySend    HistoryEntryType = "send"
	HistoryReceive HistoryEntryType = "receive"
)

// HistoryEntry is one row of the merged transaction history, re-projected to
// show the counterparty and a signed amount (negative for sends).
type HistoryEntry struct {
	ID                 string           `json:"id"`
	Type               HistoryEntryType `json:"type"`
	CounterpartyName   string           `json:"counterparty_name"`
	CounterpartyNumber string           `json:"counterparty_number"`
	Amount             int64            `json:"amount"` // signed: -amount for send, +amount for receive
	Memo               string           `json:"memo"`
	CreatedAt          time.Time        `json:"created_at"`
}

// HistoryPage is one page of the merged transaction history.
type HistoryPage struct {
	Entries    []HistoryEntry `json:"entries"`
	Page       int            `json:"page"`
	TotalPages int            `json:"total_pages"`
	TotalRows  int            `json:"total_rows"`
}
