package domain

import "time"

// ActivityKind classifies an activity event.
type ActivityKind string

const (
	ActivitySwap     ActivityKind = "SWAP"
	ActivityTransfer ActivityKind = "TRANSFER"
)

// ActivityWindow is how long an activity event stays in the log before
// eviction.
const ActivityWindow = 24 * time.Hour

// ActivityEvent is a buy-approximating event recorded in the sliding
// 24-hour log: a SWAP output or a received TRANSFER of a non-SOL token.
// The log has no primary key; duplicates are prevented by the ingest
// dedupe rule on (wallet, token, timestamp).
type ActivityEvent struct {
	WalletAddress string
	TokenAddress  string
	Amount        float64
	Timestamp     time.Time
	Kind          ActivityKind
}

// TokenTime identifies an activity event for dedupe within one wallet.
// Timestamps are compared at second precision, matching the indexer.
type TokenTime struct {
	Token string
	Unix  int64
}

// Key returns the dedupe key of the event.
func (e *ActivityEvent) Key() TokenTime {
	return TokenTime{Token: e.TokenAddress, Unix: e.Timestamp.Unix()}
}
