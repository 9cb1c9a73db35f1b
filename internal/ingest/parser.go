package ingest

import (
	"strconv"
	"strings"
	"time"

	"solana-wallet-radar/internal/addr"
	"solana-wallet-radar/internal/domain"
)

// Description phrases arrive in two shapes, both seven tokens:
//
//	<wallet> swapped <in_amount> <in_symbol> for <out_amount> <out_mint>
//	<sender> transferred <amount> of <token> to <receiver>.
//
// Anything else is dropped without comment; the upstream string is a
// human sentence and the strict shape gate is what keeps noise out.

const referenceAsset = "SOL"

// trailing characters stripped from the receiver slot of a transfer
// phrase (the sentence ends with punctuation).
const trailingPunct = ".,!;:"

// parseDescription extracts an activity event from one indexer
// transaction. wallet is the tracked address the page was fetched for.
// Returns false for every rejected shape.
func parseDescription(wallet, txType, description string, timestamp int64, now time.Time) (*domain.ActivityEvent, bool) {
	fields := strings.Split(description, " ")
	if len(fields) != 7 {
		return nil, false
	}

	// Events older than the activity window never make it into the log.
	if timestamp+int64(domain.ActivityWindow/time.Second) <= now.Unix() {
		return nil, false
	}

	switch txType {
	case string(domain.ActivitySwap):
		mint := fields[6]
		if !addr.MatchesShape(mint) {
			return nil, false
		}
		amount, ok := parseAmount(fields[5])
		if !ok {
			return nil, false
		}
		return &domain.ActivityEvent{
			WalletAddress: fields[0],
			TokenAddress:  mint,
			Amount:        amount,
			Timestamp:     time.Unix(timestamp, 0).UTC(),
			Kind:          domain.ActivitySwap,
		}, true

	case string(domain.ActivityTransfer):
		receiver := strings.TrimRight(fields[6], trailingPunct)
		if !addr.MatchesShape(receiver) {
			return nil, false
		}
		// Only transfers INTO the tracked wallet count as buys, and
		// moving the reference asset around is not a token buy.
		if receiver != wallet || fields[4] == referenceAsset {
			return nil, false
		}
		amount, ok := parseAmount(fields[2])
		if !ok {
			return nil, false
		}
		return &domain.ActivityEvent{
			WalletAddress: receiver,
			TokenAddress:  fields[4],
			Amount:        amount,
			Timestamp:     time.Unix(timestamp, 0).UTC(),
			Kind:          domain.ActivityTransfer,
		}, true
	}

	return nil, false
}

// parseAmount accepts decimals with more than one fractional digit and
// a value of at least 1000. Everything else is rejected as either dust
// or a non-amount token that drifted into the amount slot.
func parseAmount(s string) (float64, bool) {
	dot := strings.IndexByte(s, '.')
	if dot < 0 || len(s)-dot-1 <= 1 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 1000 {
		return 0, false
	}
	return v, true
}
