package ledger

import (
	"github.com/username/leaguefolio/src/logger"
	"github.com/username/leaguefolio/src/models"
)

// Kind is the canonical kind a raw activity record normalizes to.
type Kind int

const (
	KindUnknown Kind = iota
	KindAddDrop
	KindTrade
)

func (k Kind) String() string {
	switch k {
	case KindAddDrop:
		return "add_or_drop"
	case KindTrade:
		return "trade"
	default:
		return "unknown"
	}
}

// MoveKind identifies one kind of effect inside a transaction record.
type MoveKind string

const (
	MoveAdd   MoveKind = "add"
	MoveDrop  MoveKind = "drop"
	MoveTrade MoveKind = "trade"
)

// Classification is the classifier's verdict for one raw record.
type Classification struct {
	Kind         Kind
	Commissioner bool
}

// Classify normalizes a raw provider record into a canonical kind.
// The second return value is false when the record should be skipped:
// incomplete status, unrecognized type, or a commissioner action whose
// payload shape matches neither an add/drop nor a trade. Skips are not
// errors; they are traced and ignored.
func Classify(raw models.RawTransaction) (Classification, bool) {
	if raw.Status != "complete" {
		logger.L.Debug("Skipping transaction with incomplete status",
			"transactionID", raw.TransactionID, "status", raw.Status)
		return Classification{}, false
	}

	switch raw.Type {
	case "waiver", "free_agent":
		return Classification{Kind: KindAddDrop}, true
	case "trade":
		return Classification{Kind: KindTrade}, true
	case "commissioner":
		return classifyCommissioner(raw)
	default:
		logger.L.Debug("Skipping transaction with unrecognized type",
			"transactionID", raw.TransactionID, "type", raw.Type)
		return Classification{}, false
	}
}

// classifyCommissioner disambiguates forced actions by payload shape: a single
// added or dropped asset is a forced add/drop, while assets swapped between
// two or more rosters is a forced trade.
func classifyCommissioner(raw models.RawTransaction) (Classification, bool) {
	adds, drops := len(raw.Adds), len(raw.Drops)
	switch {
	case (adds == 1 && drops == 0) || (adds == 0 && drops == 1):
		return Classification{Kind: KindAddDrop, Commissioner: true}, true
	case adds+drops >= 2 && len(raw.RosterIDs) >= 2:
		return Classification{Kind: KindTrade, Commissioner: true}, true
	default:
		logger.L.Debug("Skipping commissioner transaction with unexpected shape",
			"transactionID", raw.TransactionID, "adds", adds, "drops", drops,
			"rosters", len(raw.RosterIDs))
		return Classification{}, false
	}
}
