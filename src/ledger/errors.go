package ledger

import "errors"

// Contract violations. These abort the ingestion of the offending record;
// the rest of the week continues.
var (
	ErrMissingTransactionID = errors.New("transaction record has no transaction id")
	ErrMultipleParticipants = errors.New("add/drop record spans more than one participant")
	ErrMultipleAssets       = errors.New("add/drop record moves more than one asset per direction")
	ErrMalformedTrade       = errors.New("trade record is missing required fields")
	ErrUnknownMoveKind      = errors.New("unknown move kind reached the rollup ledger")
	ErrDuplicateAsset       = errors.New("asset recorded twice under one transaction id")
	ErrConflictingAddDrop   = errors.New("add/drop detail already recorded for a different participant")
)
