package models

// SnapshotFormatVersion tags the portable backup document. Bump only with a
// migration path for older documents.
const SnapshotFormatVersion = 1

// Snapshot is the whole-state backup document: every product and every ledger
// entry, plus the format tag. It round-trips through JSON without loss.
type Snapshot struct {
	FormatVersion int              `json:"format_version"`
	Products      []*Product       `json:"products"`
	Transactions  []*StockMovement `json:"transactions"`
}
