// Package snapshot encodes the whole inventory state into one portable JSON
// document and decodes it back. The codec never touches the stores: callers
// pass state in and decide how to apply what comes out.
package snapshot

import (
	"encoding/json"

	"github.com/google/uuid"
	"github.com/inventorypro/inventory-platform/internal/errors"
	"github.com/inventorypro/inventory-platform/internal/models"
)

// Export assembles the versioned backup document from the given state. Nil
// slices are normalized so an empty inventory still produces `[]`, not `null`.
func Export(products []*models.Product, movements []*models.StockMovement) *models.Snapshot {

	if products == nil {
		products = []*models.Product{}
	}

	if movements == nil {
		movements = []*models.StockMovement{}
	}

	return &models.Snapshot{
		FormatVersion: models.SnapshotFormatVersion,
		Products:      products,
		Transactions:  movements,
	}
}

// Marshal renders the document as indented JSON, the on-disk and on-Drive
// wire format.
func Marshal(snap *models.Snapshot) ([]byte, error) {

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, errors.InternalError("Failed to encode snapshot").WithError(err)
	}

	return data, nil
}

// Decode parses and validates a backup document. The format version must
// match exactly and every ledger entry must carry a well-formed product id;
// the referenced product does not have to exist, because the document is
// loaded as a whole and is its own source of truth.
func Decode(data []byte) (*models.Snapshot, error) {

	var snap models.Snapshot

	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, errors.ParseFailureError("Snapshot document is not valid JSON").WithError(err)
	}

	if snap.FormatVersion != models.SnapshotFormatVersion {
		return nil, errors.UnsupportedFormatError(snap.FormatVersion)
	}

	for _, p := range snap.Products {
		if p == nil || p.ID == uuid.Nil {
			return nil, errors.ParseFailureError("Snapshot contains a product without an id")
		}
	}

	for _, m := range snap.Transactions {
		if m == nil || m.ID == uuid.Nil {
			return nil, errors.ParseFailureError("Snapshot contains a transaction without an id")
		}

		if m.ProductID == uuid.Nil {
			return nil, errors.ParseFailureError("Snapshot contains a transaction without a product id")
		}

		if m.Type != models.MovementIn && m.Type != models.MovementOut {
			return nil, errors.ParseFailureError("Snapshot contains a transaction with an unknown type")
		}
	}

	if snap.Products == nil {
		snap.Products = []*models.Product{}
	}

	if snap.Transactions == nil {
		snap.Transactions = []*models.StockMovement{}
	}

	return &snap, nil
}
