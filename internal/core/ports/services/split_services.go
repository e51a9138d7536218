package services

import (
	"context"

	"github.com/madegner/estate-ledger/internal/dto"
)

// SplitSvcFacade exposes the split hierarchy manager: decomposing one root
// transaction into children and reversing the decomposition, both as single
// atomic units of work that preserve the ledger sum invariants.
type SplitSvcFacade interface {
	// Split decomposes a root transaction into the given children and returns their ids.
	Split(ctx context.Context, parentID string, req dto.SplitRequest, actor string) ([]string, error)

	// Unsplit deletes a parent's children after snapshotting them into the audit
	// log. Returns a ConfirmationRequiredError when child data would be lost and
	// req.ConfirmLoss is false.
	Unsplit(ctx context.Context, parentID string, req dto.UnsplitRequest, actor string) error
}
