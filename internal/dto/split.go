package dto

// Classification modes a split request must choose between for its children.
// snapshot copies the parent's classification onto each child at split time;
// unresolved leaves the children for a later resolver run. The choice is
// mandatory: child classification is never inherited implicitly.
const (
	ClassificationModeSnapshot   = "snapshot"
	ClassificationModeUnresolved = "unresolved"
)

// ChildSpec describes one child transaction of a split. Dates, case and bank
// linkage are inherited from the parent; description, counterparty and
// category are the child's own.
type ChildSpec struct {
	AmountCents  int64  `json:"amountCents" binding:"required"`
	Description  string `json:"description" binding:"required"`
	Counterparty string `json:"counterparty,omitempty"`
	Category     string `json:"category,omitempty"`
}

// SplitRequest decomposes a root transaction into at least two children whose
// amounts must resum exactly to the parent amount.
type SplitRequest struct {
	Reason             string      `json:"reason" binding:"required"`
	ClassificationMode string      `json:"classificationMode" binding:"required,oneof=snapshot unresolved"`
	Children           []ChildSpec `json:"children" binding:"required,min=2,dive"`
}

// SplitResponse returns the ids of the created children.
type SplitResponse struct {
	ParentID string   `json:"parentID"`
	ChildIDs []string `json:"childIDs"`
}

// UnsplitRequest reverses a decomposition. ConfirmLoss acknowledges the
// destruction of reviewed/reclassified child data and is required whenever
// any child has left its default state.
type UnsplitRequest struct {
	Reason      string `json:"reason" binding:"required"`
	ConfirmLoss bool   `json:"confirmLoss"`
}

// ConfirmationRequiredResponse is the 409 payload when an unsplit needs
// explicit consent; it lists the children whose data would be destroyed.
type ConfirmationRequiredResponse struct {
	Error          string   `json:"error"`
	AtRiskChildIDs []string `json:"atRiskChildIDs"`
}
