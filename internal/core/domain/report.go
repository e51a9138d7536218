package domain

// ParentSumMismatch is one invariant-1 violation: a parent whose children's
// amounts no longer resum to the parent's amount.
type ParentSumMismatch struct {
	ParentID      string `json:"parentID"`
	ExpectedCents int64  `json:"expectedCents"` // Parent amount
	ActualCents   int64  `json:"actualCents"`   // Sum of children
	DeltaCents    int64  `json:"deltaCents"`    // Actual - expected
}

// InvariantCheck is the pass/fail outcome of a single ledger invariant.
type InvariantCheck struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// InvariantReport is the full result of re-deriving the four ledger
// invariants for a case, independent of the write path. It is produced by a
// read-only sweep and usable both as an operational health check and as a
// test oracle against any code path that mutates the ledger.
type InvariantReport struct {
	CaseID string `json:"caseID"`

	ParentSums   InvariantCheck `json:"parentSums"`   // Invariant 1
	Conservation InvariantCheck `json:"conservation"` // Invariant 2
	Referential  InvariantCheck `json:"referential"`  // Invariant 3
	Acyclic      InvariantCheck `json:"acyclic"`      // Invariant 4

	ParentMismatches []ParentSumMismatch `json:"parentMismatches,omitempty"`
	ActiveSumCents   int64               `json:"activeSumCents"`
	RootSumCents     int64               `json:"rootSumCents"`
	OrphanedChildren []string            `json:"orphanedChildren,omitempty"`
	NestedParents    []string            `json:"nestedParents,omitempty"`
}

// Passed reports whether all four invariants hold.
func (r *InvariantReport) Passed() bool {
	return r.ParentSums.Passed && r.Conservation.Passed && r.Referential.Passed && r.Acyclic.Passed
}
