package domain

// Bucket identifies the insolvency fund bucket a cash movement belongs to.
type Bucket string

const (
	BucketOldEstate  Bucket = "OLD_ESTATE"
	BucketNewEstate  Bucket = "NEW_ESTATE"
	BucketMixed      Bucket = "MIXED"
	BucketUnresolved Bucket = "UNRESOLVED"
)

// Provenance identifies which fallback rule produced a classification.
// The set is closed; every consumer must handle all five values.
type Provenance string

const (
	ProvenanceContractRule    Provenance = "CONTRACT_RULE"
	ProvenanceServiceDate     Provenance = "SERVICE_DATE_RULE"
	ProvenancePeriodProrata   Provenance = "PERIOD_PRORATA"
	ProvenanceRhythmInference Provenance = "RHYTHM_INFERENCE"
	ProvenanceNoRuleMatched   Provenance = "NO_RULE_MATCHED"
)

// Classification is the allocation result for a single transaction.
// Ratio is the NEW-estate share and is present iff Bucket is MIXED.
type Classification struct {
	Bucket     Bucket     `json:"bucket"`
	Ratio      *Ratio     `json:"ratio,omitempty"`
	Provenance Provenance `json:"provenance"`
	Note       string     `json:"note,omitempty"`
}

// Unresolved is the terminal classification when no rule matched. It is a
// valid state requiring human follow-up, never an error and never zero.
func Unresolved() Classification {
	return Classification{Bucket: BucketUnresolved, Provenance: ProvenanceNoRuleMatched}
}

// FromRatio maps a NEW-estate ratio onto a bucket: 0 is pure old estate,
// 1 pure new estate, anything in between a MIXED allocation carrying the ratio.
func FromRatio(r Ratio, provenance Provenance, note string) Classification {
	switch {
	case r.IsZero():
		return Classification{Bucket: BucketOldEstate, Provenance: provenance, Note: note}
	case r.IsOne():
		return Classification{Bucket: BucketNewEstate, Provenance: provenance, Note: note}
	default:
		return Classification{Bucket: BucketMixed, Ratio: &r, Provenance: provenance, Note: note}
	}
}

// Equal reports whether two classifications are byte-identical, including
// provenance and note. Used to verify resolver idempotence and to detect
// no-op reclassification writes.
func (c Classification) Equal(o Classification) bool {
	if c.Bucket != o.Bucket || c.Provenance != o.Provenance || c.Note != o.Note {
		return false
	}
	if (c.Ratio == nil) != (o.Ratio == nil) {
		return false
	}
	if c.Ratio != nil && !c.Ratio.Equal(*o.Ratio) {
		return false
	}
	return true
}
