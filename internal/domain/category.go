package domain

// Category is the closed set of discrepancy explanations assigned to a
// record found in one registry but not the other.
type Category int

const (
	CategoryUndetermined           Category = 0
	CategoryBelowCohortHighRisk    Category = 1
	CategoryBelowCohortNotHighRisk Category = 2
	CategoryAboveCohort            Category = 3
	CategoryNoGPDeathRemoval       Category = 4
	CategoryNoGPOtherRemoval       Category = 5
	CategoryDummyGPPractice        Category = 6
	CategoryCohortMale             Category = 7
)

// categoryDescriptions is the single source of the human-readable text; ids
// and descriptions must never drift apart.
var categoryDescriptions = map[Category]string{
	CategoryUndetermined:           "Discrepancy category could not be determined",
	CategoryBelowCohortHighRisk:    "Below cohort age and high risk",
	CategoryBelowCohortNotHighRisk: "Below cohort age and not high risk",
	CategoryAboveCohort:            "Above cohort age",
	CategoryNoGPDeathRemoval:       "Within cohort age and not registered to a GP with death reason for removal",
	CategoryNoGPOtherRemoval:       "Within cohort age and not registered to a GP without death reason for removal",
	CategoryDummyGPPractice:        "Within cohort age and registered to a dummy GP practice",
	CategoryCohortMale:             "Within cohort age and male",
}

// Description returns the fixed text for the category. Unknown values map
// to the undetermined description so output is always total.
func (c Category) Description() string {
	if d, ok := categoryDescriptions[c]; ok {
		return d
	}
	return categoryDescriptions[CategoryUndetermined]
}

// Valid reports whether c is one of the eight defined categories.
func (c Category) Valid() bool {
	_, ok := categoryDescriptions[c]
	return ok
}
