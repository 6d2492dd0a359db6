package model

// BandType distinguishes the two independent threshold systems an area
// carries. Management and security bands are evaluated separately over the
// same visitor count and are never mixed in comparisons.
type BandType string

const (
	BandManagement BandType = "management"
	BandSecurity   BandType = "security"
)

// IsValid reports whether b is one of the known band types.
func (b BandType) IsValid() bool {
	return b == BandManagement || b == BandSecurity
}
