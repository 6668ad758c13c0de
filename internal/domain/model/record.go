package model

import "errors"

// Sentinel kinds for record migration errors.
var (
	ErrEmptyRecord   = errors.New("skill record has no payload")
	ErrUnknownFormat = errors.New("unknown skill record format")
)

// RecordFormat tags the shape a persisted skill row was stored in.
type RecordFormat int

const (
	// FormatCurrent rows carry value and tournament count.
	FormatCurrent RecordFormat = iota
	// FormatLegacy rows predate tournament counting and carry a bare value.
	FormatLegacy
)

// CurrentRecord is the canonical persisted shape of a skill row.
type CurrentRecord struct {
	SkillKey        string  `json:"skill_key"`
	Value           float64 `json:"value"`
	TournamentCount int     `json:"tournament_count"`
}

// LegacyRecord is the pre-counting persisted shape. Kept only so old rows can
// be migrated once on load instead of being shape-sniffed on every read.
type LegacyRecord struct {
	SkillKey string  `json:"skill"`
	Value    float64 `json:"level"`
}

// SkillRecord is a tagged variant over the two persisted row shapes. Exactly
// one payload pointer is set, selected by Format.
type SkillRecord struct {
	Format  RecordFormat
	Current *CurrentRecord
	Legacy  *LegacyRecord
}

// NewCurrentRecord wraps a canonical row in the tagged variant.
func NewCurrentRecord(rec CurrentRecord) SkillRecord {
	return SkillRecord{Format: FormatCurrent, Current: &rec}
}

// NewLegacyRecord wraps a legacy row in the tagged variant.
func NewLegacyRecord(rec LegacyRecord) SkillRecord {
	return SkillRecord{Format: FormatLegacy, Legacy: &rec}
}

// Migrate converts the record to the canonical shape. Legacy rows have no
// tournament count on disk, so migration starts them at zero; the next full
// replay rebuilds the true count.
func (r SkillRecord) Migrate() (CurrentRecord, error) {
	switch r.Format {
	case FormatCurrent:
		if r.Current == nil {
			return CurrentRecord{}, ErrEmptyRecord
		}
		return *r.Current, nil
	case FormatLegacy:
		if r.Legacy == nil {
			return CurrentRecord{}, ErrEmptyRecord
		}
		return CurrentRecord{
			SkillKey: r.Legacy.SkillKey,
			Value:    r.Legacy.Value,
		}, nil
	default:
		return CurrentRecord{}, ErrUnknownFormat
	}
}
