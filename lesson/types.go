package lesson

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Severity classifies how costly the mistake behind a lesson was.
type Severity string

const (
	// SeverityLow marks lessons recording minor friction.
	SeverityLow Severity = "low"
	// SeverityNormal marks lessons worth re-reading before similar work.
	SeverityNormal Severity = "normal"
	// SeverityHigh marks lessons learned from incidents or data loss.
	SeverityHigh Severity = "high"
)

// ParseSeverity normalises a raw severity value. The empty string maps to
// SeverityNormal so hand-authored files can omit the key.
func ParseSeverity(value string) (Severity, error) {
	switch Severity(strings.ToLower(strings.TrimSpace(value))) {
	case "":
		return SeverityNormal, nil
	case SeverityLow:
		return SeverityLow, nil
	case SeverityNormal:
		return SeverityNormal, nil
	case SeverityHigh:
		return SeverityHigh, nil
	default:
		return "", &InvalidSeverityError{Value: value}
	}
}

// Valid reports whether the severity is one of the three allowed values.
func (s Severity) Valid() bool {
	switch s {
	case SeverityLow, SeverityNormal, SeverityHigh:
		return true
	}
	return false
}

// HeatWeight returns the heat contribution of the severity class: +0 for
// low, +1 for normal, +2 for high.
func (s Severity) HeatWeight() int {
	switch s {
	case SeverityNormal:
		return 1
	case SeverityHigh:
		return 2
	default:
		return 0
	}
}

func (s Severity) String() string {
	return string(s)
}

// Section names required in every lesson body, in template order.
const (
	SectionContext    = "Context"
	SectionRule       = "Rule"
	SectionExample    = "Example"
	SectionGuardrails = "Guardrails"
	SectionTags       = "Tags"
)

// RequiredSections lists the body section headers every lesson must carry.
func RequiredSections() []string {
	return []string{
		SectionContext,
		SectionRule,
		SectionExample,
		SectionGuardrails,
		SectionTags,
	}
}

// Lesson is the canonical stored record for a micro-lesson document.
type Lesson struct {
	bun.BaseModel `bun:"table:lessons,alias:ls"`

	ID         uuid.UUID  `bun:",pk,type:uuid"                  json:"id"`
	Slug       string     `bun:"slug,notnull,unique"            json:"slug"`
	Title      string     `bun:"title,notnull"                  json:"title"`
	Severity   Severity   `bun:"severity,notnull,default:'normal'" json:"severity"`
	UsedBy     int        `bun:"used_by,notnull,default:0"      json:"used_by"`
	Tags       []string   `bun:"tags,type:jsonb"                json:"tags,omitempty"`
	Context    string     `bun:"context,notnull"                json:"context"`
	Rule       string     `bun:"rule,notnull"                   json:"rule"`
	Example    string     `bun:"example"                        json:"example,omitempty"`
	Guardrails string     `bun:"guardrails"                     json:"guardrails,omitempty"`
	Tip        string     `bun:"tip"                            json:"tip,omitempty"`
	SourcePath string     `bun:"source_path"                    json:"source_path,omitempty"`
	Checksum   string     `bun:"checksum"                       json:"checksum,omitempty"`
	ArchivedAt *time.Time `bun:"archived_at,nullzero"           json:"archived_at,omitempty"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt  time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Archived reports whether the lesson has been retired from the active set.
func (l *Lesson) Archived() bool {
	return l != nil && l.ArchivedAt != nil
}

// HasTag reports whether the lesson carries the given tag (case-insensitive).
func (l *Lesson) HasTag(tag string) bool {
	if l == nil {
		return false
	}
	needle := strings.ToLower(strings.TrimSpace(tag))
	for _, candidate := range l.Tags {
		if strings.ToLower(strings.TrimSpace(candidate)) == needle {
			return true
		}
	}
	return false
}
