package models

import "time"

type DocumentStatus string

const (
	DocumentNeeded       DocumentStatus = "needed"
	DocumentInProgress   DocumentStatus = "in_progress"
	DocumentCompleted    DocumentStatus = "completed"
	DocumentSubmitted    DocumentStatus = "submitted"
	DocumentValid        DocumentStatus = "valid"
	DocumentExpiringSoon DocumentStatus = "expiring_soon"
	DocumentExpired      DocumentStatus = "expired"
	DocumentPending      DocumentStatus = "pending"
)

var documentStatuses = map[DocumentStatus]struct{}{
	DocumentNeeded: {}, DocumentInProgress: {}, DocumentCompleted: {}, DocumentSubmitted: {},
	DocumentValid: {}, DocumentExpiringSoon: {}, DocumentExpired: {}, DocumentPending: {},
}

func (s DocumentStatus) Valid() bool {
	_, ok := documentStatuses[s]
	return ok
}

// Document is an application document tracked on the device.
// Dates are kept as the strings the user entered; ExpiryTime parses them.
type Document struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Title        string         `json:"title"`
	Type         string         `json:"type"`
	Status       DocumentStatus `json:"status"`
	Deadline     string         `json:"deadline,omitempty"`
	Notes        string         `json:"notes,omitempty"`
	FileURL      string         `json:"fileUrl,omitempty"`
	ExpiryDate   string         `json:"expiryDate,omitempty"`
	ReminderDate string         `json:"reminderDate,omitempty"`
}

// DocumentPatch carries the fields to merge into an existing Document.
// Nil fields are left untouched.
type DocumentPatch struct {
	Name         *string         `json:"name,omitempty"`
	Title        *string         `json:"title,omitempty"`
	Type         *string         `json:"type,omitempty"`
	Status       *DocumentStatus `json:"status,omitempty"`
	Deadline     *string         `json:"deadline,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
	FileURL      *string         `json:"fileUrl,omitempty"`
	ExpiryDate   *string         `json:"expiryDate,omitempty"`
	ReminderDate *string         `json:"reminderDate,omitempty"`
}

// Apply returns d with every non-nil patch field copied over. ID is never patched.
func (p DocumentPatch) Apply(d Document) Document {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&d.Name, p.Name)
	set(&d.Title, p.Title)
	set(&d.Type, p.Type)
	set(&d.Deadline, p.Deadline)
	set(&d.Notes, p.Notes)
	set(&d.FileURL, p.FileURL)
	set(&d.ExpiryDate, p.ExpiryDate)
	set(&d.ReminderDate, p.ReminderDate)
	if p.Status != nil {
		d.Status = *p.Status
	}
	return d
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"}

// ParseDate accepts RFC3339 timestamps and plain calendar dates.
func ParseDate(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func (d Document) ExpiryTime() (time.Time, bool) {
	return ParseDate(d.ExpiryDate)
}
