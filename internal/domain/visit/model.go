// Package visit holds the clinic visit record model, the in-memory record
// collection, and its CSV persistence.
package visit

import (
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// DateLayout is the ISO-8601 date format used for the visit date.
const DateLayout = "2006-01-02"

// Urgency levels for emergency visits.
const (
	UrgencyCritical = 1
	UrgencyHigh     = 2
	UrgencyMedium   = 3
)

// Record is either a plain visit record or an emergency visit record.
type Record interface {
	Base() *VisitRecord
}

// VisitRecord is one clinic appointment. Fields are set at construction and
// never mutated afterwards; collection operations copy, they do not edit.
type VisitRecord struct {
	ID           int
	PatientName  string
	DoctorName   string
	Reason       string
	DurationMins int
	Date         string
}

// NewVisitRecord builds a validated visit record. An empty date defaults to
// the current day.
func NewVisitRecord(id int, patient, doctor, reason string, durationMins int, date string) (*VisitRecord, error) {
	if date == "" {
		date = time.Now().Format(DateLayout)
	}
	r := &VisitRecord{
		ID:           id,
		PatientName:  patient,
		DoctorName:   doctor,
		Reason:       reason,
		DurationMins: durationMins,
		Date:         date,
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *VisitRecord) validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.PatientName, validation.Required),
		validation.Field(&r.DoctorName, validation.Required),
		validation.Field(&r.Reason, validation.Required),
		validation.Field(&r.DurationMins, validation.Min(0)),
		validation.Field(&r.Date, validation.Required, validation.Date(DateLayout)),
	)
}

// Base implements Record.
func (r *VisitRecord) Base() *VisitRecord { return r }

func (r *VisitRecord) String() string {
	return fmt.Sprintf("%3d | %-20s | %-15s | %-20s | %4d min | %s",
		r.ID, r.PatientName, r.DoctorName, r.Reason, r.DurationMins, r.Date)
}

// EmergencyRecord is a visit record with an urgency classification.
type EmergencyRecord struct {
	VisitRecord
	Urgency int
}

// NewEmergencyRecord builds a validated emergency record. Urgency must be at
// least 1; values outside 1-3 are kept and display as "unknown".
func NewEmergencyRecord(id int, patient, doctor, reason string, durationMins, urgency int, date string) (*EmergencyRecord, error) {
	base, err := NewVisitRecord(id, patient, doctor, reason, durationMins, date)
	if err != nil {
		return nil, err
	}
	if urgency < 1 {
		return nil, fmt.Errorf("urgency must be at least 1, got %d", urgency)
	}
	return &EmergencyRecord{VisitRecord: *base, Urgency: urgency}, nil
}

// UrgencyLabel maps the urgency level to its display label.
func (e *EmergencyRecord) UrgencyLabel() string {
	switch e.Urgency {
	case UrgencyCritical:
		return "critical"
	case UrgencyHigh:
		return "high"
	case UrgencyMedium:
		return "medium"
	default:
		return "unknown"
	}
}

func (e *EmergencyRecord) String() string {
	return e.VisitRecord.String() + " | urgency: " + e.UrgencyLabel()
}
