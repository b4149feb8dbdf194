package console

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/visitlog/visitlog/internal/domain/visit"
)

// RenderTable formats the collection as a fixed-width table. Base records
// show "-" in the urgency column.
func RenderTable(c *visit.Collection) string {
	if c.Len() == 0 {
		return "No records to display."
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("ID", "PATIENT", "DOCTOR", "REASON", "DURATION", "DATE", "URGENCY")

	for _, r := range c.Records() {
		b := r.Base()
		urgency := "-"
		if e, ok := r.(*visit.EmergencyRecord); ok {
			urgency = e.UrgencyLabel()
		}
		t.Row(
			strconv.Itoa(b.ID),
			b.PatientName,
			b.DoctorName,
			b.Reason,
			fmt.Sprintf("%d min", b.DurationMins),
			b.Date,
			urgency,
		)
	}
	return t.Render()
}
