package visit

// Summary holds aggregate statistics over a collection.
type Summary struct {
	TotalRecords      int
	TotalDurationMins int
	AvgDurationMins   float64
	EmergencyCount    int
	ByDoctor          map[string]int
	ByUrgency         map[string]int
}

// Summarize computes aggregate counts for the collection.
func Summarize(c *Collection) *Summary {
	s := &Summary{
		ByDoctor:  make(map[string]int),
		ByUrgency: make(map[string]int),
	}
	for _, r := range c.Records() {
		b := r.Base()
		s.TotalRecords++
		s.TotalDurationMins += b.DurationMins
		s.ByDoctor[b.DoctorName]++
		if e, ok := r.(*EmergencyRecord); ok {
			s.EmergencyCount++
			s.ByUrgency[e.UrgencyLabel()]++
		}
	}
	if s.TotalRecords > 0 {
		s.AvgDurationMins = float64(s.TotalDurationMins) / float64(s.TotalRecords)
	}
	return s
}
