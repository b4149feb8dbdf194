package visit

import (
	"iter"
	"sort"
)

// Collection is an ordered, in-memory sequence of visit records. Insertion
// order is preserved unless a sort operation produces a new collection.
// Record ids are advisory: nothing enforces uniqueness.
type Collection struct {
	records []Record
}

// NewCollection creates an empty collection.
func NewCollection() *Collection {
	return &Collection{records: make([]Record, 0)}
}

// Add appends a record. No id or duplicate checks are performed.
func (c *Collection) Add(r Record) {
	c.records = append(c.records, r)
}

// Len returns the number of records.
func (c *Collection) Len() int { return len(c.records) }

// At returns the record at index i.
func (c *Collection) At(i int) Record { return c.records[i] }

// Records returns a copy of the record slice in collection order.
func (c *Collection) Records() []Record {
	cp := make([]Record, len(c.records))
	copy(cp, c.records)
	return cp
}

// NextID returns max id + 1, or 1 for an empty collection. Advisory only:
// ids loaded from a hand-edited file may still collide.
func (c *Collection) NextID() int {
	next := 1
	for _, r := range c.records {
		if id := r.Base().ID; id >= next {
			next = id + 1
		}
	}
	return next
}

// sortedBy returns a new collection sorted stably by the given predicate,
// leaving the receiver untouched.
func (c *Collection) sortedBy(less func(a, b Record) bool) *Collection {
	cp := c.Records()
	sort.SliceStable(cp, func(i, j int) bool { return less(cp[i], cp[j]) })
	return &Collection{records: cp}
}

// SortByPatientName returns a new collection ordered by patient name. Ties
// keep their original relative order.
func (c *Collection) SortByPatientName() *Collection {
	return c.sortedBy(func(a, b Record) bool {
		return a.Base().PatientName < b.Base().PatientName
	})
}

// SortByDuration returns a new collection ordered by visit duration. Ties
// keep their original relative order.
func (c *Collection) SortByDuration() *Collection {
	return c.sortedBy(func(a, b Record) bool {
		return a.Base().DurationMins < b.Base().DurationMins
	})
}

// FilterByDuration returns a new collection holding only records with a
// duration strictly greater than minMins, in original order.
func (c *Collection) FilterByDuration(minMins int) *Collection {
	out := NewCollection()
	for _, r := range c.records {
		if r.Base().DurationMins > minMins {
			out.Add(r)
		}
	}
	return out
}

// Emergencies returns a lazy sequence over the emergency records in
// collection order. The sequence re-scans on every range.
func (c *Collection) Emergencies() iter.Seq[*EmergencyRecord] {
	return func(yield func(*EmergencyRecord) bool) {
		for _, r := range c.records {
			if e, ok := r.(*EmergencyRecord); ok {
				if !yield(e) {
					return
				}
			}
		}
	}
}

// ByDoctor returns a lazy sequence over records whose doctor name matches
// exactly, in collection order.
func (c *Collection) ByDoctor(doctorName string) iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for _, r := range c.records {
			if r.Base().DoctorName == doctorName {
				if !yield(r) {
					return
				}
			}
		}
	}
}
