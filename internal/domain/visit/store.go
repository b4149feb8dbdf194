package visit

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// csvHeader is the on-disk column order. Loading is header-keyed, so files
// with reordered columns still parse; urgency may be absent entirely.
var csvHeader = []string{"id", "patient_name", "doctor_name", "reason", "duration", "date", "urgency"}

// Store persists a collection to a flat CSV file on the given filesystem.
type Store struct {
	fs   afero.Fs
	path string
	log  zerolog.Logger
}

// NewStore binds a store to a filesystem and file path.
func NewStore(fs afero.Fs, path string, log zerolog.Logger) *Store {
	return &Store{fs: fs, path: path, log: log}
}

// Path returns the bound file path.
func (s *Store) Path() string { return s.path }

// Load reads the data file into a new collection. A missing file is not an
// error: it logs a warning and returns an empty collection. A malformed row
// aborts the whole load; no partial collection is returned. Dates must be
// ISO-8601 (2006-01-02): a hand-edited row with any other date format counts
// as malformed.
func (s *Store) Load() (*Collection, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.log.Warn().Str("path", s.path).Msg("data file not found, starting empty")
			return NewCollection(), nil
		}
		return nil, fmt.Errorf("open %s: %w", s.path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}
	if len(rows) == 0 {
		s.log.Warn().Str("path", s.path).Msg("data file has no header, starting empty")
		return NewCollection(), nil
	}

	col, err := decodeRows(rows)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	s.log.Info().Str("path", s.path).Int("records", col.Len()).Msg("loaded records")
	return col, nil
}

// decodeRows turns a header row plus data rows into a collection. Rows with
// urgency >= 1 become emergency records, all others base records.
func decodeRows(rows [][]string) (*Collection, error) {
	idx := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		idx[name] = i
	}
	for _, required := range []string{"id", "patient_name", "doctor_name", "reason", "duration"} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("missing column %q", required)
		}
	}

	field := func(row []string, name string) string {
		i, ok := idx[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	col := NewCollection()
	for n, row := range rows[1:] {
		id, err := strconv.Atoi(field(row, "id"))
		if err != nil {
			return nil, fmt.Errorf("row %d: id: %w", n+1, err)
		}
		duration, err := strconv.Atoi(field(row, "duration"))
		if err != nil {
			return nil, fmt.Errorf("row %d: duration: %w", n+1, err)
		}
		urgency := 0
		if u := field(row, "urgency"); u != "" {
			if urgency, err = strconv.Atoi(u); err != nil {
				return nil, fmt.Errorf("row %d: urgency: %w", n+1, err)
			}
		}

		var r Record
		if urgency >= 1 {
			r, err = NewEmergencyRecord(id, field(row, "patient_name"), field(row, "doctor_name"),
				field(row, "reason"), duration, urgency, field(row, "date"))
		} else {
			r, err = NewVisitRecord(id, field(row, "patient_name"), field(row, "doctor_name"),
				field(row, "reason"), duration, field(row, "date"))
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+1, err)
		}
		col.Add(r)
	}
	return col, nil
}

// Save writes the collection as CSV, header first, one row per record. Base
// records carry urgency 0. An empty collection is refused with a warning and
// the file is left untouched.
func (s *Store) Save(c *Collection) error {
	if c.Len() == 0 {
		s.log.Warn().Str("path", s.path).Msg("nothing to save, file left untouched")
		return nil
	}

	f, err := s.fs.Create(s.path)
	if err != nil {
		return fmt.Errorf("create %s: %w", s.path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, r := range c.Records() {
		b := r.Base()
		urgency := 0
		if e, ok := r.(*EmergencyRecord); ok {
			urgency = e.Urgency
		}
		row := []string{
			strconv.Itoa(b.ID),
			b.PatientName,
			b.DoctorName,
			b.Reason,
			strconv.Itoa(b.DurationMins),
			b.Date,
			strconv.Itoa(urgency),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write record %d: %w", b.ID, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", s.path, err)
	}

	s.log.Info().Str("path", s.path).Int("records", c.Len()).Msg("saved records")
	return nil
}

// CountFiles reports the number of regular files in dir. Used as a startup
// diagnostic for the data directory.
func CountFiles(fs afero.Fs, dir string) (int, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return 0, fmt.Errorf("read dir %s: %w", dir, err)
	}
	n := 0
	for _, e := range entries {
		if !e.IsDir() {
			n++
		}
	}
	return n, nil
}
