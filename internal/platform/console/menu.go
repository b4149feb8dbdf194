// Package console drives the interactive numbered menu on top of a visit
// collection and its CSV store.
package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/visitlog/visitlog/internal/domain/visit"
)

// Menu is the interactive console loop. One user command runs to completion
// before the next is read; the collection is owned by the running process.
type Menu struct {
	col    *visit.Collection
	store  *visit.Store
	reader *bufio.Reader
	writer io.Writer
	log    zerolog.Logger
}

// Option configures a Menu.
type Option func(*Menu)

// WithInput sets a custom input reader (default is os.Stdin).
func WithInput(r io.Reader) Option {
	return func(m *Menu) {
		m.reader = bufio.NewReader(r)
	}
}

// WithWriter sets a custom output writer (default is os.Stdout).
func WithWriter(w io.Writer) Option {
	return func(m *Menu) {
		m.writer = w
	}
}

// New creates a menu over the given collection and store.
func New(col *visit.Collection, store *visit.Store, log zerolog.Logger, opts ...Option) *Menu {
	m := &Menu{
		col:    col,
		store:  store,
		reader: bufio.NewReader(os.Stdin),
		writer: os.Stdout,
		log:    log,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run reads menu selections until the user exits or input ends. All failures
// inside a selection are downgraded to console diagnostics; the loop
// continues.
func (m *Menu) Run() error {
	for {
		m.printMenu()
		choice, err := m.prompt("Select an option: ")
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read input: %w", err)
		}

		switch choice {
		case "1":
			fmt.Fprintln(m.writer, RenderTable(m.col))
		case "2":
			fmt.Fprintln(m.writer, RenderTable(m.col.SortByPatientName()))
		case "3":
			fmt.Fprintln(m.writer, RenderTable(m.col.SortByDuration()))
		case "4":
			m.filterByDuration()
		case "5":
			m.showEmergencies()
		case "6":
			m.addRecord()
		case "7":
			m.save()
		case "8":
			m.showByDoctor()
		case "0":
			m.exitPrompt()
			fmt.Fprintln(m.writer, "Bye.")
			return nil
		default:
			fmt.Fprintln(m.writer, "Unknown selection, try again.")
		}
	}
}

func (m *Menu) printMenu() {
	fmt.Fprintln(m.writer)
	fmt.Fprintln(m.writer, strings.Repeat("=", 50))
	fmt.Fprintln(m.writer, " Clinic visit tracker")
	fmt.Fprintln(m.writer, strings.Repeat("=", 50))
	fmt.Fprintln(m.writer, "1. Show all records")
	fmt.Fprintln(m.writer, "2. Sort by patient name")
	fmt.Fprintln(m.writer, "3. Sort by visit duration")
	fmt.Fprintln(m.writer, "4. Filter by duration (> N minutes)")
	fmt.Fprintln(m.writer, "5. Show emergency visits")
	fmt.Fprintln(m.writer, "6. Add a new record")
	fmt.Fprintln(m.writer, "7. Save records")
	fmt.Fprintln(m.writer, "8. Show records by doctor")
	fmt.Fprintln(m.writer, "0. Exit")
}

// prompt prints a label and reads one trimmed line. A final unterminated
// line is still returned before EOF is reported.
func (m *Menu) prompt(label string) (string, error) {
	fmt.Fprint(m.writer, label)
	line, err := m.reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptInt reads one line and parses it as an integer. A parse failure is
// reported to the console and returned as ok=false; the caller aborts the
// operation and the menu redisplays.
func (m *Menu) promptInt(label string) (int, bool) {
	s, err := m.prompt(label)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		fmt.Fprintln(m.writer, "Invalid input, enter a number.")
		return 0, false
	}
	return n, true
}

func (m *Menu) filterByDuration() {
	minMins, ok := m.promptInt("Minimum duration (min): ")
	if !ok {
		return
	}
	fmt.Fprintln(m.writer, RenderTable(m.col.FilterByDuration(minMins)))
}

func (m *Menu) showEmergencies() {
	fmt.Fprintln(m.writer, "\nEmergency visits:")
	found := false
	for e := range m.col.Emergencies() {
		fmt.Fprintln(m.writer, e)
		found = true
	}
	if !found {
		fmt.Fprintln(m.writer, "No emergency visits.")
	}
}

func (m *Menu) addRecord() {
	id := m.col.NextID()

	patient, err := m.prompt("Patient name: ")
	if err != nil {
		return
	}
	doctor, err := m.prompt("Doctor name: ")
	if err != nil {
		return
	}
	reason, err := m.prompt("Reason: ")
	if err != nil {
		return
	}
	duration, ok := m.promptInt("Duration (min): ")
	if !ok {
		return
	}

	var rec visit.Record
	answer, err := m.prompt("Emergency visit? (y/n): ")
	if err != nil {
		return
	}
	if strings.EqualFold(answer, "y") {
		urgency, ok := m.promptInt("Urgency (1=critical, 2=high, 3=medium): ")
		if !ok {
			return
		}
		rec, err = visit.NewEmergencyRecord(id, patient, doctor, reason, duration, urgency, "")
	} else {
		rec, err = visit.NewVisitRecord(id, patient, doctor, reason, duration, "")
	}
	if err != nil {
		fmt.Fprintf(m.writer, "Invalid record: %v\n", err)
		return
	}

	m.col.Add(rec)
	fmt.Fprintln(m.writer, "Record added.")
}

func (m *Menu) save() {
	if err := m.store.Save(m.col); err != nil {
		m.log.Warn().Err(err).Msg("save failed")
		fmt.Fprintf(m.writer, "Save failed: %v\n", err)
		return
	}
	if m.col.Len() == 0 {
		fmt.Fprintln(m.writer, "Nothing to save.")
		return
	}
	fmt.Fprintf(m.writer, "Saved %d record(s) to %s\n", m.col.Len(), m.store.Path())
}

func (m *Menu) showByDoctor() {
	doctor, err := m.prompt("Doctor name: ")
	if err != nil {
		return
	}
	fmt.Fprintf(m.writer, "\nRecords for %s:\n", doctor)
	found := false
	for r := range m.col.ByDoctor(doctor) {
		fmt.Fprintln(m.writer, r)
		found = true
	}
	if !found {
		fmt.Fprintln(m.writer, "No records for this doctor.")
	}
}

func (m *Menu) exitPrompt() {
	answer, err := m.prompt("Save changes before exit? (y/n): ")
	if err != nil {
		return
	}
	if strings.EqualFold(answer, "y") {
		m.save()
	}
}
