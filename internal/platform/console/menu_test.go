package console

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"

	"github.com/visitlog/visitlog/internal/domain/visit"
)

func mustVisit(t *testing.T, id int, patient, doctor, reason string, duration int, date string) *visit.VisitRecord {
	t.Helper()
	r, err := visit.NewVisitRecord(id, patient, doctor, reason, duration, date)
	if err != nil {
		t.Fatalf("NewVisitRecord: %v", err)
	}
	return r
}

func mustEmergency(t *testing.T, id int, patient, doctor, reason string, duration, urgency int, date string) *visit.EmergencyRecord {
	t.Helper()
	e, err := visit.NewEmergencyRecord(id, patient, doctor, reason, duration, urgency, date)
	if err != nil {
		t.Fatalf("NewEmergencyRecord: %v", err)
	}
	return e
}

// runScript feeds the given input lines to a fresh menu over col and returns
// the console output plus the filesystem backing the store.
func runScript(t *testing.T, col *visit.Collection, input string) (string, afero.Fs) {
	t.Helper()
	fs := afero.NewMemMapFs()
	store := visit.NewStore(fs, "data.csv", zerolog.Nop())
	var out bytes.Buffer

	m := New(col, store, zerolog.Nop(),
		WithInput(strings.NewReader(input)),
		WithWriter(&out),
	)
	if err := m.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String(), fs
}

func TestMenu_UnknownSelection(t *testing.T) {
	out, _ := runScript(t, visit.NewCollection(), "9\n0\nn\n")
	if !strings.Contains(out, "Unknown selection") {
		t.Errorf("output missing warning:\n%s", out)
	}
	if !strings.Contains(out, "Bye.") {
		t.Errorf("loop must continue to exit:\n%s", out)
	}
}

func TestMenu_EOFExits(t *testing.T) {
	out, _ := runScript(t, visit.NewCollection(), "")
	if !strings.Contains(out, "Clinic visit tracker") {
		t.Errorf("menu not printed:\n%s", out)
	}
}

func TestMenu_ShowAll(t *testing.T) {
	col := visit.NewCollection()
	col.Add(mustVisit(t, 1, "Ivanov I.I.", "Petrova A.A.", "checkup", 15, "2024-03-01"))

	out, _ := runScript(t, col, "1\n0\nn\n")
	if !strings.Contains(out, "Ivanov I.I.") {
		t.Errorf("output missing record:\n%s", out)
	}
}

func TestMenu_FilterByDuration(t *testing.T) {
	col := visit.NewCollection()
	col.Add(mustVisit(t, 1, "Ivanov I.I.", "Petrova A.A.", "checkup", 15, "2024-03-01"))
	col.Add(mustEmergency(t, 2, "Sidorov P.P.", "Orlov K.K.", "trauma", 30, visit.UrgencyCritical, "2024-03-02"))

	out, _ := runScript(t, col, "4\n20\n0\nn\n")
	if !strings.Contains(out, "Sidorov P.P.") {
		t.Errorf("filtered record missing:\n%s", out)
	}
	if strings.Contains(out, "Ivanov I.I.") {
		t.Errorf("record below threshold must not appear:\n%s", out)
	}
}

func TestMenu_FilterInvalidInput(t *testing.T) {
	out, _ := runScript(t, visit.NewCollection(), "4\nabc\n0\nn\n")
	if !strings.Contains(out, "Invalid input") {
		t.Errorf("output missing warning:\n%s", out)
	}
	if !strings.Contains(out, "Bye.") {
		t.Errorf("menu must redisplay after bad input:\n%s", out)
	}
}

func TestMenu_AddThenSave(t *testing.T) {
	input := "6\nIvanov I.I.\nPetrova A.A.\ncheckup\n15\nn\n7\n0\nn\n"
	out, fs := runScript(t, visit.NewCollection(), input)

	if !strings.Contains(out, "Record added.") {
		t.Fatalf("record not added:\n%s", out)
	}
	if !strings.Contains(out, "Saved 1 record(s)") {
		t.Errorf("save confirmation missing:\n%s", out)
	}

	raw, err := afero.ReadFile(fs, "data.csv")
	if err != nil {
		t.Fatalf("data file not written: %v", err)
	}
	if !strings.Contains(string(raw), "Ivanov I.I.") {
		t.Errorf("data file missing record:\n%s", raw)
	}
}

func TestMenu_AddEmergency(t *testing.T) {
	input := "6\nSidorov P.P.\nOrlov K.K.\ntrauma\n30\ny\n1\n5\n0\nn\n"
	out, _ := runScript(t, visit.NewCollection(), input)

	if !strings.Contains(out, "Record added.") {
		t.Fatalf("record not added:\n%s", out)
	}
	if !strings.Contains(out, "urgency: critical") {
		t.Errorf("emergency listing missing urgency label:\n%s", out)
	}
}

func TestMenu_AddInvalidDuration(t *testing.T) {
	col := visit.NewCollection()
	out, _ := runScript(t, col, "6\nIvanov I.I.\nPetrova A.A.\ncheckup\nabc\n0\nn\n")

	if !strings.Contains(out, "Invalid input") {
		t.Errorf("output missing warning:\n%s", out)
	}
	if col.Len() != 0 {
		t.Errorf("aborted add must not append, Len = %d", col.Len())
	}
}

func TestMenu_SaveEmptyRefused(t *testing.T) {
	out, fs := runScript(t, visit.NewCollection(), "7\n0\nn\n")
	if !strings.Contains(out, "Nothing to save.") {
		t.Errorf("output missing refusal:\n%s", out)
	}
	if ok, _ := afero.Exists(fs, "data.csv"); ok {
		t.Error("empty save must not create the file")
	}
}

func TestMenu_ExitWithSave(t *testing.T) {
	col := visit.NewCollection()
	col.Add(mustVisit(t, 1, "Ivanov I.I.", "Petrova A.A.", "checkup", 15, "2024-03-01"))

	_, fs := runScript(t, col, "0\ny\n")
	if ok, _ := afero.Exists(fs, "data.csv"); !ok {
		t.Error("exit with save must write the data file")
	}
}

func TestMenu_ShowByDoctor(t *testing.T) {
	col := visit.NewCollection()
	col.Add(mustVisit(t, 1, "Ivanov I.I.", "Petrova A.A.", "checkup", 15, "2024-03-01"))
	col.Add(mustVisit(t, 2, "Sidorov P.P.", "Orlov K.K.", "pain", 20, "2024-03-02"))

	out, _ := runScript(t, col, "8\nOrlov K.K.\n0\nn\n")
	if !strings.Contains(out, "Sidorov P.P.") {
		t.Errorf("doctor listing missing record:\n%s", out)
	}
	if strings.Contains(out, "Ivanov I.I.") {
		t.Errorf("other doctor's record must not appear:\n%s", out)
	}
}
