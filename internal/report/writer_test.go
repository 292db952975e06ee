package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func sampleRecord() Record {
	start := time.Date(2025, 6, 10, 8, 10, 0, 0, time.UTC)
	return Record{
		ConversationID:    "c1",
		RecordingID:       "r1",
		ConversationStart: start.Add(-time.Minute),
		ConversationEnd:   start.Add(10 * time.Minute),
		StartTime:         start,
		EndTime:           start.Add(5 * time.Minute),
		MediaType:         "audio",
		DurationMs:        DurationMs(start, start.Add(5*time.Minute)),
		AgentID:           "u1",
		AgentName:         "Agent One",
		TeamLeaderName:    "Lead One",
		CallDirection:     "inbound",
		WrapupCode:        "w1",
		WrapupName:        "Resolved",
		FileName:          "c1_r1.wav",
		FilePath:          "/tmp/c1_r1.wav",
	}
}

func TestCSVWriterColumns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	if err := (CSVWriter{}).Write(path, []Record{sampleRecord()}); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d rows", len(rows))
	}
	if len(rows[0]) != 16 || len(rows[1]) != 16 {
		t.Fatalf("expected 16 columns, got %d/%d", len(rows[0]), len(rows[1]))
	}
	if rows[0][0] != "Conversation ID" || rows[0][15] != "File Path" {
		t.Fatalf("unexpected header order: %v", rows[0])
	}
	if rows[1][0] != "c1" || rows[1][7] != "300000" {
		t.Fatalf("unexpected row values: %v", rows[1])
	}
}

func TestXLSXWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := (XLSXWriter{}).Write(path, []Record{sampleRecord()}); err != nil {
		t.Fatalf("write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		t.Fatalf("rows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	if rows[1][1] != "r1" || rows[1][9] != "Agent One" {
		t.Fatalf("unexpected row: %v", rows[1])
	}
}

func TestDurationMs(t *testing.T) {
	start := time.Now()
	if got := DurationMs(start, start.Add(time.Second)); got != 1000 {
		t.Fatalf("got %d", got)
	}
	if got := DurationMs(start.Add(time.Second), start); got != 0 {
		t.Fatalf("inverted order must yield 0, got %d", got)
	}
	if got := DurationMs(time.Time{}, start); got != 0 {
		t.Fatalf("missing start must yield 0, got %d", got)
	}
}
