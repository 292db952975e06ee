package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("GENESYS_REGION", "mypurecloud.de")
	t.Setenv("GENESYS_CLIENT_ID", "id")
	t.Setenv("GENESYS_CLIENT_SECRET", "secret")
	t.Setenv("ORG_TIMEZONE", "Africa/Johannesburg")
	t.Setenv("DOWNLOAD_DIR", t.TempDir())
	t.Setenv("PREVIOUS_DAY_BUFFER", "5")
}

func TestLoadFromEnvWithDefaults(t *testing.T) {
	setRequiredEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Window.PreviousDayBuffer != 5 {
		t.Fatalf("buffer = %d", cfg.Window.PreviousDayBuffer)
	}
	if cfg.Batch.ChunkSize != 50 || cfg.Batch.PollInterval != 5*time.Second {
		t.Fatalf("batch defaults not applied: %+v", cfg.Batch)
	}
	if cfg.Download.MinFileBytes != 1024 || cfg.Report.Format != "csv" {
		t.Fatalf("defaults not applied: %+v %+v", cfg.Download, cfg.Report)
	}
}

func TestLoadRequiresBuffer(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PREVIOUS_DAY_BUFFER", "")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected an error when the day buffer is unset")
	}
}

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	setRequiredEnv(t)
	path := filepath.Join(t.TempDir(), "extract.yaml")
	yaml := `
batch:
  chunkSize: 25
report:
  format: xlsx
`
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("BATCH_CHUNK_SIZE", "30") // env wins over file
	t.Setenv("BATCH_POLL_INTERVAL", "2s")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Batch.ChunkSize != 30 {
		t.Fatalf("env override lost: %d", cfg.Batch.ChunkSize)
	}
	if cfg.Batch.PollInterval != 2*time.Second || cfg.Report.Format != "xlsx" {
		t.Fatalf("overrides lost: %+v %+v", cfg.Batch, cfg.Report)
	}
}

func TestLoadRejectsUnparsableOverride(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("BATCH_POLL_TIMEOUT", "10minutes")
	_, err := Load("")
	if err == nil {
		t.Fatalf("expected an error for an unparsable duration")
	}
	if !strings.Contains(err.Error(), "BATCH_POLL_TIMEOUT") {
		t.Fatalf("error must name the offending variable: %v", err)
	}

	t.Setenv("BATCH_POLL_TIMEOUT", "")
	t.Setenv("PREVIOUS_DAY_BUFFER", "two")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected an error for an unparsable integer")
	}
}

func TestLoadRejectsBadFormat(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("REPORT_FORMAT", "parquet")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected an error for an unsupported format")
	}
}

func TestSplitCSV(t *testing.T) {
	got := SplitCSV(" a, b ,, c ")
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Fatalf("got %v", got)
	}
	if SplitCSV("") != nil {
		t.Fatalf("empty input must yield nil")
	}
}
