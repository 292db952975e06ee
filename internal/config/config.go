package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures everything one extraction run needs: platform credentials,
// the default query window, and the download/batch tuning knobs.
type Config struct {
	Genesys  GenesysConfig  `yaml:"genesys"`
	Window   WindowConfig   `yaml:"window"`
	Download DownloadConfig `yaml:"download"`
	Batch    BatchConfig    `yaml:"batch"`
	Report   ReportConfig   `yaml:"report"`
}

// GenesysConfig holds the platform region and client-credentials pair.
type GenesysConfig struct {
	Region       string `yaml:"region"`
	ClientID     string `yaml:"clientId"`
	ClientSecret string `yaml:"clientSecret"`
}

// WindowConfig holds the org timezone and the fallback query window used when
// the CLI flags are absent.
type WindowConfig struct {
	OrgTimezone       string `yaml:"orgTimezone"`
	DefaultDay        string `yaml:"defaultDay"`
	DefaultStart      string `yaml:"defaultStart"`
	DefaultEnd        string `yaml:"defaultEnd"`
	DefaultQueueIDs   string `yaml:"defaultQueueIds"`
	DefaultUserIDs    string `yaml:"defaultUserIds"`
	PreviousDayBuffer int    `yaml:"previousDayBuffer"`
}

// DownloadConfig controls the per-file download discipline.
type DownloadConfig struct {
	Dir          string        `yaml:"dir"`
	MaxRetries   int           `yaml:"maxRetries"`
	RetryDelay   time.Duration `yaml:"retryDelay"`
	Timeout      time.Duration `yaml:"timeout"`
	Concurrency  int           `yaml:"concurrency"`
	MinFileBytes int64         `yaml:"minFileBytes"`
}

// BatchConfig controls batch-job submission and polling.
type BatchConfig struct {
	ChunkSize        int           `yaml:"chunkSize"`
	ChunkConcurrency int           `yaml:"chunkConcurrency"`
	SubmitRetries    int           `yaml:"submitRetries"`
	SubmitRetryDelay time.Duration `yaml:"submitRetryDelay"`
	PollInterval     time.Duration `yaml:"pollInterval"`
	PollTimeout      time.Duration `yaml:"pollTimeout"`
}

// ReportConfig controls per-chunk report output.
type ReportConfig struct {
	Format            string `yaml:"format"` // "csv" or "xlsx"
	EmitMissingReport bool   `yaml:"emitMissingReport"`
	AgentsFile        string `yaml:"agentsFile"`
}

// Load initialises Config from an optional YAML file plus environment
// overrides. Required fields are validated last so a file and the environment
// can each fill part of the picture.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("EXTRACT_CONFIG")
	}

	cfg := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaultConfig() *Config {
	return &Config{
		Download: DownloadConfig{
			MaxRetries:   3,
			RetryDelay:   time.Second,
			Timeout:      30 * time.Second,
			Concurrency:  10,
			MinFileBytes: 1024,
		},
		Batch: BatchConfig{
			ChunkSize:        50,
			ChunkConcurrency: 1,
			SubmitRetries:    5,
			SubmitRetryDelay: 5 * time.Second,
			PollInterval:     5 * time.Second,
			PollTimeout:      10 * time.Minute,
		},
		Report: ReportConfig{
			Format:     "csv",
			AgentsFile: "agents.json",
		},
	}
}

// applyEnv fails on an unparsable value instead of keeping the default: a
// typo like BATCH_POLL_TIMEOUT=10minutes should stop the run, not quietly
// revert to ten minutes.
func applyEnv(cfg *Config) error {
	setString(&cfg.Genesys.Region, "GENESYS_REGION")
	setString(&cfg.Genesys.ClientID, "GENESYS_CLIENT_ID")
	setString(&cfg.Genesys.ClientSecret, "GENESYS_CLIENT_SECRET")

	setString(&cfg.Window.OrgTimezone, "ORG_TIMEZONE")
	setString(&cfg.Window.DefaultDay, "DEFAULT_DAY")
	setString(&cfg.Window.DefaultStart, "DEFAULT_WINDOW_START")
	setString(&cfg.Window.DefaultEnd, "DEFAULT_WINDOW_END")
	setString(&cfg.Window.DefaultQueueIDs, "DEFAULT_QUEUE_IDS")
	setString(&cfg.Window.DefaultUserIDs, "DEFAULT_USER_IDS")
	setString(&cfg.Download.Dir, "DOWNLOAD_DIR")
	setString(&cfg.Report.Format, "REPORT_FORMAT")
	setString(&cfg.Report.AgentsFile, "AGENTS_FILE")

	for _, err := range []error{
		setInt(&cfg.Window.PreviousDayBuffer, "PREVIOUS_DAY_BUFFER"),
		setInt(&cfg.Download.MaxRetries, "DOWNLOAD_MAX_RETRIES"),
		setDuration(&cfg.Download.RetryDelay, "DOWNLOAD_RETRY_DELAY"),
		setDuration(&cfg.Download.Timeout, "DOWNLOAD_TIMEOUT"),
		setInt(&cfg.Download.Concurrency, "DOWNLOAD_CONCURRENCY"),
		setInt64(&cfg.Download.MinFileBytes, "DOWNLOAD_MIN_FILE_BYTES"),
		setInt(&cfg.Batch.ChunkSize, "BATCH_CHUNK_SIZE"),
		setInt(&cfg.Batch.ChunkConcurrency, "BATCH_CHUNK_CONCURRENCY"),
		setInt(&cfg.Batch.SubmitRetries, "BATCH_SUBMIT_RETRIES"),
		setDuration(&cfg.Batch.SubmitRetryDelay, "BATCH_SUBMIT_RETRY_DELAY"),
		setDuration(&cfg.Batch.PollInterval, "BATCH_POLL_INTERVAL"),
		setDuration(&cfg.Batch.PollTimeout, "BATCH_POLL_TIMEOUT"),
		setBool(&cfg.Report.EmitMissingReport, "EMIT_MISSING_REPORT"),
	} {
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validate() error {
	switch {
	case c.Genesys.Region == "":
		return errors.New("config: GENESYS_REGION is required")
	case c.Genesys.ClientID == "":
		return errors.New("config: GENESYS_CLIENT_ID is required")
	case c.Genesys.ClientSecret == "":
		return errors.New("config: GENESYS_CLIENT_SECRET is required")
	case c.Window.OrgTimezone == "":
		return errors.New("config: ORG_TIMEZONE is required")
	case c.Download.Dir == "":
		return errors.New("config: DOWNLOAD_DIR is required")
	case c.Window.PreviousDayBuffer < 1:
		// no silent buffer default: a too-narrow query interval drops
		// conversations that span midnight
		return errors.New("config: PREVIOUS_DAY_BUFFER must be >= 1")
	}
	if c.Report.Format != "csv" && c.Report.Format != "xlsx" {
		return fmt.Errorf("config: unsupported report format %q", c.Report.Format)
	}
	if c.Batch.ChunkSize < 1 {
		return errors.New("config: BATCH_CHUNK_SIZE must be >= 1")
	}
	return nil
}

// SplitCSV splits a comma-separated value list, trimming blanks.
func SplitCSV(value string) []string {
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setInt64(dst *int64, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	*dst = n
	return nil
}

func setBool(dst *bool, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	*dst = b
	return nil
}

func setDuration(dst *time.Duration, key string) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("config: %s=%q: %w", key, v, err)
	}
	*dst = d
	return nil
}
