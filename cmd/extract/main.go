package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"recording-extract-go/internal/analytics"
	"recording-extract-go/internal/config"
	"recording-extract-go/internal/genesys"
	"recording-extract-go/internal/logger"
	"recording-extract-go/internal/lookup"
	"recording-extract-go/internal/recordings"
	"recording-extract-go/internal/report"
	"recording-extract-go/internal/roster"
	"recording-extract-go/internal/timewindow"
)

func main() {
	_ = godotenv.Load() // loads .env

	var (
		configPath = flag.String("config", "", "optional YAML config file")
		dayFlag    = flag.String("day", "", `target day "YYYY-MM-DD" in the org timezone`)
		startFlag  = flag.String("start", "", `window start "HH:mm" in the org timezone`)
		endFlag    = flag.String("end", "", `window end "HH:mm" in the org timezone`)
		queuesFlag = flag.String("queues", "", "comma-separated queue IDs")
		usersFlag  = flag.String("users", "", "comma-separated user IDs")
	)
	flag.Parse()

	boot := logger.New().WithField("service", "recording-extract-go")

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.WithError(err).Fatal("configuration error")
	}

	day := firstOf(*dayFlag, cfg.Window.DefaultDay)
	if day == "" {
		boot.Fatal("missing --day (or DEFAULT_DAY)")
	}
	start := firstOf(*startFlag, cfg.Window.DefaultStart, "10:00")
	end := firstOf(*endFlag, cfg.Window.DefaultEnd, "11:00")
	queueIDs := config.SplitCSV(firstOf(*queuesFlag, cfg.Window.DefaultQueueIDs))
	userIDs := config.SplitCSV(firstOf(*usersFlag, cfg.Window.DefaultUserIDs))

	log := logger.New().WithRun(day, start+"-"+end)
	log.WithField("timezone", cfg.Window.OrgTimezone).Info("starting extraction")

	ctx := context.Background()

	client := genesys.NewClient(cfg.Genesys.Region)
	loginCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	err = client.Login(loginCtx, cfg.Genesys.ClientID, cfg.Genesys.ClientSecret)
	cancel()
	if err != nil {
		log.WithError(err).Fatal("platform login failed")
	}

	// roster names, when present, override the user-ID flag
	rosterIDs, err := roster.AgentIDs(ctx, client, cfg.Report.AgentsFile)
	if err != nil {
		log.WithError(err).Fatal("roster resolution failed")
	}
	if len(rosterIDs) > 0 {
		userIDs = rosterIDs
	}

	winInput := timewindow.Input{
		Day:        day,
		Start:      start,
		End:        end,
		Zone:       cfg.Window.OrgTimezone,
		BufferDays: cfg.Window.PreviousDayBuffer,
	}
	window, err := timewindow.Resolve(winInput)
	if err != nil {
		log.WithError(err).Fatal("invalid window")
	}

	sessions, err := analytics.ExtractInteractions(ctx, client, analytics.Params{
		Window:   winInput,
		QueueIDs: queueIDs,
		UserIDs:  userIDs,
	})
	if err != nil {
		log.WithError(err).Fatal("interaction extraction failed")
	}
	log.WithField("sessions", len(sessions)).Info("interactions extracted")

	recs, err := recordings.CorrelateRecordings(ctx, client, sessions, window, recordings.Filtered)
	if err != nil {
		log.WithError(err).Fatal("recording correlation failed")
	}
	log.WithField("recordings", len(recs)).Info("recordings correlated")

	if err := os.MkdirAll(cfg.Download.Dir, 0o755); err != nil {
		log.WithError(err).Fatal("cannot create download dir")
	}

	writer, err := report.NewWriter(cfg.Report.Format)
	if err != nil {
		log.WithError(err).Fatal("report writer")
	}

	orch := recordings.NewOrchestrator(
		client,
		recordings.NewDownloader(cfg.Download.Timeout, cfg.Download.MaxRetries, cfg.Download.RetryDelay, cfg.Download.MinFileBytes),
		lookup.New(client, client),
		writer,
		recordings.Options{
			DownloadDir:         cfg.Download.Dir,
			Day:                 day,
			HourLabel:           window.HourLabel(),
			ChunkSize:           cfg.Batch.ChunkSize,
			ChunkConcurrency:    cfg.Batch.ChunkConcurrency,
			SubmitRetries:       cfg.Batch.SubmitRetries,
			SubmitRetryDelay:    cfg.Batch.SubmitRetryDelay,
			PollInterval:        cfg.Batch.PollInterval,
			PollTimeout:         cfg.Batch.PollTimeout,
			DownloadConcurrency: cfg.Download.Concurrency,
			EmitMissingReport:   cfg.Report.EmitMissingReport,
		},
	)

	summary, err := orch.Run(ctx, recs, sessions)
	if err != nil {
		log.WithError(err).Fatal("batch download run failed")
	}
	log.WithField("downloaded", summary.Downloaded).
		WithField("failed", summary.Failed).
		Info("download completed")
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
