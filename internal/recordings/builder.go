package recordings

import (
	"context"
	"fmt"
	"path/filepath"

	"recording-extract-go/internal/analytics"
	"recording-extract-go/internal/lookup"
	"recording-extract-go/internal/report"
)

// buildRecord joins one downloaded recording with its validated session and
// the resolved names. Returns false on a correlation miss.
func (o *Orchestrator) buildRecord(ctx context.Context, rec Recording, convSessions []analytics.ValidSession, fileName, filePath string) (report.Record, bool) {
	var match *analytics.ValidSession
	for i := range convSessions {
		if convSessions[i].PeerID == rec.SessionID {
			match = &convSessions[i]
			break
		}
	}
	if match == nil {
		return report.Record{}, false
	}

	wrapup := match.WrapupCode
	if wrapup == "" {
		// another leg of the same conversation may carry the code
		for _, s := range convSessions {
			if s.WrapupCode != "" {
				wrapup = s.WrapupCode
				break
			}
		}
	}

	agent := o.cache.Agent(ctx, match.UserID)
	wrapupName := o.cache.WrapupName(ctx, wrapup)
	if wrapupName == "" {
		wrapupName = lookup.UnknownWrapup
	}

	return report.Record{
		ConversationID:    rec.ConversationID,
		RecordingID:       rec.RecordingID,
		ConversationStart: match.ConversationStart,
		ConversationEnd:   match.ConversationEnd,
		StartTime:         rec.StartTime,
		EndTime:           rec.EndTime,
		MediaType:         rec.MediaType,
		DurationMs:        report.DurationMs(rec.StartTime, rec.EndTime),
		AgentID:           match.UserID,
		AgentName:         agent.Name,
		TeamLeaderName:    agent.ManagerName,
		CallDirection:     match.Direction,
		WrapupCode:        wrapup,
		WrapupName:        wrapupName,
		FileName:          fileName,
		FilePath:          filePath,
	}, true
}

// buildMissingRecord is the degraded-path row for a session that never
// correlated to a recording: segment bounds stand in for recording times and
// the file columns carry the "none" placeholder.
func (o *Orchestrator) buildMissingRecord(ctx context.Context, s analytics.ValidSession) report.Record {
	agent := o.cache.Agent(ctx, s.UserID)
	wrapupName := o.cache.WrapupName(ctx, s.WrapupCode)
	if wrapupName == "" {
		wrapupName = lookup.UnknownWrapup
	}
	return report.Record{
		ConversationID:    s.ConversationID,
		RecordingID:       s.PeerID,
		ConversationStart: s.ConversationStart,
		ConversationEnd:   s.ConversationEnd,
		StartTime:         s.SegmentStart,
		EndTime:           s.SegmentEnd,
		MediaType:         "voice",
		DurationMs:        report.DurationMs(s.SegmentStart, s.SegmentEnd),
		AgentID:           s.UserID,
		AgentName:         agent.Name,
		TeamLeaderName:    agent.ManagerName,
		CallDirection:     s.Direction,
		WrapupCode:        s.WrapupCode,
		WrapupName:        wrapupName,
		FileName:          "none",
		FilePath:          "none",
	}
}

func (o *Orchestrator) writeMissingReport(ctx context.Context, sessions []analytics.ValidSession, recs []Recording) error {
	missing := MissingRecordings(sessions, recs)
	if len(missing) == 0 {
		return nil
	}
	records := make([]report.Record, 0, len(missing))
	for _, s := range missing {
		records = append(records, o.buildMissingRecord(ctx, s))
	}
	name := fmt.Sprintf("%s_%s_missing.%s", o.opts.Day, o.opts.HourLabel, o.writer.Ext())
	path := filepath.Join(o.opts.DownloadDir, name)
	o.log.WithField("missing", len(missing)).WithField("report", path).Info("writing missing-recordings report")
	return o.writer.Write(path, records)
}
