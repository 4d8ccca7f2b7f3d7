package importer

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/claude/pulsecoach/internal/coach"
	"github.com/claude/pulsecoach/internal/models"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	SessionsInserted   int
	SessionsDuplicated int
	RowsRejected       int
}

// Store is the subset of the data layer the importer needs.
type Store interface {
	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	InsertSession(ctx context.Context, s models.WorkoutSession) (bool, error)
}

// Importer reads workout-session CSV exports from a directory and inserts
// validated sessions into the database. Files already recorded in the state
// database are skipped.
type Importer struct {
	db       Store
	state    *StateDB
	cfg      coach.Config
	log      *slog.Logger
	dryRun   bool
	stats    Stats
	profiles map[string]*models.Profile
}

// New creates a new Importer. A nil state database disables file-level
// deduplication (every file is reprocessed).
func New(db Store, state *StateDB, cfg coach.Config, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{
		db:       db,
		state:    state,
		cfg:      cfg,
		log:      log,
		dryRun:   dryRun,
		profiles: make(map[string]*models.Profile),
	}
}

// Import processes all .csv files under the given directory.
func (imp *Importer) Import(ctx context.Context, dir string) (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return &imp.stats, err
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return &imp.stats, err
		}

		skip, size, hash, err := imp.alreadyImported(f)
		if err != nil {
			imp.log.Warn("state check failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}
		if skip {
			imp.stats.FilesSkipped++
			continue
		}

		if err := imp.importFile(ctx, f); err != nil {
			imp.log.Warn("import failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}
		imp.stats.FilesProcessed++

		if imp.state != nil && !imp.dryRun {
			if err := imp.state.MarkImported(filepath.Base(f), size, hash); err != nil {
				imp.log.Warn("marking file imported failed", "file", f, "error", err)
			}
		}
	}

	return &imp.stats, nil
}

func (imp *Importer) alreadyImported(path string) (skip bool, size int64, hash string, err error) {
	if imp.state == nil {
		return false, 0, "", nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return false, 0, "", err
	}
	hash, err = HashFile(path)
	if err != nil {
		return false, 0, "", err
	}
	skip, err = imp.state.IsImported(filepath.Base(path), info.Size(), hash)
	return skip, info.Size(), hash, err
}

func (imp *Importer) importFile(ctx context.Context, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return imp.importCSV(ctx, f, filepath.Base(path))
}

// importCSV reads one export. The first record must be a header naming at
// least user_id, date, duration_minutes, avg_heart_rate, perceived_exertion;
// session_type, notes, and segments are optional. Rows that fail validation
// are counted and logged, never fatal.
func (imp *Importer) importCSV(ctx context.Context, r io.Reader, name string) error {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("reading header: %w", err)
	}
	cols, err := headerIndex(header)
	if err != nil {
		return err
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			imp.log.Warn("malformed row", "file", name, "line", line, "error", err)
			imp.stats.RowsRejected++
			continue
		}

		userID, in, err := parseRow(record, cols)
		if err != nil {
			imp.log.Warn("rejected row", "file", name, "line", line, "error", err)
			imp.stats.RowsRejected++
			continue
		}

		profile, err := imp.profileFor(ctx, userID)
		if err != nil {
			imp.log.Warn("no profile for row", "file", name, "line", line, "user", userID)
			imp.stats.RowsRejected++
			continue
		}

		session, err := coach.ValidateSession(imp.cfg, *profile, in)
		if err != nil {
			imp.log.Warn("rejected row", "file", name, "line", line, "error", err)
			imp.stats.RowsRejected++
			continue
		}

		if imp.dryRun {
			imp.stats.SessionsInserted++
			continue
		}

		inserted, err := imp.db.InsertSession(ctx, *session)
		if err != nil {
			return fmt.Errorf("inserting session from %s line %d: %w", name, line, err)
		}
		if inserted {
			imp.stats.SessionsInserted++
		} else {
			imp.stats.SessionsDuplicated++
		}
	}
}

func (imp *Importer) profileFor(ctx context.Context, userID string) (*models.Profile, error) {
	if p, ok := imp.profiles[userID]; ok {
		return p, nil
	}
	p, err := imp.db.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	imp.profiles[userID] = p
	return p, nil
}

var requiredColumns = []string{"user_id", "date", "duration_minutes", "avg_heart_rate", "perceived_exertion"}

func headerIndex(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range requiredColumns {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("missing required column %q", required)
		}
	}
	return cols, nil
}

func parseRow(record []string, cols map[string]int) (string, coach.SessionInput, error) {
	field := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	userID := field("user_id")
	if userID == "" {
		return "", coach.SessionInput{}, fmt.Errorf("empty user_id")
	}

	date, err := parseDate(field("date"))
	if err != nil {
		return "", coach.SessionInput{}, fmt.Errorf("bad date: %w", err)
	}

	duration, err := strconv.Atoi(field("duration_minutes"))
	if err != nil {
		return "", coach.SessionInput{}, fmt.Errorf("bad duration_minutes: %w", err)
	}
	avgHR, err := strconv.Atoi(field("avg_heart_rate"))
	if err != nil {
		return "", coach.SessionInput{}, fmt.Errorf("bad avg_heart_rate: %w", err)
	}
	exertion, err := strconv.Atoi(field("perceived_exertion"))
	if err != nil {
		return "", coach.SessionInput{}, fmt.Errorf("bad perceived_exertion: %w", err)
	}

	in := coach.SessionInput{
		UserID:            userID,
		Date:              date,
		DurationMinutes:   duration,
		AvgHeartRate:      avgHR,
		PerceivedExertion: exertion,
		SessionType:       field("session_type"),
		Notes:             field("notes"),
	}
	if segments := field("segments"); segments != "" {
		in.Segments = strings.Split(segments, "|")
	}
	return userID, in, nil
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, s)
	if err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", s)
}
