package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/Rahulvijayan123/workout-sub002/internal/engine"
	"github.com/Rahulvijayan123/workout-sub002/internal/models"
	"github.com/Rahulvijayan123/workout-sub002/internal/storage"
	"github.com/google/uuid"
)

// Stats tracks import progress.
type Stats struct {
	FilesProcessed int
	FilesSkipped   int
	FilesErrored   int

	SessionsInserted   int
	SessionsDuplicated int
	LiftStatesUpdated  int
}

// Importer reads training-log export files (one JSON array of completed
// sessions per file) and replays them through the strength estimator so lift
// states and e1RM histories end up exactly as if each session had been
// recorded live, in order.
type Importer struct {
	db     *storage.DB
	engine engine.Config
	log    *slog.Logger
	dryRun bool
	stats  Stats
}

// New creates a new Importer.
func New(db *storage.DB, engineCfg engine.Config, log *slog.Logger, dryRun bool) *Importer {
	return &Importer{db: db, engine: engineCfg, log: log, dryRun: dryRun}
}

// Import processes all .json export files under dir for the given user.
// Files already recorded in the state database are skipped.
func (imp *Importer) Import(ctx context.Context, dir string, userID int, state *StateDB) (*Stats, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return &imp.stats, err
	}
	sort.Strings(files)

	var sessions []models.CompletedSession
	var imported []fileRecord

	for _, f := range files {
		rec, skip, err := imp.checkState(f, state)
		if err != nil {
			return &imp.stats, err
		}
		if skip {
			imp.stats.FilesSkipped++
			continue
		}

		parsed, err := readExportFile(f)
		if err != nil {
			imp.log.Warn("parse failed", "file", f, "error", err)
			imp.stats.FilesErrored++
			continue
		}

		imp.stats.FilesProcessed++
		sessions = append(sessions, parsed...)
		imported = append(imported, rec)
	}

	if len(sessions) > 0 {
		if err := imp.replay(ctx, userID, sessions); err != nil {
			return &imp.stats, err
		}
	}

	if !imp.dryRun && state != nil {
		for _, rec := range imported {
			if err := state.MarkImported(rec.path, rec.size, rec.hash); err != nil {
				return &imp.stats, fmt.Errorf("marking %s imported: %w", rec.path, err)
			}
		}
	}

	return &imp.stats, nil
}

type fileRecord struct {
	path string
	size int64
	hash string
}

func (imp *Importer) checkState(path string, state *StateDB) (fileRecord, bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileRecord{}, false, err
	}
	hash, err := HashFile(path)
	if err != nil {
		return fileRecord{}, false, fmt.Errorf("hashing %s: %w", path, err)
	}
	rec := fileRecord{path: filepath.Base(path), size: info.Size(), hash: hash}

	if state == nil {
		return rec, false, nil
	}
	done, err := state.IsImported(rec.path, rec.size, rec.hash)
	if err != nil {
		return fileRecord{}, false, err
	}
	return rec, done, nil
}

func readExportFile(path string) ([]models.CompletedSession, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var sessions []models.CompletedSession
	if err := json.Unmarshal(data, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// replay scores the sessions oldest-first against the user's current lift
// states, persisting each session together with the states it produced in one
// transaction. Ordering matters: the rolling e1RM and trend depend on the
// sequence sessions arrived in. An interrupted import leaves no session
// behind without its states, so rerunning resumes cleanly.
func (imp *Importer) replay(ctx context.Context, userID int, sessions []models.CompletedSession) error {
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].Date.Before(sessions[j].Date)
	})

	states := map[string]models.LiftState{}
	written := map[string]bool{}

	for i := range sessions {
		s := &sessions[i]
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		if s.PriorStates == nil {
			s.PriorStates = map[string]models.LiftState{}
		}

		updates := make(map[string]models.LiftState, len(s.Exercises))
		for _, res := range s.Exercises {
			cur, ok := states[res.ExerciseID]
			if !ok {
				loaded, _, err := imp.db.GetLiftState(ctx, userID, res.ExerciseID)
				if err != nil {
					return fmt.Errorf("loading lift state for %s: %w", res.ExerciseID, err)
				}
				cur = loaded
			}
			s.PriorStates[res.ExerciseID] = cur.Clone()
			next := engine.ScoreSession(imp.engine, cur, res, s.Date)
			states[res.ExerciseID] = next
			updates[res.ExerciseID] = next
		}

		if imp.dryRun {
			imp.stats.SessionsInserted++
			for id := range updates {
				written[id] = true
			}
			continue
		}
		inserted, err := imp.db.RecordSession(ctx, userID, *s, updates)
		if err != nil {
			return fmt.Errorf("recording session %s: %w", s.ID, err)
		}
		if inserted {
			imp.stats.SessionsInserted++
			for id := range updates {
				written[id] = true
			}
		} else {
			imp.stats.SessionsDuplicated++
		}
	}

	imp.stats.LiftStatesUpdated = len(written)
	return nil
}
