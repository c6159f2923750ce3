package gameplay

import (
	"context"
	"os"

	"github.com/leonelquinteros/gotext"
	"go.uber.org/zap"

	"nightshift/pkg/game/config"
	"nightshift/pkg/game/nights"
	"nightshift/pkg/game/save"
	"nightshift/pkg/game/session"
)

// OpenStore opens the save backend named by cfg. A save that cannot be
// opened never stops the game: a corrupt database is moved aside and a
// fresh one created, and if that fails too progress is kept in memory for
// the session (a nil store). The returned close function is never nil.
func OpenStore(cfg config.Config, logger *zap.Logger) (save.Store, func() error) {
	noop := func() error { return nil }
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.SaveBackend {
	case config.BackendSQLite:
		db, err := save.OpenSQLite(cfg.SavePath)
		if err == nil {
			return db, db.Close
		}
		logger.Warn("could not open save database", zap.String("path", cfg.SavePath), zap.Error(err))

		aside := cfg.SavePath + ".corrupt"
		if err := os.Rename(cfg.SavePath, aside); err != nil {
			logger.Warn("playing without a save", zap.Error(err))
			return nil, noop
		}
		logger.Warn("moved unreadable save aside", zap.String("path", aside))

		db, err = save.OpenSQLite(cfg.SavePath)
		if err != nil {
			logger.Warn("playing without a save", zap.Error(err))
			return nil, noop
		}
		return db, db.Close
	default:
		return save.NewJSONStore(cfg.SavePath), noop
	}
}

// SettingsFrom maps configuration onto session settings.
func SettingsFrom(cfg config.Config) session.Settings {
	settings := session.DefaultSettings()
	settings.SecondsPerHour = cfg.SecondsPerHour
	settings.Difficulty = cfg.Difficulty
	settings.Seed = cfg.Seed
	return settings
}

// BuildGame creates a session at the menu with saved progress loaded. A
// store that cannot be read leaves the defaults in place.
func BuildGame(ctx context.Context, cfg config.Config, logger *zap.Logger, store save.Store) *session.Session {
	s := session.New(SettingsFrom(cfg), logger, store)
	if err := s.LoadProgress(ctx); err != nil {
		logMessage(s, gotext.Get("Could not read your save. Starting fresh."))
	}
	return s
}

// AdvanceNight moves on from a survived night: the next night, or back to
// the menu after the last one.
func AdvanceNight(s *session.Session) {
	next := nights.Next(s.Night())
	if next == 0 {
		s.ReturnToMenu()
		return
	}
	s.StartNight(next)
}
