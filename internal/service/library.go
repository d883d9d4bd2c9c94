package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/google/uuid"

	"github.com/jask/dockyard/internal/database"
	"github.com/jask/dockyard/internal/database/repository"
	"github.com/jask/dockyard/internal/layout"
	"github.com/jask/dockyard/internal/prefs"
)

var ErrLayoutNotFound = errors.New("layout not found")

// LayoutLibrary stores named layouts in sqlite.
type LayoutLibrary struct {
	DB      *sql.DB
	Layouts *repository.LayoutRepo
	Log     *slog.Logger
}

func NewLayoutLibrary(db *sql.DB, log *slog.Logger) *LayoutLibrary {
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &LayoutLibrary{DB: db, Layouts: repository.NewLayoutRepo(db), Log: log.With("component", "library")}
}

// Save stores rc under name, replacing any layout already called that.
func (l *LayoutLibrary) Save(ctx context.Context, name string, rc layout.ResolvedConfig) (repository.SavedLayout, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return repository.SavedLayout{}, fmt.Errorf("save layout: name is required")
	}
	data, err := layout.MarshalResolved(rc)
	if err != nil {
		return repository.SavedLayout{}, err
	}
	now := database.Now()
	var saved repository.SavedLayout
	err = database.WithTx(l.DB, func(tx *sql.Tx) error {
		repo := l.Layouts.WithTx(tx)
		if err := repo.Upsert(ctx, repository.SavedLayout{
			ID: uuid.NewString(), Name: name, Config: string(data), CreatedAt: now, UpdatedAt: now,
		}); err != nil {
			return err
		}
		var err error
		saved, err = repo.GetByName(ctx, name)
		if err != nil {
			return err
		}
		return repo.RecordEvent(ctx, saved, "save", now)
	})
	if err != nil {
		return repository.SavedLayout{}, fmt.Errorf("save layout %s: %w", name, err)
	}
	l.Log.Info("layout saved", "name", name, "id", saved.ID)
	return saved, nil
}

// Load returns the named layout ready for the engine. Unknown names wrap
// ErrLayoutNotFound and suggest the closest stored name.
func (l *LayoutLibrary) Load(ctx context.Context, name string) (layout.Config, error) {
	saved, err := l.Layouts.GetByName(ctx, name)
	if repository.IsNotFound(err) {
		return layout.Config{}, l.notFound(ctx, name)
	}
	if err != nil {
		return layout.Config{}, fmt.Errorf("load layout %s: %w", name, err)
	}
	cfg, err := layout.ParseConfig([]byte(saved.Config))
	if err != nil {
		return layout.Config{}, fmt.Errorf("load layout %s: %w", name, err)
	}
	if err := l.Layouts.RecordEvent(ctx, saved, "load", database.Now()); err != nil {
		l.Log.Warn("record layout event", "name", name, "err", err)
	}
	return cfg, nil
}

func (l *LayoutLibrary) notFound(ctx context.Context, name string) error {
	names, err := l.Names(ctx)
	if err != nil {
		return fmt.Errorf("%w: %q", ErrLayoutNotFound, name)
	}
	best, bestDist := "", -1
	for _, candidate := range names {
		d := levenshtein.ComputeDistance(strings.ToLower(name), strings.ToLower(candidate))
		if bestDist < 0 || d < bestDist {
			best, bestDist = candidate, d
		}
	}
	if bestDist >= 0 && bestDist <= max(2, len(name)/3) {
		return fmt.Errorf("%w: %q (did you mean %q?)", ErrLayoutNotFound, name, best)
	}
	return fmt.Errorf("%w: %q", ErrLayoutNotFound, name)
}

func (l *LayoutLibrary) Names(ctx context.Context) ([]string, error) {
	layouts, err := l.Layouts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	names := make([]string, 0, len(layouts))
	for _, saved := range layouts {
		names = append(names, saved.Name)
	}
	return names, nil
}

// Delete removes the named layout. Its history stays, ending in a delete
// event.
func (l *LayoutLibrary) Delete(ctx context.Context, name string) error {
	var found bool
	err := database.WithTx(l.DB, func(tx *sql.Tx) error {
		repo := l.Layouts.WithTx(tx)
		saved, err := repo.GetByName(ctx, name)
		if repository.IsNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}
		if found, err = repo.Delete(ctx, name); err != nil || !found {
			return err
		}
		return repo.RecordEvent(ctx, saved, "delete", database.Now())
	})
	if err != nil {
		return fmt.Errorf("delete layout %s: %w", name, err)
	}
	if !found {
		return l.notFound(ctx, name)
	}
	l.Log.Info("layout deleted", "name", name)
	return nil
}

// LayoutLoader is what Open loads layouts into; *engine.Engine satisfies it.
type LayoutLoader interface {
	LoadLayout(cfg layout.Config) error
}

// Open restores sess into eng, or the named fallback when there is no
// session or the session is not a valid layout. Bind failures do not count
// as an invalid layout. It returns the name of the layout now on screen.
func (l *LayoutLibrary) Open(ctx context.Context, eng LayoutLoader, sess *prefs.Session, fallback string) (string, error) {
	if sess != nil && sess.Layout.Root != nil {
		err := eng.LoadLayout(layout.FromResolved(sess.Layout))
		var cerr *layout.ConfigError
		if !errors.As(err, &cerr) {
			if err != nil {
				l.Log.Warn("session loaded with errors", "err", err)
			}
			return sess.Name, nil
		}
		l.Log.Warn("session discarded", "err", err)
	}
	cfg, err := l.Load(ctx, fallback)
	if err != nil {
		return "", err
	}
	if err := eng.LoadLayout(cfg); err != nil {
		var cerr *layout.ConfigError
		if errors.As(err, &cerr) {
			return "", fmt.Errorf("open layout %s: %w", fallback, err)
		}
		l.Log.Warn("layout loaded with errors", "name", fallback, "err", err)
	}
	return fallback, nil
}
