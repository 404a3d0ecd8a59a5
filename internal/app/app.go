package app

import (
	"log/slog"
	"time"
)

// App ties the scheduling core to its collaborators. Store and Links are
// interfaces so tests can swap fakes; Now is injectable so nothing in the
// core reads the process clock directly.
type App struct {
	Store Store
	Links MeetingLinks
	Log   *slog.Logger
	Now   func() time.Time
}

func New(store Store, links MeetingLinks, log *slog.Logger) *App {
	return &App{
		Store: store,
		Links: links,
		Log:   log,
		Now:   func() time.Time { return time.Now().UTC() },
	}
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}
