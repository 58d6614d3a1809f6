package tui

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/Makepad-fr/breeds/internal/activity"
	"github.com/Makepad-fr/breeds/internal/browse"
)

type Options struct {
	Session     *browse.Session
	Tracker     *activity.Tracker
	RotateEvery time.Duration
}

// Run starts the browser on the alternate screen and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, opt Options) error {
	if opt.Session == nil {
		return errors.New("tui: session is required")
	}
	p := tea.NewProgram(New(ctx, opt.Session, opt.RotateEvery), tea.WithAltScreen(), tea.WithContext(ctx))
	if opt.Tracker != nil {
		opt.Tracker.Subscribe(func(s activity.State) { p.Send(activityMsg(s)) })
	}

	log.Debug().Dur("rotate_every", opt.RotateEvery).Msg("starting browser")
	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return err
	}
	return nil
}
