package service

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/log"
)

// ErrLoopStopped is returned by Do once the loop has exited
var ErrLoopStopped = errors.New("loop stopped")

// LoopConfig controls frame timing
type LoopConfig struct {
	// FPS is the number of layout steps per second.
	FPS int
	// BroadcastEvery publishes a frame event every n steps; 0 disables them.
	BroadcastEvery int
}

type command struct {
	fn   func(*Session) error
	done chan error
}

// Loop owns a session and is the only goroutine that touches it. Frames
// and queued commands are interleaved, never concurrent.
type Loop struct {
	session *Session
	cfg     LoopConfig
	cmds    chan command
	stopped chan struct{}
	logger  *log.Logger
}

// NewLoop creates a loop for the session
func NewLoop(s *Session, cfg LoopConfig, logger *log.Logger) *Loop {
	if cfg.FPS <= 0 {
		cfg.FPS = 60
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Loop{
		session: s,
		cfg:     cfg,
		cmds:    make(chan command),
		stopped: make(chan struct{}),
		logger:  logger.WithPrefix("loop"),
	}
}

// Run steps the layout every frame and executes queued commands until ctx
// is cancelled
func (l *Loop) Run(ctx context.Context) {
	defer close(l.stopped)

	ticker := time.NewTicker(time.Second / time.Duration(l.cfg.FPS))
	defer ticker.Stop()

	l.logger.Info("frame loop started", "fps", l.cfg.FPS, "session", l.session.ID())
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("frame loop stopped", "frames", l.session.Frame())
			return

		case cmd := <-l.cmds:
			cmd.done <- cmd.fn(l.session)

		case <-ticker.C:
			l.tick()
		}
	}
}

func (l *Loop) tick() {
	stats := l.session.Step()
	n := l.cfg.BroadcastEvery
	if n > 0 && l.session.Frame()%uint64(n) == 0 {
		l.session.publish(EventFrame, l.session.FrameView(stats))
	}
}

// Do runs fn on the loop goroutine between frames and returns its error.
// ctx only bounds the wait for the loop to accept fn; once accepted, fn
// runs to completion and Do reports its result.
func (l *Loop) Do(ctx context.Context, fn func(*Session) error) error {
	cmd := command{fn: fn, done: make(chan error, 1)}
	select {
	case l.cmds <- cmd:
	case <-l.stopped:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-cmd.done
}
