// Package session orchestrates one play session at a time: it starts the
// scene engine for a level, forwards its events to the presentation and turns
// the terminal score into a first completion or a replay.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/algoquest/internal/config"
	"github.com/vovakirdan/algoquest/internal/levels"
	"github.com/vovakirdan/algoquest/internal/progress"
	"github.com/vovakirdan/algoquest/internal/registry"
	"github.com/vovakirdan/algoquest/internal/scene"
)

var (
	// ErrLocked is returned when starting a level whose predecessor has not
	// been completed.
	ErrLocked = errors.New("level is locked")
	// ErrNoSession is returned by operations that need an active session.
	ErrNoSession = errors.New("no active session")
)

// Listener receives session events.
type Listener interface {
	// OnStateChanged forwards every engine snapshot.
	OnStateChanged(s scene.Snapshot)
	// OnLevelComplete is called once per play with the persisted outcome.
	OnLevelComplete(r Result)
}

// Result is the outcome of one finished play.
type Result struct {
	LevelID         int
	Score           int
	FirstCompletion bool
	XPAwarded       int // zero on replays
	Elapsed         time.Duration
	HintsUsed       int
	Profile         progress.UserProfile
	NewAchievements []progress.Achievement
}

// Controller runs sessions against a progress store.
type Controller struct {
	store   *progress.Store
	catalog *levels.Catalog
	cfg     config.Config
	logger  *log.Logger

	active *Session
}

// Session is the state of the level being played.
type Session struct {
	ctx      context.Context
	meta     levels.Meta
	engine   scene.Engine
	listener Listener

	elapsed time.Duration
	hints   int
	result  *Result
}

// New creates a controller. A nil logger selects log.Default().
func New(store *progress.Store, cfg config.Config, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		store:   store,
		catalog: store.Catalog(),
		cfg:     cfg,
		logger:  logger,
	}
}

// StartLevel tears down any running session and starts levelID. ctx bounds
// the persistence the session performs until it ends.
func (c *Controller) StartLevel(ctx context.Context, levelID int, l Listener) (*Session, error) {
	meta, err := c.catalog.Get(levelID)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if !c.store.IsUnlocked(ctx, levelID) {
		return nil, fmt.Errorf("session: level %d: %w", levelID, ErrLocked)
	}

	engine, err := registry.Create(meta.Algorithm, c.cfg)
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}

	c.Teardown()
	s := &Session{ctx: ctx, meta: meta, engine: engine, listener: l}
	c.active = s

	c.store.ResetSessionState(ctx, levelID)
	c.logger.Debug("starting level", "level", levelID, "algorithm", meta.Algorithm)
	engine.Start(c.engineListener(s))
	return s, nil
}

// Replay restarts the active level from scratch. The session score cache is
// reset; the completion record is untouched.
func (c *Controller) Replay() error {
	s := c.active
	if s == nil {
		return ErrNoSession
	}
	s.engine.Teardown()
	s.elapsed = 0
	s.hints = 0
	s.result = nil

	c.store.ResetSessionState(s.ctx, s.meta.ID)
	c.logger.Debug("replaying level", "level", s.meta.ID)
	s.engine.Start(c.engineListener(s))
	return nil
}

// Apply forwards an input to the active engine.
func (c *Controller) Apply(in scene.Input) bool {
	if c.active == nil {
		return false
	}
	return c.active.engine.Apply(in)
}

// Update advances the active engine and the play clock.
func (c *Controller) Update(dt time.Duration) {
	s := c.active
	if s == nil {
		return
	}
	if s.result == nil && dt > 0 {
		s.elapsed += dt
	}
	s.engine.Update(dt)
}

// Hint reveals the next hint of the active level. Each newly revealed hint
// counts toward the hints used; asking again after the last one repeats it.
func (c *Controller) Hint() (string, bool) {
	s := c.active
	if s == nil || len(s.meta.Hints) == 0 || s.result != nil {
		return "", false
	}
	if s.hints < len(s.meta.Hints) {
		s.hints++
	}
	return s.meta.Hints[s.hints-1], true
}

// NextLevel returns the level after the active one if it exists and is
// unlocked. ok is false when the player should go to the summary instead.
func (c *Controller) NextLevel() (levels.Meta, bool) {
	s := c.active
	if s == nil {
		return levels.Meta{}, false
	}
	next, ok := c.catalog.Next(s.meta.ID)
	if !ok || !c.store.IsUnlocked(s.ctx, next.ID) {
		return levels.Meta{}, false
	}
	return next, true
}

// Active returns the running session, or nil.
func (c *Controller) Active() *Session {
	return c.active
}

// Teardown stops the active session. Pending engine transitions are cancelled.
func (c *Controller) Teardown() {
	if c.active == nil {
		return
	}
	c.active.engine.Teardown()
	c.active = nil
}

func (c *Controller) engineListener(s *Session) scene.Listener {
	return scene.ListenerFuncs{
		StateChanged: func(snap scene.Snapshot) {
			if s.listener != nil {
				s.listener.OnStateChanged(snap)
			}
		},
		Terminal: func(score int) {
			c.finish(s, score)
		},
	}
}

// finish persists a terminal score. The first completion of a level goes
// through Complete; replays only refresh the session cache and play time.
func (c *Controller) finish(s *Session, score int) {
	ctx := s.ctx
	id := s.meta.ID
	profile := c.store.Load(ctx)
	replay := profile.HasCompleted(id)

	r := Result{
		LevelID:   id,
		Score:     score,
		Elapsed:   s.elapsed,
		HintsUsed: s.hints,
	}

	if !replay {
		play := progress.Play{
			LevelID:   id,
			Score:     score,
			TimeSpent: s.elapsed,
			HintsUsed: s.hints,
			MaxScore:  s.meta.MaxScore,
		}
		if mc, ok := s.engine.Snapshot().(scene.MistakeCounter); ok {
			play.Mistakes = mc.Mistakes()
		}
		comp := c.store.Complete(ctx, play)
		r.Score = comp.Score
		r.FirstCompletion = true
		r.XPAwarded = comp.XPAwarded
		r.Profile = comp.Profile
		r.NewAchievements = comp.NewAchievements
	} else {
		r.Score = min(max(score, 0), s.meta.MaxScore)
		c.store.UpdatePlayTime(ctx, s.elapsed)
		r.Profile = c.store.Load(ctx)
	}

	c.store.SaveSessionState(ctx, progress.SessionState{LevelID: id, CurrentScore: r.Score})
	c.store.RecordAttempt(ctx, progress.Attempt{
		LevelID:   id,
		Score:     r.Score,
		Replay:    replay,
		TimeSpent: s.elapsed,
	})

	c.logger.Info("level finished",
		"level", id, "score", r.Score, "replay", replay, "elapsed", s.elapsed.Round(time.Second))

	s.result = &r
	if s.listener != nil {
		s.listener.OnLevelComplete(r)
	}
}

// Level returns the metadata of the session's level.
func (s *Session) Level() levels.Meta {
	return s.meta
}

// Snapshot returns the engine's current snapshot.
func (s *Session) Snapshot() scene.Snapshot {
	return s.engine.Snapshot()
}

// Elapsed returns the play time so far.
func (s *Session) Elapsed() time.Duration {
	return s.elapsed
}

// HintsUsed returns the number of hints revealed so far.
func (s *Session) HintsUsed() int {
	return s.hints
}

// Result returns the outcome once the level is finished.
func (s *Session) Result() (Result, bool) {
	if s.result == nil {
		return Result{}, false
	}
	return *s.result, true
}
