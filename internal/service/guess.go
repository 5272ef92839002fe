package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"sync"
	"time"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/guess"
	"github.com/fortuna/courtside/internal/stats"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var ErrSessionNotFound = errors.New("guess session not found")

const (
	// maxPickAttempts bounds how many random draws Start makes before giving up
	// on finding an active player with a complete profile.
	maxPickAttempts = 10

	defaultSuggestions = 10
)

// SessionView is what clients see of a session. The solution stays hidden
// until the game is finished.
type SessionView struct {
	ID        string               `json:"id"`
	State     guess.State          `json:"state"`
	Guesses   int                  `json:"guesses"`
	Remaining int                  `json:"remaining"`
	History   []guess.GuessRecord  `json:"history"`
	Solution  *guess.PlayerProfile `json:"solution,omitempty"`
}

func viewOf(s guess.Session) *SessionView {
	v := &SessionView{
		ID:        s.ID,
		State:     s.State,
		Guesses:   s.GuessCount(),
		Remaining: s.Remaining(),
		History:   s.History,
	}
	if v.History == nil {
		v.History = []guess.GuessRecord{}
	}
	if s.State.Finished() {
		target := s.Target
		v.Solution = &target
	}
	return v
}

// GuessService runs guessing games against the active-player roster.
// Sessions live in the cache and expire after the session TTL. Updates to one
// session are serialized within the process.
type GuessService struct {
	provider StatsProvider
	cache    Cache
	teams    TeamDirectory
	season   string
	ttl      CacheTTL
	now      func() time.Time
	log      *logrus.Entry

	mu  sync.Mutex // guards rng
	rng *rand.Rand

	sessions keyedMutex
}

// keyedMutex serializes the load-modify-save cycle of one session at a time.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*refMutex
}

type refMutex struct {
	sync.Mutex
	refs int
}

// lock blocks until key is free and returns its unlock func.
func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*refMutex)
	}
	m, ok := k.locks[key]
	if !ok {
		m = &refMutex{}
		k.locks[key] = m
	}
	m.refs++
	k.mu.Unlock()

	m.Lock()
	return func() {
		m.Unlock()
		k.mu.Lock()
		m.refs--
		if m.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

// NewGuessService creates a new guessing game service. A nil rng is replaced
// by one seeded from the clock.
func NewGuessService(provider StatsProvider, c Cache, teams TeamDirectory, season string, ttl CacheTTL, rng *rand.Rand, log *logrus.Entry) *GuessService {
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>32))
	}
	return &GuessService{
		provider: provider,
		cache:    c,
		teams:    teams,
		season:   season,
		ttl:      ttl,
		now:      time.Now,
		rng:      rng,
		log:      log.WithField("component", "guess"),
	}
}

// Start creates a new session with a freshly drawn target.
func (s *GuessService) Start(ctx context.Context) (*SessionView, error) {
	target, err := s.drawTarget(ctx)
	if err != nil {
		return nil, err
	}

	session := guess.NewSession(uuid.NewString(), target)
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}

	s.log.WithField("session_id", session.ID).Info("guess session started")
	return viewOf(session), nil
}

// Get returns the current state of a session.
func (s *GuessService) Get(ctx context.Context, id string) (*SessionView, error) {
	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return viewOf(session), nil
}

// Guess resolves name against the roster, scores it and stores the new state.
func (s *GuessService) Guess(ctx context.Context, id, name string) (*SessionView, error) {
	unlock := s.sessions.lock(id)
	defer unlock()

	session, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if session.State.Finished() {
		return nil, guess.ErrGameOver
	}

	roster, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}
	entry, err := roster.Resolve(name)
	if err != nil {
		return nil, err
	}

	candidate, err := s.profile(ctx, entry.PlayerID, false)
	if err != nil {
		return nil, fmt.Errorf("building profile for %s: %w", entry.Name, err)
	}

	next, _, err := session.Guess(candidate)
	if err != nil {
		return nil, err
	}
	if err := s.save(ctx, next); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"session_id": id,
		"guess":      candidate.Name,
		"state":      next.State,
	}).Debug("guess scored")
	return viewOf(next), nil
}

// Restart draws a new target for an existing session and clears its history.
func (s *GuessService) Restart(ctx context.Context, id string) (*SessionView, error) {
	unlock := s.sessions.lock(id)
	defer unlock()

	if _, err := s.load(ctx, id); err != nil {
		return nil, err
	}

	target, err := s.drawTarget(ctx)
	if err != nil {
		return nil, err
	}

	session := guess.NewSession(id, target)
	if err := s.save(ctx, session); err != nil {
		return nil, err
	}
	s.log.WithField("session_id", id).Info("guess session restarted")
	return viewOf(session), nil
}

// Search suggests roster entries matching query, best match first.
func (s *GuessService) Search(ctx context.Context, query string, limit int) ([]guess.RosterEntry, error) {
	if limit <= 0 {
		limit = defaultSuggestions
	}
	roster, err := s.roster(ctx)
	if err != nil {
		return nil, err
	}
	return roster.Suggest(query, limit), nil
}

func (s *GuessService) drawTarget(ctx context.Context) (guess.PlayerProfile, error) {
	roster, err := s.roster(ctx)
	if err != nil {
		return guess.PlayerProfile{}, err
	}

	for attempt := 1; attempt <= maxPickAttempts; attempt++ {
		s.mu.Lock()
		entry, err := guess.PickTarget(roster.Entries(), s.rng)
		s.mu.Unlock()
		if err != nil {
			return guess.PlayerProfile{}, err
		}

		target, err := s.profile(ctx, entry.PlayerID, true)
		if err == nil {
			return target, nil
		}
		if !errors.Is(err, guess.ErrInactivePlayer) &&
			!errors.Is(err, guess.ErrUnknownTeam) &&
			!errors.Is(err, guess.ErrIncompleteProfile) {
			return guess.PlayerProfile{}, err
		}
		s.log.WithError(err).WithFields(logrus.Fields{
			"player":  entry.Name,
			"attempt": attempt,
		}).Debug("skipping target candidate")
	}
	return guess.PlayerProfile{}, fmt.Errorf("no eligible target after %d draws", maxPickAttempts)
}

func (s *GuessService) roster(ctx context.Context) (*guess.Roster, error) {
	table, err := cached(ctx, s.cache, s.log, cache.RosterKey(s.season), s.ttl.Session, func(ctx context.Context) (stats.Table, error) {
		return s.provider.AllPlayers(ctx, s.season)
	})
	if err != nil {
		return nil, fmt.Errorf("fetching roster for %s: %w", s.season, err)
	}
	rows, err := stats.RosterRowsFromTable(table)
	if err != nil {
		return nil, err
	}
	return guess.NewRoster(rows), nil
}

func (s *GuessService) profile(ctx context.Context, playerID int64, requireActive bool) (guess.PlayerProfile, error) {
	table, err := cached(ctx, s.cache, s.log, cache.PlayerInfoKey(playerID), s.ttl.Session, func(ctx context.Context) (stats.Table, error) {
		return s.provider.PlayerInfo(ctx, playerID)
	})
	if err != nil {
		return guess.PlayerProfile{}, fmt.Errorf("fetching player %d: %w", playerID, err)
	}
	rows, err := stats.PlayerInfoRowsFromTable(table)
	if err != nil {
		return guess.PlayerProfile{}, err
	}
	if len(rows) == 0 {
		return guess.PlayerProfile{}, &stats.EmptyResultError{Resource: "player info", Key: strconv.FormatInt(playerID, 10)}
	}

	if requireActive {
		if err := guess.Eligible(rows[0]); err != nil {
			return guess.PlayerProfile{}, err
		}
	}

	teams, err := s.teams.Directory(ctx)
	if err != nil {
		return guess.PlayerProfile{}, fmt.Errorf("loading team directory: %w", err)
	}
	return guess.BuildProfile(rows[0], teams, s.now())
}

func (s *GuessService) load(ctx context.Context, id string) (guess.Session, error) {
	var session guess.Session
	err := s.cache.GetJSON(ctx, cache.SessionKey(id), &session)
	if errors.Is(err, cache.ErrCacheMiss) {
		return session, ErrSessionNotFound
	}
	if err != nil {
		return session, fmt.Errorf("loading session %s: %w", id, err)
	}
	return session, nil
}

func (s *GuessService) save(ctx context.Context, session guess.Session) error {
	if err := s.cache.SetJSON(ctx, cache.SessionKey(session.ID), session, s.ttl.Session); err != nil {
		return fmt.Errorf("saving session %s: %w", session.ID, err)
	}
	return nil
}
