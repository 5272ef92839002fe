package service

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"time"

	"github.com/fortuna/courtside/internal/cache"
	"github.com/fortuna/courtside/internal/guess"
	"github.com/fortuna/courtside/internal/stats"
	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

// memCache round-trips values through JSON like the redis cache does.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]time.Duration
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *memCache) GetJSON(_ context.Context, key string, dst any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(raw, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, value any, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = raw
	c.ttls[key] = ttl
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.data, k)
		delete(c.ttls, k)
	}
	return nil
}

func (c *memCache) ttl(key string) time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ttls[key]
}

type fakeProvider struct {
	mu          sync.Mutex
	games       stats.Table
	players     stats.Table
	teams       stats.Table
	roster      stats.Table
	info        map[int64]stats.Table
	err         error
	gameCalls   int
	boxCalls    int
	infoCalls   int
	rosterCalls int
}

func (f *fakeProvider) GameFinder(context.Context, time.Time) (stats.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gameCalls++
	return f.games, f.err
}

func (f *fakeProvider) BoxScore(context.Context, string) (stats.Table, stats.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.boxCalls++
	return f.players, f.teams, f.err
}

func (f *fakeProvider) AllPlayers(context.Context, string) (stats.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rosterCalls++
	return f.roster, f.err
}

func (f *fakeProvider) PlayerInfo(_ context.Context, playerID int64) (stats.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.infoCalls++
	return f.info[playerID], f.err
}

type fakeSeasonStats struct {
	rows []stats.SeasonPlayerRow
}

func (f *fakeSeasonStats) ListBySeason(_ context.Context, season string) ([]stats.SeasonPlayerRow, error) {
	var out []stats.SeasonPlayerRow
	for _, r := range f.rows {
		if r.Season == season {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeSeasonStats) ListAll(context.Context) ([]stats.SeasonPlayerRow, error) {
	return f.rows, nil
}

func (f *fakeSeasonStats) Seasons(context.Context) ([]string, error) {
	seen := map[string]bool{}
	var out []string
	for _, r := range f.rows {
		if !seen[r.Season] {
			seen[r.Season] = true
			out = append(out, r.Season)
		}
	}
	return out, nil
}

type fakeTeams struct {
	dir guess.TeamDirectory
}

func (f fakeTeams) Directory(context.Context) (guess.TeamDirectory, error) {
	return f.dir, nil
}

var testTTL = CacheTTL{Today: 5 * time.Minute, Past: 168 * time.Hour, Session: 24 * time.Hour}
