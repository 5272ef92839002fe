package nba

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fortuna/courtside/internal/stats"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL = "https://stats.nba.com/stats"
	LeagueID       = "00"

	// Result set names used by the endpoints below.
	ResultGameFinder = "LeagueGameFinderResults"
	ResultPlayerBox  = "PlayerStats"
	ResultTeamBox    = "TeamStats"
	ResultAllPlayers = "CommonAllPlayers"
	ResultPlayerInfo = "CommonPlayerInfo"
)

// ErrUpstream marks failures of the stats provider itself (transport, status, body).
var ErrUpstream = errors.New("stats provider request failed")

// Options configures a Client. Zero values fall back to defaults.
type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Logger            *logrus.Entry
}

// Client talks to the stats.nba.com JSON endpoints. Calls are rate limited and
// guarded by a circuit breaker; the provider throttles aggressively.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
	log        *logrus.Entry
}

// New creates a stats client.
func New(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 1
	}
	if opts.Logger == nil {
		opts.Logger = logrus.NewEntry(logrus.StandardLogger())
	}
	log := opts.Logger.WithField("component", "nba-client")

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "nba-stats",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(logrus.Fields{
				"breaker":    name,
				"from_state": from.String(),
				"to_state":   to.String(),
			}).Warn("stats provider circuit breaker state changed")
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		httpClient: &http.Client{Timeout: opts.Timeout},
		limiter:    rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		breaker:    breaker,
		log:        log,
	}
}

// GameFinder returns the team-mode game log for one calendar date: two rows per game.
func (c *Client) GameFinder(ctx context.Context, date time.Time) (stats.Table, error) {
	day := date.Format("01/02/2006")
	params := url.Values{
		"LeagueID":     {LeagueID},
		"PlayerOrTeam": {"T"},
		"DateFrom":     {day},
		"DateTo":       {day},
	}
	sets, err := c.get(ctx, "leaguegamefinder", params)
	if err != nil {
		return stats.Table{}, err
	}
	return pick(sets, ResultGameFinder)
}

// BoxScore returns the player and team result sets of a game's traditional box score.
func (c *Client) BoxScore(ctx context.Context, gameID string) (players, teams stats.Table, err error) {
	params := url.Values{
		"GameID":      {gameID},
		"StartPeriod": {"0"},
		"EndPeriod":   {"10"},
		"StartRange":  {"0"},
		"EndRange":    {"28800"},
		"RangeType":   {"0"},
	}
	sets, err := c.get(ctx, "boxscoretraditionalv2", params)
	if err != nil {
		return stats.Table{}, stats.Table{}, err
	}
	if players, err = pick(sets, ResultPlayerBox); err != nil {
		return stats.Table{}, stats.Table{}, err
	}
	if teams, err = pick(sets, ResultTeamBox); err != nil {
		return stats.Table{}, stats.Table{}, err
	}
	return players, teams, nil
}

// AllPlayers returns the roster of players active in season.
func (c *Client) AllPlayers(ctx context.Context, season string) (stats.Table, error) {
	params := url.Values{
		"LeagueID":            {LeagueID},
		"Season":              {season},
		"IsOnlyCurrentSeason": {"1"},
	}
	sets, err := c.get(ctx, "commonallplayers", params)
	if err != nil {
		return stats.Table{}, err
	}
	return pick(sets, ResultAllPlayers)
}

// PlayerInfo returns the biography result set for one player.
func (c *Client) PlayerInfo(ctx context.Context, playerID int64) (stats.Table, error) {
	params := url.Values{
		"LeagueID": {LeagueID},
		"PlayerID": {strconv.FormatInt(playerID, 10)},
	}
	sets, err := c.get(ctx, "commonplayerinfo", params)
	if err != nil {
		return stats.Table{}, err
	}
	return pick(sets, ResultPlayerInfo)
}

type response struct {
	ResultSets []stats.Table `json:"resultSets"`
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]stats.Table, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	target := fmt.Sprintf("%s/%s?%s", c.baseURL, endpoint, params.Encode())
	start := time.Now()

	out, err := c.breaker.Execute(func() (interface{}, error) {
		return c.fetch(ctx, target)
	})
	if err != nil {
		c.log.WithError(err).WithField("endpoint", endpoint).Warn("stats request failed")
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%s: %w: %v", endpoint, ErrUpstream, err)
		}
		return nil, fmt.Errorf("%s: %w", endpoint, err)
	}

	c.log.WithFields(logrus.Fields{
		"endpoint": endpoint,
		"duration": time.Since(start).String(),
	}).Debug("stats request complete")
	return out.([]stats.Table), nil
}

func (c *Client) fetch(ctx context.Context, target string) ([]stats.Table, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	setBrowserHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", ErrUpstream, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUpstream, resp.StatusCode, snippet(body))
	}
	if len(body) > 0 && body[0] == '<' {
		return nil, fmt.Errorf("%w: provider returned HTML: %s", ErrUpstream, snippet(body))
	}

	var decoded response
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: decoding response: %v", ErrUpstream, err)
	}
	return decoded.ResultSets, nil
}

func setBrowserHeaders(req *http.Request) {
	req.Header.Set("Accept", "application/json, text/plain, */*")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Origin", "https://www.nba.com")
	req.Header.Set("Referer", "https://www.nba.com/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("x-nba-stats-origin", "stats")
	req.Header.Set("x-nba-stats-token", "true")
}

func pick(sets []stats.Table, name string) (stats.Table, error) {
	for _, s := range sets {
		if s.Name == name {
			return s, nil
		}
	}
	return stats.Table{}, &stats.SchemaError{Table: name, Column: "*", Row: -1, Reason: "result set missing from response"}
}

func snippet(b []byte) string {
	const max = 200
	if len(b) > max {
		return string(b[:max])
	}
	return string(b)
}
