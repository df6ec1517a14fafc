package nbastats

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"

	"github.com/drafthoops/nba-draft-tracker/internal/domain/games"
	"github.com/drafthoops/nba-draft-tracker/internal/domain/team"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/logging"
	"github.com/drafthoops/nba-draft-tracker/internal/platform/resilience"
)

const (
	defaultBaseURL  = "https://stats.nba.com/stats"
	maxResponseSize = 6 << 20

	resultSetTeamStats  = "LeagueDashTeamStats"
	resultSetGameHeader = "GameHeader"
	resultSetLineScore  = "LineScore"
	resultSetGameLog    = "TeamGameLog"
)

var errTransient = crerr.New("nbastats transient failure")

// browserHeaders are required by stats.nba.com; requests without a
// browser-like User-Agent and Referer hang or get rejected.
var browserHeaders = map[string]string{
	"User-Agent":         "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":             "application/json, text/plain, */*",
	"Referer":            "https://www.nba.com/",
	"Origin":             "https://www.nba.com",
	"x-nba-stats-origin": "stats",
	"x-nba-stats-token":  "true",
}

type ClientConfig struct {
	HTTPClient     *http.Client
	BaseURL        string
	Season         string
	Timeout        time.Duration
	MaxRetries     int
	Logger         *logging.Logger
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Client talks to the public stats.nba.com endpoints and normalizes the
// tabular payloads into the fixed franchise vocabulary.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	season         string
	maxRetries     int
	logger         *logging.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
	flight         resilience.SingleFlight
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = 20 * time.Second
	}

	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	season := strings.TrimSpace(cfg.Season)
	if season == "" {
		season = CurrentSeason(time.Now())
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &Client{
		httpClient:     httpClient,
		baseURL:        baseURL,
		season:         season,
		maxRetries:     max(cfg.MaxRetries, 0),
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// CurrentSeason formats the NBA season label ("2025-26") containing the
// given moment. Seasons roll over in October.
func CurrentSeason(now time.Time) string {
	year := now.Year()
	if now.Month() < time.October {
		year--
	}
	return fmt.Sprintf("%d-%02d", year, (year+1)%100)
}

// FetchTeamRecords pulls per-game team stats for the season and maps
// them onto the franchise vocabulary. Unknown team labels are logged and
// skipped rather than failing the whole fetch.
func (c *Client) FetchTeamRecords(ctx context.Context) (map[string]team.Record, error) {
	query := map[string]string{
		"Season":         c.season,
		"SeasonType":     "Regular Season",
		"LeagueID":       "00",
		"MeasureType":    "Base",
		"PerMode":        "PerGame",
		"LastNGames":     "0",
		"Month":          "0",
		"OpponentTeamID": "0",
		"PaceAdjust":     "N",
		"Period":         "0",
		"PlusMinus":      "N",
		"Rank":           "N",
		"TeamID":         "0",
	}

	var envelope statsEnvelope
	if err := c.doJSON(ctx, "/leaguedashteamstats", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch team stats season=%s: %w", c.season, err)
	}

	set, ok := envelope.resultSet(resultSetTeamStats)
	if !ok && len(envelope.ResultSets) > 0 {
		set = envelope.ResultSets[0]
	}

	records := make(map[string]team.Record, len(set.RowSet))
	hasOppPts := set.hasHeader("OPP_PTS")
	for _, row := range set.rows() {
		label := getString(row, "TEAM_NAME")
		name, known := team.Canonicalize(label)
		if !known {
			c.logger.WarnContext(ctx, "skipping unknown team label", "label", label)
			continue
		}

		pointsFor := getFloat(row, "PTS")
		pointsAgainst := pointsFor - getFloat(row, "PLUS_MINUS")
		if hasOppPts {
			pointsAgainst = getFloat(row, "OPP_PTS")
		}

		records[name] = team.Record{
			Name:          name,
			Wins:          getInt(row, "W"),
			Losses:        getInt(row, "L"),
			PointsFor:     pointsFor,
			PointsAgainst: pointsAgainst,
		}
	}

	if len(records) == 0 {
		return nil, fmt.Errorf("team stats payload season=%s contained no recognizable teams", c.season)
	}

	return records, nil
}

// FetchScoreboard pulls the scoreboard for one day. GameHeader rows give
// matchup and status, LineScore rows carry the running scores.
func (c *Client) FetchScoreboard(ctx context.Context, day time.Time) (games.Scoreboard, error) {
	date := day.Format("2006-01-02")
	query := map[string]string{
		"GameDate":  date,
		"LeagueID":  "00",
		"DayOffset": "0",
	}

	var envelope statsEnvelope
	if err := c.doJSON(ctx, "/scoreboardv2", query, &envelope); err != nil {
		return games.Scoreboard{}, fmt.Errorf("fetch scoreboard date=%s: %w", date, err)
	}

	type lineScore struct {
		name   string
		points int
	}
	scores := make(map[int64]lineScore)
	if set, ok := envelope.resultSet(resultSetLineScore); ok {
		for _, row := range set.rows() {
			teamID := getInt64(row, "TEAM_ID")
			if teamID <= 0 {
				continue
			}
			name, _ := team.Canonicalize(getString(row, "TEAM_NAME"))
			if name == "" {
				name = getString(row, "TEAM_ABBREVIATION")
			}
			scores[teamID] = lineScore{name: name, points: getInt(row, "PTS")}
		}
	}

	board := games.Scoreboard{Date: date}
	header, ok := envelope.resultSet(resultSetGameHeader)
	if !ok {
		return board, nil
	}
	for _, row := range header.rows() {
		home := scores[getInt64(row, "HOME_TEAM_ID")]
		away := scores[getInt64(row, "VISITOR_TEAM_ID")]
		board.Games = append(board.Games, games.Game{
			HomeTeam:  home.name,
			AwayTeam:  away.name,
			HomeScore: home.points,
			AwayScore: away.points,
			Status:    getString(row, "GAME_STATUS_TEXT"),
		})
	}

	return board, nil
}

// FetchTeamGameLog pulls the season game log for one franchise.
func (c *Client) FetchTeamGameLog(ctx context.Context, franchise string) ([]games.GameLogEntry, error) {
	teamID, ok := franchiseIDs[franchise]
	if !ok {
		return nil, fmt.Errorf("no team id for franchise %q", franchise)
	}

	query := map[string]string{
		"TeamID":     strconv.FormatInt(teamID, 10),
		"Season":     c.season,
		"SeasonType": "Regular Season",
		"LeagueID":   "00",
	}

	var envelope statsEnvelope
	if err := c.doJSON(ctx, "/teamgamelog", query, &envelope); err != nil {
		return nil, fmt.Errorf("fetch game log team=%s: %w", franchise, err)
	}

	set, ok := envelope.resultSet(resultSetGameLog)
	if !ok && len(envelope.ResultSets) > 0 {
		set = envelope.ResultSets[0]
	}

	entries := make([]games.GameLogEntry, 0, len(set.RowSet))
	for _, row := range set.rows() {
		date, err := parseGameDate(getString(row, "GAME_DATE"))
		if err != nil {
			c.logger.WarnContext(ctx, "skipping game log row with bad date",
				"team", franchise,
				"date", getString(row, "GAME_DATE"),
			)
			continue
		}
		entries = append(entries, games.GameLogEntry{
			Team: franchise,
			Date: date,
			Won:  strings.EqualFold(getString(row, "WL"), "W"),
		})
	}

	return entries, nil
}

// parseGameDate accepts the two formats the game log endpoint emits.
func parseGameDate(raw string) (string, error) {
	for _, layout := range []string{"Jan 02, 2006", "2006-01-02"} {
		if parsed, err := time.Parse(layout, raw); err == nil {
			return parsed.Format("2006-01-02"), nil
		}
	}
	return "", fmt.Errorf("unrecognized game date %q", raw)
}

func (c *Client) doJSON(ctx context.Context, path string, query map[string]string, target any) error {
	values := url.Values{}
	for key, value := range query {
		values.Set(key, value)
	}

	fullURL := c.baseURL + path
	if encoded := values.Encode(); encoded != "" {
		fullURL += "?" + encoded
	}

	if c.circuitEnabled {
		if err := c.breaker.Allow(); err != nil {
			return fmt.Errorf("%w: %s", err, path)
		}
	}

	out, err, _ := c.flight.Do(fullURL, func() (any, error) {
		raw, reqErr := c.executeRequest(ctx, fullURL)
		if c.circuitEnabled {
			if reqErr != nil && crerr.Is(reqErr, errTransient) {
				c.breaker.RecordFailure()
			} else {
				c.breaker.RecordSuccess()
			}
		}
		return raw, reqErr
	})
	if err != nil {
		return err
	}

	raw, ok := out.([]byte)
	if !ok {
		return fmt.Errorf("unexpected response payload type %T", out)
	}

	if err := sonic.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("decode provider payload: %w", err)
	}

	return nil
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, error) {
	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
		if err != nil {
			return nil, fmt.Errorf("build request: %w", err)
		}
		for key, value := range browserHeaders {
			req.Header.Set(key, value)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("%w: send request: %v", errTransient, err)
		} else {
			raw, readErr := readBody(resp.Body)
			_ = resp.Body.Close()
			switch {
			case readErr != nil:
				lastErr = fmt.Errorf("%w: read response body: %v", errTransient, readErr)
			case resp.StatusCode >= 200 && resp.StatusCode < 300:
				return raw, nil
			case isRetryableStatus(resp.StatusCode):
				lastErr = fmt.Errorf("%w: provider status=%d", errTransient, resp.StatusCode)
			default:
				return nil, fmt.Errorf("provider status=%d", resp.StatusCode)
			}
		}

		if attempt == c.maxRetries {
			break
		}
		backoff := time.Duration(attempt+1) * time.Second
		timer := time.NewTimer(backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("provider request failed")
	}
	c.logger.WarnContext(ctx, "nbastats request failed", "url", fullURL, "error", lastErr)
	return nil, lastErr
}

// readBody copies through a pooled buffer so retries and the frequent
// refresh cycle do not churn large one-off allocations.
func readBody(body io.Reader) ([]byte, error) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	if _, err := io.Copy(buf, io.LimitReader(body, maxResponseSize)); err != nil {
		return nil, err
	}

	out := make([]byte, buf.Len())
	copy(out, buf.Bytes())
	return out, nil
}

func isRetryableStatus(code int) bool {
	if code == http.StatusTooManyRequests || code == http.StatusRequestTimeout {
		return true
	}
	return code >= 500
}

// franchiseIDs maps the fixed vocabulary onto stats.nba.com team ids.
var franchiseIDs = map[string]int64{
	"Hawks":         1610612737,
	"Celtics":       1610612738,
	"Cavaliers":     1610612739,
	"Pelicans":      1610612740,
	"Bulls":         1610612741,
	"Mavericks":     1610612742,
	"Nuggets":       1610612743,
	"Warriors":      1610612744,
	"Rockets":       1610612745,
	"Clippers":      1610612746,
	"Lakers":        1610612747,
	"Heat":          1610612748,
	"Bucks":         1610612749,
	"Timberwolves":  1610612750,
	"Nets":          1610612751,
	"Knicks":        1610612752,
	"Magic":         1610612753,
	"Pacers":        1610612754,
	"76ers":         1610612755,
	"Suns":          1610612756,
	"Trail Blazers": 1610612757,
	"Kings":         1610612758,
	"Spurs":         1610612759,
	"Thunder":       1610612760,
	"Raptors":       1610612761,
	"Jazz":          1610612762,
	"Grizzlies":     1610612763,
	"Wizards":       1610612764,
	"Pistons":       1610612765,
	"Hornets":       1610612766,
}
