package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const defaultOpenDataBaseURL = "https://raw.githubusercontent.com/statsbomb/open-data/master/data"

// Competitions known to carry full-season match files in the open-data set.
var defaultCompetitions = []struct {
	CompetitionID int
	SeasonID      int
}{
	{11, 90}, // La Liga 2020/21
	{2, 27},  // Premier League 2015/16
}

// ReferenceMatch is one historical match result used to cross-check
// simulated outcome rates against real frequencies.
type ReferenceMatch struct {
	MatchID   int    `json:"match_id"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	MatchDate string `json:"match_date"`
}

// openDataMatch mirrors the subset of the match JSON we read.
type openDataMatch struct {
	MatchID  int `json:"match_id"`
	HomeTeam struct {
		Name string `json:"home_team_name"`
	} `json:"home_team"`
	AwayTeam struct {
		Name string `json:"away_team_name"`
	} `json:"away_team"`
	HomeScore int    `json:"home_score"`
	AwayScore int    `json:"away_score"`
	MatchDate string `json:"match_date"`
}

// OpenDataProvider fetches historical match results from the StatsBomb
// open-data GitHub mirror. All requests go through a circuit breaker so a
// flaky upstream cannot stall cross-match validation.
type OpenDataProvider struct {
	baseURL string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
}

func NewOpenDataProvider(baseURL string, timeout time.Duration, breakerThreshold int) *OpenDataProvider {
	if baseURL == "" {
		baseURL = defaultOpenDataBaseURL
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	if breakerThreshold <= 0 {
		breakerThreshold = 5
	}

	settings := gobreaker.Settings{
		Name:        "open-data",
		MaxRequests: uint32(breakerThreshold),
		Timeout:     60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logrus.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	return &OpenDataProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
	}
}

// FetchMatches pulls the match files for the default competition set and
// flattens them into reference results.
func (p *OpenDataProvider) FetchMatches(ctx context.Context) ([]ReferenceMatch, error) {
	var all []ReferenceMatch
	for _, comp := range defaultCompetitions {
		matches, err := p.fetchCompetition(ctx, comp.CompetitionID, comp.SeasonID)
		if err != nil {
			return nil, fmt.Errorf("fetch competition %d/%d: %w", comp.CompetitionID, comp.SeasonID, err)
		}
		all = append(all, matches...)
	}
	logrus.Infof("Fetched %d reference matches from open data", len(all))
	return all, nil
}

func (p *OpenDataProvider) fetchCompetition(ctx context.Context, competitionID, seasonID int) ([]ReferenceMatch, error) {
	url := fmt.Sprintf("%s/matches/%d/%d.json", p.baseURL, competitionID, seasonID)

	result, err := p.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		resp, err := p.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("open data returned status %d", resp.StatusCode)
		}
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		var raw []openDataMatch
		if err := json.Unmarshal(body, &raw); err != nil {
			return nil, fmt.Errorf("decode match file: %w", err)
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}

	raw := result.([]openDataMatch)
	matches := make([]ReferenceMatch, 0, len(raw))
	for _, m := range raw {
		matches = append(matches, ReferenceMatch{
			MatchID:   m.MatchID,
			HomeTeam:  m.HomeTeam.Name,
			AwayTeam:  m.AwayTeam.Name,
			HomeScore: m.HomeScore,
			AwayScore: m.AwayScore,
			MatchDate: m.MatchDate,
		})
	}
	return matches, nil
}

// BreakerState exposes the breaker state for health reporting.
func (p *OpenDataProvider) BreakerState() gobreaker.State {
	return p.breaker.State()
}

// OutcomeRates summarises win/draw/loss frequencies across matches from the
// home side's perspective.
type OutcomeRates struct {
	Matches  int     `json:"matches"`
	HomeWins float64 `json:"home_wins"`
	AwayWins float64 `json:"away_wins"`
	Draws    float64 `json:"draws"`
	AvgGoals float64 `json:"avg_goals_per_match"`
}

// ComputeOutcomeRates reduces reference matches to historical frequencies.
func ComputeOutcomeRates(matches []ReferenceMatch) OutcomeRates {
	rates := OutcomeRates{Matches: len(matches)}
	if len(matches) == 0 {
		return rates
	}
	var home, away, draws, goals int
	for _, m := range matches {
		goals += m.HomeScore + m.AwayScore
		switch {
		case m.HomeScore > m.AwayScore:
			home++
		case m.AwayScore > m.HomeScore:
			away++
		default:
			draws++
		}
	}
	n := float64(len(matches))
	rates.HomeWins = float64(home) / n
	rates.AwayWins = float64(away) / n
	rates.Draws = float64(draws) / n
	rates.AvgGoals = float64(goals) / n
	return rates
}
