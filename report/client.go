package report

import (
	"context"

	"luminisbot/scraper"
	"luminisbot/wcl"
)

// Client is the data-source surface the builder consumes. The GraphQL API
// is the primary source; the scraper fills the gaps it leaves.
type Client interface {
	Fights(ctx context.Context, reportCode string) ([]wcl.Fight, error)
	FightDetails(ctx context.Context, reportCode string, fight wcl.Fight, metric wcl.Metric) (*wcl.FightDetails, error)
	Deaths(ctx context.Context, reportCode string, fightID int) (*wcl.DeathData, error)
	BossHealth(ctx context.Context, reportCode string) scraper.BossHealthMap
}

type apiClient struct {
	wcl     *wcl.Client
	scraper *scraper.Scraper
}

// NewClient combines the GraphQL client and the scraping fallback into one
// data source.
func NewClient(w *wcl.Client, s *scraper.Scraper) Client {
	return &apiClient{
		wcl:     w,
		scraper: s,
	}
}

func (c *apiClient) Fights(ctx context.Context, reportCode string) ([]wcl.Fight, error) {
	return c.wcl.Fights(ctx, reportCode)
}

// FightDetails fetches the GraphQL fragments and, when the rankings carry
// no percentile data, scrapes the website table for them. Scraped data
// rides along in the result and takes priority downstream.
func (c *apiClient) FightDetails(ctx context.Context, reportCode string, fight wcl.Fight, metric wcl.Metric) (*wcl.FightDetails, error) {
	details, err := c.wcl.FightDetails(ctx, reportCode, fight.ID, metric)
	if err != nil {
		return nil, err
	}

	if fight.EncounterID != 0 {
		parses, _ := ResolveRankings(details.Rankings, nil)
		if len(parses) == 0 {
			details.ScrapedParses = c.scraper.Parses(ctx, reportCode, fight.ID, fight.StartTime, fight.EndTime, metric)
		}
	}

	return details, nil
}

func (c *apiClient) Deaths(ctx context.Context, reportCode string, fightID int) (*wcl.DeathData, error) {
	return c.wcl.Deaths(ctx, reportCode, fightID)
}

func (c *apiClient) BossHealth(ctx context.Context, reportCode string) scraper.BossHealthMap {
	return c.scraper.BossHealth(ctx, reportCode)
}
