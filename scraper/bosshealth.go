package scraper

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
)

// BossHealthMap maps fight id to the boss's remaining health percentage.
// Populated for wipes only.
type BossHealthMap map[int]float64

// BossHealth fetches the health percentages for every wipe in a report in
// one call, via the fights-and-participants endpoint. Returns an empty map
// on any failure.
func (s *Scraper) BossHealth(ctx context.Context, reportCode string) BossHealthMap {
	pageURL := fmt.Sprintf("%s/reports/%s", s.base, reportCode)

	client, ok := s.newSession(ctx, pageURL)
	if !ok {
		return BossHealthMap{}
	}

	participantsURL := fmt.Sprintf("%s/reports/fights-and-participants/%s/0", s.base, reportCode)

	body := s.ajax(ctx, client, participantsURL, pageURL)
	if body == nil {
		return BossHealthMap{}
	}

	return parseParticipants(body)
}

// parseParticipants converts the endpoint's raw hundredths into percentages
// (8544 -> 85.44), keeping wipes only.
func parseParticipants(body []byte) BossHealthMap {
	var resp struct {
		Fights []struct {
			ID             *int     `json:"id"`
			Kill           bool     `json:"kill"`
			BossPercentage *float64 `json:"bossPercentage"`
		} `json:"fights"`
	}

	err := jsoniter.Unmarshal(body, &resp)
	if err != nil {
		return BossHealthMap{}
	}

	health := make(BossHealthMap, len(resp.Fights))
	for _, fight := range resp.Fights {
		if fight.Kill || fight.ID == nil || fight.BossPercentage == nil {
			continue
		}
		health[*fight.ID] = *fight.BossPercentage / 100
	}
	return health
}
