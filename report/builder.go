package report

import (
	"context"
	"fmt"
	"log"
	"sort"

	"luminisbot/scraper"
	"luminisbot/share/parallel"
	"luminisbot/wcl"

	"github.com/pkg/errors"
)

const (
	maxOptionLabel = 100

	noDataMessage = "Could not retrieve data for the selected fight. The API may have returned an error."
)

// Builder drives the report pipeline for one combat-log report: fetch,
// resolve, classify, format. The boss-health map is fetched once per report
// and reused for every fight selection.
type Builder struct {
	client Client
	pal    *Palette
	code   string

	fights     []wcl.Fight
	bossHealth scraper.BossHealthMap
}

func NewBuilder(client Client, reportCode string, pal *Palette) *Builder {
	if pal == nil {
		pal = DefaultPalette()
	}
	return &Builder{
		client: client,
		pal:    pal,
		code:   reportCode,
	}
}

// Load fetches the fight list and the report-wide boss-health data. The two
// calls are independent and run concurrently; a boss-health failure only
// costs the wipe percentages.
func (b *Builder) Load(ctx context.Context) error {
	err := parallel.Run(ctx,
		func(ctx context.Context) error {
			fights, err := b.client.Fights(ctx, b.code)
			if err != nil {
				return err
			}
			b.fights = fights
			return nil
		},
		func(ctx context.Context) error {
			b.bossHealth = b.client.BossHealth(ctx, b.code)
			return nil
		},
	)
	if err != nil {
		return errors.Wrapf(err, "report: loading %s", b.code)
	}
	return nil
}

func (b *Builder) Fights() []wcl.Fight {
	return b.fights
}

// FightOption is one entry of the fight-selection menu.
type FightOption struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Kill  bool   `json:"kill"`
}

// FightOptions labels every fight for selection: kills as "(Kill)", wipes
// with a per-boss wipe counter and, when known, the boss health reached.
func (b *Builder) FightOptions() []FightOption {
	options := make([]FightOption, 0, len(b.fights))
	wipes := make(map[string]int, 8)

	for _, fight := range b.fights {
		var label string
		if fight.Kill {
			label = fmt.Sprintf("%s (Kill)", fight.Name)
		} else {
			wipes[fight.Name]++
			if health, ok := b.bossHealth[fight.ID]; ok {
				label = fmt.Sprintf("%s (Wipe %d - %.2f%%)", fight.Name, wipes[fight.Name], health)
			} else {
				label = fmt.Sprintf("%s (Wipe %d)", fight.Name, wipes[fight.Name])
			}
		}
		if len(label) > maxOptionLabel {
			label = label[:maxOptionLabel-3] + "..."
		}

		options = append(options, FightOption{
			ID:    fight.ID,
			Label: label,
			Kill:  fight.Kill,
		})
	}
	return options
}

func (b *Builder) fightByID(fightID int) (wcl.Fight, bool) {
	for _, fight := range b.fights {
		if fight.ID == fightID {
			return fight, true
		}
	}
	return wcl.Fight{}, false
}

// encounterLabel names a fight for the report title: "Boss (Kill)" or
// "Boss Wipe N", counting earlier wipes on the same boss.
func (b *Builder) encounterLabel(fight wcl.Fight) string {
	if fight.Kill {
		return fight.Name + " (Kill)"
	}

	wipe := 1
	for _, other := range b.fights {
		if other.Name == fight.Name && other.ID < fight.ID && !other.Kill {
			wipe++
		}
	}
	return fmt.Sprintf("%s Wipe %d", fight.Name, wipe)
}

// Performance renders the DPS or HPS table for one fight. Fights without an
// encounter id have no ranking data and are rejected with an explanatory
// message; fetch failures degrade to the no-data message.
func (b *Builder) Performance(ctx context.Context, fightID int, metric wcl.Metric) (string, error) {
	fight, ok := b.fightByID(fightID)
	if !ok {
		return "", errors.Errorf("report: unknown fight %d in %s", fightID, b.code)
	}

	if fight.EncounterID == 0 {
		return fmt.Sprintf(
			"The selected fight, **%s**, does not have rankings available (it may be a trash fight). Please select a boss kill or wipe.",
			fight.Name,
		), nil
	}

	details, err := b.client.FightDetails(ctx, b.code, fight, metric)
	if err != nil || details == nil {
		if err != nil {
			log.Printf("report: fight details for %s/%d: %+v", b.code, fightID, err)
		}
		return noDataMessage, nil
	}

	entries := make([]wcl.TableEntry, len(details.Entries))
	copy(entries, details.Entries)
	sort.SliceStable(entries, func(i, k int) bool {
		return entries[i].Total > entries[k].Total
	})

	parses, roles := ResolveRankings(details.Rankings, details.ScrapedParses)
	if len(roles) == 0 {
		roles = ResolveRolesFromPlayerDetails(details.PlayerDetails)
	}

	players := ClassifyPlayers(entries, parses, roles)

	var health *float64
	if !fight.Kill {
		if v, ok := b.bossHealth[fight.ID]; ok {
			health = &v
		}
	}

	duration := float64(fight.EndTime-fight.StartTime) / 1000

	return FormatPerformanceTable(&TableData{
		Metric:     metric,
		Encounter:  b.encounterLabel(fight),
		BossHealth: health,
		Duration:   duration,
		Entries:    players,
		Parses:     parses,
		Roles:      roles,
	}, b.pal), nil
}

// Deaths renders the death timeline for one fight. The death events and the
// role lookup are independent fetches and run concurrently; either may
// degrade to empty.
func (b *Builder) Deaths(ctx context.Context, fightID int) (string, error) {
	fight, ok := b.fightByID(fightID)
	if !ok {
		return "", errors.Errorf("report: unknown fight %d in %s", fightID, b.code)
	}

	deaths := &wcl.DeathData{
		Players:   map[int]string{},
		Abilities: map[int]string{},
	}
	roles := RoleMap{}

	parallel.Run(ctx,
		func(ctx context.Context) error {
			d, err := b.client.Deaths(ctx, b.code, fight.ID)
			if err != nil {
				log.Printf("report: deaths for %s/%d: %+v", b.code, fightID, err)
				return nil
			}
			deaths = d
			return nil
		},
		func(ctx context.Context) error {
			if fight.EncounterID == 0 {
				return nil
			}
			details, err := b.client.FightDetails(ctx, b.code, fight, wcl.MetricDPS)
			if err != nil || details == nil {
				return nil
			}
			_, r := ResolveRankings(details.Rankings, details.ScrapedParses)
			if len(r) == 0 {
				r = ResolveRolesFromPlayerDetails(details.PlayerDetails)
			}
			roles = r
			return nil
		},
	)

	label := b.encounterLabel(fight)
	if !fight.Kill {
		if health, ok := b.bossHealth[fight.ID]; ok {
			label = fmt.Sprintf("%s (%.2f%%)", label, health)
		}
	}

	return FormatDeaths(deaths, fight.StartTime, roles, label, b.pal), nil
}
