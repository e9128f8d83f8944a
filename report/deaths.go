package report

import (
	"fmt"
	"strings"

	"luminisbot/wcl"
)

const deathsHeader = "Timestamp | Name                 | Killing Blow"

// FormatDeaths renders the chronological death timeline of one fight.
// Timestamps are relative to the fight start; names are colored by role
// when one is known.
func FormatDeaths(d *wcl.DeathData, fightStartMS int64, roles RoleMap, encounter string, pal *Palette) string {
	deaths := make([]wcl.DeathEvent, 0, len(d.Events))
	for _, event := range d.Events {
		if event.Type == "death" {
			deaths = append(deaths, event)
		}
	}

	if len(deaths) == 0 {
		return emptyDeathsMessage(encounter)
	}

	title := "Deaths"
	if encounter != "" {
		title = "Deaths on " + encounter
	}
	lines := []string{
		"```ansi\n" + title,
		strings.Repeat("=", len(title)),
		deathsHeader,
		strings.Repeat("-", len(deathsHeader)),
	}

	total := len(deaths)
	if len(deaths) > layout.MaxDeaths {
		deaths = deaths[:layout.MaxDeaths]
	}

	for _, event := range deaths {
		relativeMS := event.Timestamp - fightStartMS
		if relativeMS < 0 {
			relativeMS = 0
		}
		relativeSec := relativeMS / 1000
		timestamp := fmt.Sprintf("%02d:%02d", relativeSec/60, relativeSec%60)

		name, ok := d.Players[event.TargetID]
		if !ok {
			name = fmt.Sprintf("Player%d", event.TargetID)
		}
		if _, known := roles[name]; known {
			name = colorName(name, roles, pal)
		}

		ability := "Unknown"
		if event.KillingAbilityGameID != nil {
			var found bool
			ability, found = d.Abilities[*event.KillingAbilityGameID]
			if !found {
				ability = fmt.Sprintf("Ability%d", *event.KillingAbilityGameID)
			}
		}

		lines = append(lines, fmt.Sprintf("%-*s | %s | %s",
			layout.TimestampWidth, timestamp, padName(name), ability))
	}

	if total > layout.MaxDeaths {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("(Showing first %d deaths - %d more deaths occurred)",
			layout.MaxDeaths, total-layout.MaxDeaths))
	}

	lines = append(lines, "```")
	return fitMessage(strings.Join(lines, "\n"))
}

func emptyDeathsMessage(encounter string) string {
	if strings.Contains(encounter, "Kill") {
		title := "Deaths on " + encounter
		return fmt.Sprintf("```ansi\n%s\n%s\n\n🎉 Flawless victory! No player deaths occurred during this fight.\n```",
			title, strings.Repeat("=", len(title)))
	}

	if encounter == "" {
		encounter = "Unknown Fight"
	}
	title := "Deaths on " + encounter
	return fmt.Sprintf("```ansi\n%s\n%s\n\nNo player deaths found for this fight.\n```",
		title, strings.Repeat("=", len(title)))
}
