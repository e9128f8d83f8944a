package report

import (
	"strings"

	"luminisbot/wcl"
)

// npcKeywords marks table rows that are pets, totems, or other summons.
// Only consulted when no ranking signal exists at all; the heuristic accepts
// false positives.
var npcKeywords = []string{
	"totem",
	"pet",
	"spirit",
	"minion",
	"guardian",
	"elemental",
	"wolf",
	"mirror image",
}

// heuristicMinTotal drops trivially small rows in heuristic mode.
const heuristicMinTotal = 1000

// ClassifyPlayers keeps the table entries that represent real players.
// With any ranking signal present the filter is exact: player names appear
// in the ranking data, NPC and pet names never do. Without one it falls
// back to keyword and output-size heuristics. Input order is preserved.
func ClassifyPlayers(sortedEntries []wcl.TableEntry, parses wcl.ParseMap, roles RoleMap) []wcl.TableEntry {
	if len(parses) > 0 || len(roles) > 0 {
		players := make([]wcl.TableEntry, 0, len(sortedEntries))
		for _, entry := range sortedEntries {
			_, ranked := parses[entry.Name]
			if !ranked {
				_, ranked = roles[entry.Name]
			}
			if ranked {
				players = append(players, entry)
			}
		}
		return players
	}

	return filterByHeuristics(sortedEntries)
}

func filterByHeuristics(sortedEntries []wcl.TableEntry) []wcl.TableEntry {
	players := make([]wcl.TableEntry, 0, len(sortedEntries))

entries:
	for _, entry := range sortedEntries {
		lower := strings.ToLower(entry.Name)
		for _, keyword := range npcKeywords {
			if strings.Contains(lower, keyword) {
				continue entries
			}
		}
		if entry.Total < heuristicMinTotal {
			continue
		}
		players = append(players, entry)
	}

	return players
}
