// Package report is the fight-performance report builder: it resolves the
// inconsistently nested ranking payloads, classifies table rows into real
// players, and renders the fixed-width colored tables.
package report

import "luminisbot/wcl"

// Role is the simplified role string used for name coloring.
type Role string

const (
	RoleDPS    Role = "dps"
	RoleHealer Role = "healer"
	RoleTank   Role = "tank"
)

type RoleMap map[string]Role

// roleKeys maps the API's role group names to simplified roles. Keys not
// listed here are ignored.
var roleKeys = map[string]Role{
	"dps":     RoleDPS,
	"healers": RoleHealer,
	"tanks":   RoleTank,
}

// rankingShapes are the known nestings of the ranking payload, in priority
// order. Each matcher either produces the ranking list or passes.
var rankingShapes = []func(interface{}) ([]interface{}, bool){
	// Already a list.
	func(v interface{}) ([]interface{}, bool) {
		l, ok := v.([]interface{})
		return l, ok
	},
	// {"data": [...]}
	func(v interface{}) ([]interface{}, bool) {
		l, ok := dig(v, "data").([]interface{})
		return l, ok
	},
	// {"data": {"rankings": [...]}}
	func(v interface{}) ([]interface{}, bool) {
		l, ok := dig(v, "data", "rankings").([]interface{})
		return l, ok
	},
	// {"data": {"rankings": {"data": [...]}}}
	func(v interface{}) ([]interface{}, bool) {
		l, ok := dig(v, "data", "rankings", "data").([]interface{})
		return l, ok
	},
	// {"rankings": [...]}
	func(v interface{}) ([]interface{}, bool) {
		l, ok := dig(v, "rankings").([]interface{})
		return l, ok
	},
	// {"rankings": {"data": [...]}}
	func(v interface{}) ([]interface{}, bool) {
		l, ok := dig(v, "rankings", "data").([]interface{})
		return l, ok
	},
}

// dig walks nested maps by key, returning nil as soon as a step is not a map
// or the key is absent.
func dig(v interface{}, keys ...string) interface{} {
	for _, key := range keys {
		m, ok := v.(map[string]interface{})
		if !ok {
			return nil
		}
		v, ok = m[key]
		if !ok {
			return nil
		}
	}
	return v
}

// findRankingList probes the shapes in order; the first structural match
// wins. No match means the rankings are simply absent, never an error.
func findRankingList(rankingData interface{}) []interface{} {
	if rankingData == nil {
		return nil
	}
	for _, match := range rankingShapes {
		if list, ok := match(rankingData); ok {
			return list
		}
	}
	return nil
}

// ResolveRankings extracts per-player percentile data and roles from the
// ranking payload. Scraped percentiles always win: when the scraped map is
// non-empty it is returned as-is and role inference is skipped entirely
// (the caller falls back to player details for roles).
func ResolveRankings(rankingData interface{}, scraped wcl.ParseMap) (wcl.ParseMap, RoleMap) {
	parses := wcl.ParseMap{}
	roles := RoleMap{}

	if len(scraped) > 0 {
		return scraped, roles
	}

	list := findRankingList(rankingData)
	if len(list) == 0 {
		return parses, roles
	}

	record, ok := list[0].(map[string]interface{})
	if !ok {
		return parses, roles
	}
	groups, ok := record["roles"].(map[string]interface{})
	if !ok {
		return parses, roles
	}

	for key, group := range groups {
		role, ok := roleKeys[key]
		if !ok {
			continue
		}
		characters, ok := dig(group, "characters").([]interface{})
		if !ok {
			continue
		}

		for _, c := range characters {
			char, ok := c.(map[string]interface{})
			if !ok {
				continue
			}
			name, ok := char["name"].(string)
			if !ok {
				continue
			}

			parses[name] = parseInfo(char)
			roles[name] = role
		}
	}

	return parses, roles
}

// ResolveRolesFromPlayerDetails extracts roles from the playerDetails
// fragment. Used only when the rankings yielded no roles.
func ResolveRolesFromPlayerDetails(playerDetailsData interface{}) RoleMap {
	roles := RoleMap{}

	groups, ok := playerDetailsData.(map[string]interface{})
	if !ok {
		return roles
	}
	if data, ok := groups["data"].(map[string]interface{}); ok {
		if details, ok := data["playerDetails"].(map[string]interface{}); ok {
			groups = details
		} else {
			groups = data
		}
	}

	for key, role := range roleKeys {
		players, ok := groups[key].([]interface{})
		if !ok {
			continue
		}
		for _, p := range players {
			player, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			if name, ok := player["name"].(string); ok {
				roles[name] = role
			}
		}
	}

	return roles
}

func parseInfo(char map[string]interface{}) wcl.ParseInfo {
	var info wcl.ParseInfo
	if v, ok := char["rankPercent"].(float64); ok {
		info.RankPercent = &v
	}
	if v, ok := char["bracketPercent"].(float64); ok {
		info.BracketPercent = &v
	}
	return info
}
