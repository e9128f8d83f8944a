package wcl

// Metric selects which combat table a report view is built from.
type Metric string

const (
	MetricDPS Metric = "dps"
	MetricHPS Metric = "hps"
)

func (m Metric) TableDataType() string {
	if m == MetricHPS {
		return "Healing"
	}
	return "DamageDone"
}

// Fight is one pull inside a report. EncounterID 0 marks unrated trash;
// such fights carry no ranking data.
type Fight struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Kill        bool   `json:"kill"`
	StartTime   int64  `json:"startTime"`
	EndTime     int64  `json:"endTime"`
	EncounterID int    `json:"encounterID"`
	Difficulty  int    `json:"difficulty"`
}

// TableEntry is one row of the combat table for one actor. The rows may
// include pets and NPCs; classification happens downstream.
type TableEntry struct {
	Name         string
	Total        float64
	ActiveTimeMS float64
	Overheal     float64
}

// ParseInfo carries the two percentile ranks for one player. Nil means the
// source had no value.
type ParseInfo struct {
	RankPercent    *float64
	BracketPercent *float64
}

type ParseMap map[string]ParseInfo

// FightDetails is the normalized result of one fight-details fetch. Rankings
// and PlayerDetails stay loosely typed: the API nests them inconsistently
// and the resolver probes the known shapes in order.
type FightDetails struct {
	Entries       []TableEntry
	Rankings      interface{}
	PlayerDetails interface{}
	ScrapedParses ParseMap
}

type DeathEvent struct {
	Type                 string `json:"type"`
	TargetID             int    `json:"targetID"`
	Timestamp            int64  `json:"timestamp"`
	KillingAbilityGameID *int   `json:"killingAbilityGameID"`
}

type DeathData struct {
	Events    []DeathEvent
	Players   map[int]string
	Abilities map[int]string
}

// Report is the summary row returned by the latest-guild-report lookup.
type Report struct {
	Code      string `json:"code"`
	Title     string `json:"title"`
	StartTime int64  `json:"startTime"`
	Owner     struct {
		Name string `json:"name"`
	} `json:"owner"`
}

////////////////////////////////////////////////////////////////////////////////////////////////////

// reportEnvelope covers every report query this client issues; fields the
// query did not ask for stay zero. A populated Errors array in an otherwise
// 200 response means "no data" and triggers the documented fallbacks.
type reportEnvelope struct {
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Data struct {
		ReportData struct {
			Report struct {
				Table         interface{} `json:"table"`
				Rankings      interface{} `json:"rankings"`
				PlayerDetails interface{} `json:"playerDetails"`
				Fights        []Fight     `json:"fights"`
				Events        struct {
					Data []DeathEvent `json:"data"`
				} `json:"events"`
				MasterData struct {
					Actors []struct {
						ID   int    `json:"id"`
						Name string `json:"name"`
						Type string `json:"type"`
					} `json:"actors"`
					Abilities []struct {
						GameID int    `json:"gameID"`
						Name   string `json:"name"`
					} `json:"abilities"`
				} `json:"masterData"`
			} `json:"report"`
			Reports struct {
				Data []Report `json:"data"`
			} `json:"reports"`
		} `json:"reportData"`
	} `json:"data"`
}

func (r *reportEnvelope) hasErrors() bool {
	return len(r.Errors) > 0
}

// entriesFromTable digs the entry rows out of the loosely typed table
// fragment (table.data.entries). Anything that does not match yields nil.
func entriesFromTable(table interface{}) []TableEntry {
	m, ok := table.(map[string]interface{})
	if !ok {
		return nil
	}
	data, ok := m["data"].(map[string]interface{})
	if !ok {
		return nil
	}
	rows, ok := data["entries"].([]interface{})
	if !ok {
		return nil
	}

	entries := make([]TableEntry, 0, len(rows))
	for _, row := range rows {
		rm, ok := row.(map[string]interface{})
		if !ok {
			continue
		}
		name, ok := rm["name"].(string)
		if !ok {
			continue
		}

		e := TableEntry{
			Name:  name,
			Total: number(rm["total"]),
		}
		if v, ok := rm["activeTime"]; ok {
			e.ActiveTimeMS = number(v)
		} else {
			e.ActiveTimeMS = number(rm["uptime"])
		}
		e.Overheal = number(rm["overheal"])

		entries = append(entries, e)
	}
	return entries
}

func number(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return 0
}
