package report

import (
	"testing"

	"luminisbot/wcl"

	jsoniter "github.com/json-iterator/go"
)

func decode(t *testing.T, raw string) interface{} {
	t.Helper()

	var v interface{}
	err := jsoniter.UnmarshalFromString(raw, &v)
	if err != nil {
		t.Fatal(err)
	}
	return v
}

const rankingCore = `[{"roles":{` +
	`"dps":{"characters":[{"name":"Zugzug","rankPercent":97,"bracketPercent":88}]},` +
	`"healers":{"characters":[{"name":"Lightmender","rankPercent":64}]},` +
	`"tanks":{"characters":[{"name":"Ironhide","rankPercent":42,"bracketPercent":12}]}}}]`

func TestResolveRankingsShapes(t *testing.T) {
	variants := map[string]string{
		"list":               rankingCore,
		"data list":          `{"data":` + rankingCore + `}`,
		"data.rankings":      `{"data":{"rankings":` + rankingCore + `}}`,
		"data.rankings.data": `{"data":{"rankings":{"data":` + rankingCore + `}}}`,
		"rankings":           `{"rankings":` + rankingCore + `}`,
		"rankings.data":      `{"rankings":{"data":` + rankingCore + `}}`,
	}

	for name, raw := range variants {
		t.Run(name, func(t *testing.T) {
			parses, roles := ResolveRankings(decode(t, raw), nil)

			if len(parses) != 3 {
				t.Fatalf("got %d parses, want 3", len(parses))
			}
			if len(roles) != 3 {
				t.Fatalf("got %d roles, want 3", len(roles))
			}

			if roles["Zugzug"] != RoleDPS || roles["Lightmender"] != RoleHealer || roles["Ironhide"] != RoleTank {
				t.Fatalf("wrong roles: %v", roles)
			}

			zug := parses["Zugzug"]
			if zug.RankPercent == nil || *zug.RankPercent != 97 {
				t.Errorf("Zugzug rankPercent = %v, want 97", zug.RankPercent)
			}
			if zug.BracketPercent == nil || *zug.BracketPercent != 88 {
				t.Errorf("Zugzug bracketPercent = %v, want 88", zug.BracketPercent)
			}
			if parses["Lightmender"].BracketPercent != nil {
				t.Error("Lightmender should have no bracketPercent")
			}
		})
	}
}

func TestResolveRankingsScrapedWins(t *testing.T) {
	rank := 50.0
	scraped := wcl.ParseMap{
		"Zugzug": {RankPercent: &rank},
	}

	parses, roles := ResolveRankings(decode(t, rankingCore), scraped)

	if len(parses) != 1 {
		t.Fatalf("got %d parses, want the scraped map only", len(parses))
	}
	if parses["Zugzug"].RankPercent == nil || *parses["Zugzug"].RankPercent != 50 {
		t.Errorf("scraped percent lost: %v", parses["Zugzug"])
	}
	if len(roles) != 0 {
		t.Errorf("role inference should be skipped with scraped data, got %v", roles)
	}
}

func TestResolveRankingsAbsent(t *testing.T) {
	for name, raw := range map[string]string{
		"unrelated object": `{"foo":1}`,
		"empty rankings":   `{"data":{"rankings":{}}}`,
		"empty list":       `[]`,
		"scalar":           `42`,
		"roleless record":  `[{"spec":"Fury"}]`,
	} {
		t.Run(name, func(t *testing.T) {
			parses, roles := ResolveRankings(decode(t, raw), nil)
			if len(parses) != 0 || len(roles) != 0 {
				t.Errorf("got %v / %v, want empty", parses, roles)
			}
		})
	}

	parses, roles := ResolveRankings(nil, nil)
	if len(parses) != 0 || len(roles) != 0 {
		t.Errorf("nil input should yield empty maps")
	}
}

func TestResolveRankingsIgnoresUnknownRoleKeys(t *testing.T) {
	raw := `[{"roles":{` +
		`"ranged":{"characters":[{"name":"Intruder","rankPercent":99}]},` +
		`"dps":{"characters":[{"name":"Zugzug","rankPercent":97}]}}}]`

	parses, roles := ResolveRankings(decode(t, raw), nil)

	if _, ok := parses["Intruder"]; ok {
		t.Error("unknown role group should be ignored")
	}
	if roles["Zugzug"] != RoleDPS {
		t.Errorf("known role group lost: %v", roles)
	}
}

func TestResolveRolesFromPlayerDetails(t *testing.T) {
	core := `{"tanks":[{"name":"Ironhide"}],"dps":[{"name":"Zugzug"}],"healers":[{"name":"Lightmender"}]}`

	variants := map[string]string{
		"direct":             core,
		"data":               `{"data":` + core + `}`,
		"data.playerDetails": `{"data":{"playerDetails":` + core + `}}`,
	}

	for name, raw := range variants {
		t.Run(name, func(t *testing.T) {
			roles := ResolveRolesFromPlayerDetails(decode(t, raw))

			if len(roles) != 3 {
				t.Fatalf("got %d roles, want 3", len(roles))
			}
			if roles["Ironhide"] != RoleTank || roles["Zugzug"] != RoleDPS || roles["Lightmender"] != RoleHealer {
				t.Fatalf("wrong roles: %v", roles)
			}
		})
	}

	if roles := ResolveRolesFromPlayerDetails(nil); len(roles) != 0 {
		t.Errorf("nil input should yield empty map, got %v", roles)
	}
	if roles := ResolveRolesFromPlayerDetails(decode(t, `[1,2]`)); len(roles) != 0 {
		t.Errorf("non-object input should yield empty map, got %v", roles)
	}
}
