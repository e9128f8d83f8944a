package report

import (
	"fmt"
	"strings"
	"testing"

	"luminisbot/wcl"
)

func intPtr(v int) *int { return &v }

func TestFormatDeaths(t *testing.T) {
	data := &wcl.DeathData{
		Events: []wcl.DeathEvent{
			{Type: "death", TargetID: 1, Timestamp: 100_000 + 83_000, KillingAbilityGameID: intPtr(7)},
			{Type: "damage", TargetID: 1, Timestamp: 100_000 + 84_000},
			{Type: "death", TargetID: 2, Timestamp: 100_000 + 151_000},
			{Type: "death", TargetID: 3, Timestamp: 100_000 - 5_000, KillingAbilityGameID: intPtr(99)},
		},
		Players:   map[int]string{1: "Zugzug", 2: "Lightmender"},
		Abilities: map[int]string{7: "Lava Burst"},
	}
	roles := RoleMap{"Zugzug": RoleDPS}

	out := FormatDeaths(data, 100_000, roles, "Ragnaros Wipe 1", DefaultPalette())

	if !strings.HasPrefix(out, "```ansi\nDeaths on Ragnaros Wipe 1\n") {
		t.Fatalf("wrong title:\n%s", out)
	}
	if !strings.Contains(out, deathsHeader) {
		t.Fatal("missing header")
	}
	if !strings.Contains(out, "01:23") {
		t.Errorf("missing MM:SS timestamp:\n%s", out)
	}
	if !strings.Contains(out, "02:31") {
		t.Errorf("missing second timestamp:\n%s", out)
	}
	// Pre-pull death clamps to 00:00.
	if !strings.Contains(out, "00:00") {
		t.Errorf("negative timestamp not clamped:\n%s", out)
	}
	if !strings.Contains(out, "Lava Burst") {
		t.Errorf("missing ability name:\n%s", out)
	}
	// Ability 99 is missing from the master data.
	if !strings.Contains(out, "Ability99") {
		t.Errorf("missing ability fallback:\n%s", out)
	}
	// Event 2 has no killing ability at all.
	if !strings.Contains(out, "Unknown") {
		t.Errorf("missing unknown killing blow:\n%s", out)
	}
	// Player 3 is not in the actor map.
	if !strings.Contains(out, "Player3") {
		t.Errorf("missing player name fallback:\n%s", out)
	}
	if !strings.Contains(out, ansiRed+"Zugzug"+ansiReset) {
		t.Errorf("missing role-colored name:\n%q", out)
	}
	// The non-death event must not produce a row.
	if strings.Count(out, "01:24") != 0 {
		t.Errorf("non-death event rendered:\n%s", out)
	}
}

func TestFormatDeathsFlawlessVictory(t *testing.T) {
	data := &wcl.DeathData{
		Events: []wcl.DeathEvent{{Type: "damage", TargetID: 1, Timestamp: 5000}},
	}

	out := FormatDeaths(data, 0, nil, "Ragnaros (Kill)", DefaultPalette())

	if !strings.Contains(out, "🎉 Flawless victory! No player deaths occurred during this fight.") {
		t.Fatalf("missing flawless victory message:\n%s", out)
	}
	if !strings.Contains(out, "Deaths on Ragnaros (Kill)") {
		t.Errorf("missing encounter label:\n%s", out)
	}
}

func TestFormatDeathsEmptyWipe(t *testing.T) {
	out := FormatDeaths(&wcl.DeathData{}, 0, nil, "Ragnaros Wipe 2", DefaultPalette())

	if !strings.Contains(out, "No player deaths found for this fight.") {
		t.Fatalf("missing empty message:\n%s", out)
	}
	if strings.Contains(out, "Flawless") {
		t.Error("flawless message on a wipe")
	}
}

func TestFormatDeathsEmptyUnknownFight(t *testing.T) {
	out := FormatDeaths(&wcl.DeathData{}, 0, nil, "", DefaultPalette())

	if !strings.Contains(out, "Deaths on Unknown Fight") {
		t.Fatalf("missing unknown-fight fallback:\n%s", out)
	}
}

func TestFormatDeathsCap(t *testing.T) {
	data := &wcl.DeathData{Players: map[int]string{}}
	for i := 0; i < 60; i++ {
		data.Events = append(data.Events, wcl.DeathEvent{
			Type:      "death",
			TargetID:  i,
			Timestamp: int64(i) * 1000,
		})
		data.Players[i] = fmt.Sprintf("P%02d", i)
	}

	out := FormatDeaths(data, 0, nil, "Ragnaros Wipe 1", DefaultPalette())

	// 50 capped rows still overflow the message ceiling, so the size guard
	// takes over.
	if len(out) > layout.MessageLimit {
		t.Errorf("message length %d exceeds limit", len(out))
	}
	if !strings.Contains(out, "(Table truncated - too many players to display)") {
		t.Errorf("missing truncation notice:\n%s", out)
	}
	if strings.Contains(out, "P50") {
		t.Error("death past the cap rendered")
	}
	if !strings.HasSuffix(out, "```") {
		t.Error("unterminated code fence")
	}
}
