package report

import (
	"fmt"
	"strings"

	"luminisbot/wcl"
)

// tableLayout gathers the presentation constants in one place. The message
// limit and the 20/30 name widths are contractual: the rendering surface
// rejects longer messages, and colored names need extra width to compensate
// for the invisible color-code characters.
type tableLayout struct {
	NameWidth        int
	ColoredNameWidth int
	RateWidth        int
	AmountWidth      int
	ActiveWidth      int
	OverhealWidth    int
	PercentWidth     int
	TimestampWidth   int

	MaxRows   int
	MaxDeaths int

	MessageLimit int
	NoticeBudget int
	HardCut      int
}

var layout = tableLayout{
	NameWidth:        20,
	ColoredNameWidth: 30,
	RateWidth:        6,
	AmountWidth:      8,
	ActiveWidth:      6,
	OverhealWidth:    8,
	PercentWidth:     3,
	TimestampWidth:   9,

	MaxRows:   25,
	MaxDeaths: 50,

	MessageLimit: 2000,
	NoticeBudget: 1950,
	HardCut:      1990,
}

const (
	headerDPS = "Parse% | Name                 | DPS      | Amount   | Active% | iLvl %"
	headerHPS = "Parse% | Name                 | HPS      | Amount   | Overheal | Active% | iLvl %"

	noTableDataMessage = "```No performance data found for this fight.```"
)

// TableData is the input of one performance table render: the classified
// player entries (already sorted by total, descending) plus the resolved
// ranking maps.
type TableData struct {
	Metric     wcl.Metric
	Encounter  string
	BossHealth *float64
	Duration   float64 // seconds
	Entries    []wcl.TableEntry
	Parses     wcl.ParseMap
	Roles      RoleMap
}

// FormatPerformanceTable renders the fixed-width colored table inside a
// fenced ansi block, never exceeding the message limit.
func FormatPerformanceTable(d *TableData, pal *Palette) string {
	if len(d.Entries) == 0 {
		return noTableDataMessage
	}

	metricLabel := strings.ToUpper(string(d.Metric))
	title := metricLabel
	if d.Encounter != "" {
		title = fmt.Sprintf("%s on %s", metricLabel, d.Encounter)
		if d.BossHealth != nil {
			title = fmt.Sprintf("%s Wipe (%.2f%%)", title, *d.BossHealth)
		}
	}

	header := headerDPS
	if d.Metric == wcl.MetricHPS {
		header = headerHPS
	}

	lines := []string{
		"```ansi\n" + title,
		strings.Repeat("=", len(title)),
		header,
		strings.Repeat("-", len(header)),
	}

	duration := d.Duration
	if duration <= 0 {
		duration = 1
	}

	rows := d.Entries
	if len(rows) > layout.MaxRows {
		rows = rows[:layout.MaxRows]
	}

	for _, entry := range rows {
		info, hasInfo := d.Parses[entry.Name]

		name := padName(colorName(entry.Name, d.Roles, pal))

		var parsePct, ilvlPct *float64
		if hasInfo {
			parsePct = info.RankPercent
			ilvlPct = info.BracketPercent
		}
		parseDisplay := colorPercent(parsePct, pal)
		ilvlDisplay := colorPercent(ilvlPct, pal)

		rate := formatRate(entry.Total, duration)
		amount := formatAmount(entry.Total)
		active := formatActive(entry.ActiveTimeMS, duration)

		if d.Metric == wcl.MetricHPS {
			overheal := formatOverheal(entry.Overheal, entry.Total)
			lines = append(lines, fmt.Sprintf("%s%%   | %s | %s | %s | %s | %s | %s%%",
				parseDisplay, name, rate, amount, overheal, active, ilvlDisplay))
		} else {
			lines = append(lines, fmt.Sprintf("%s%%   | %s | %s | %s | %s | %s%%",
				parseDisplay, name, rate, amount, active, ilvlDisplay))
		}
	}

	// The overflow note counts filtered players, not raw table rows.
	if len(d.Entries) > layout.MaxRows {
		lines = append(lines, "")
		lines = append(lines, fmt.Sprintf("(Showing top %d players - %d more players not shown)",
			layout.MaxRows, len(d.Entries)-layout.MaxRows))
	}

	lines = append(lines, "```")
	return fitMessage(strings.Join(lines, "\n"))
}

////////////////////////////////////////////////////////////////////////////////////////////////////

func colorName(name string, roles RoleMap, pal *Palette) string {
	code := pal.RoleColor(roles[name])
	if code == "" {
		return name
	}
	return code + name + ansiReset
}

// padName left-aligns a name in its column. Colored names get the wider
// field so the invisible escape codes do not break visual alignment.
func padName(name string) string {
	width := layout.NameWidth
	if strings.Contains(name, "\033[") {
		width = layout.ColoredNameWidth
	}
	return fmt.Sprintf("%-*s", width, name)
}

// colorPercent renders a percentile as a right-aligned integer ("N/A" when
// missing) and wraps, not replaces, the padded text in its tier color.
func colorPercent(value *float64, pal *Palette) string {
	if value == nil {
		return fmt.Sprintf("%*s", layout.PercentWidth, "N/A")
	}

	padded := fmt.Sprintf("%*s", layout.PercentWidth, fmt.Sprintf("%.0f", *value))
	code := pal.TierColor(*value)
	if code == "" {
		return padded
	}
	return code + padded + ansiReset
}

func formatRate(total float64, duration float64) string {
	perSecond := total / duration

	var s string
	if perSecond >= 1_000_000 {
		s = fmt.Sprintf("%.2fm", perSecond/1_000_000)
	} else {
		s = fmt.Sprintf("%.1fk", perSecond/1_000)
	}
	return fmt.Sprintf("%-*s", layout.RateWidth, s)
}

func formatAmount(total float64) string {
	var s string
	switch {
	case total >= 1_000_000_000:
		s = fmt.Sprintf("%.1fB", total/1_000_000_000)
	case total >= 1_000_000:
		s = fmt.Sprintf("%.1fM", total/1_000_000)
	case total >= 1_000:
		s = fmt.Sprintf("%.1fK", total/1_000)
	default:
		s = fmt.Sprintf("%d", int64(total))
	}
	return fmt.Sprintf("%-*s", layout.AmountWidth, s)
}

func formatActive(activeTimeMS float64, duration float64) string {
	if duration <= 0 {
		return fmt.Sprintf("%*s", layout.ActiveWidth, "N/A")
	}
	percent := activeTimeMS / 1000 / duration * 100
	return fmt.Sprintf("%*s", layout.ActiveWidth, fmt.Sprintf("%.0f%%", percent))
}

func formatOverheal(overheal float64, total float64) string {
	if total <= 0 {
		return fmt.Sprintf("%*s", layout.OverhealWidth, "N/A")
	}
	percent := overheal / (total + overheal) * 100
	return fmt.Sprintf("%*s", layout.OverhealWidth, fmt.Sprintf("%.0f%%", percent))
}

////////////////////////////////////////////////////////////////////////////////////////////////////

const truncationNotice = "\n\n(Table truncated - too many players to display)\n```"

// fitMessage enforces the message-size ceiling. Cut at the last complete
// line, terminate any open color span, re-verify, and hard-cut if the
// notice still pushed the message over.
func fitMessage(s string) string {
	if len(s) <= layout.MessageLimit {
		return s
	}

	maxContent := layout.NoticeBudget - len(truncationNotice)
	cut := s[:maxContent]
	if idx := strings.LastIndexByte(cut, '\n'); idx > 0 {
		cut = cut[:idx]
	}
	if !strings.HasSuffix(cut, ansiReset) {
		cut += ansiReset
	}

	out := cut + truncationNotice
	if len(out) > layout.MessageLimit {
		out = out[:layout.HardCut] + "\n```"
	}
	return out
}
