package report

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// ANSI color markers understood by Discord's fenced ansi blocks.
const (
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiBlue   = "\033[34m"
	ansiPurple = "\033[35m"
	ansiReset  = "\033[0m"
)

var ansiByName = map[string]string{
	"red":    ansiRed,
	"green":  ansiGreen,
	"yellow": ansiYellow,
	"blue":   ansiBlue,
	"purple": ansiPurple,
}

// Tier colors a percentile at or above Min.
type Tier struct {
	Min  float64
	Code string
}

// Palette holds the presentation constants: role colors and the
// item-quality percentile tiers. The defaults match WoW's quality palette;
// a YAML file can override them when retargeting another surface.
type Palette struct {
	Roles map[Role]string
	Tiers []Tier
}

func DefaultPalette() *Palette {
	return &Palette{
		Roles: map[Role]string{
			RoleDPS:    ansiRed,
			RoleHealer: ansiGreen,
			RoleTank:   ansiBlue,
		},
		Tiers: []Tier{
			{Min: 95, Code: ansiYellow},
			{Min: 75, Code: ansiPurple},
			{Min: 50, Code: ansiBlue},
			{Min: 25, Code: ansiGreen},
		},
	}
}

// RoleColor returns the ANSI code for a role, or "" for unknown roles.
func (p *Palette) RoleColor(role Role) string {
	return p.Roles[role]
}

// TierColor returns the ANSI code for a percentile value, or "" below every
// tier.
func (p *Palette) TierColor(value float64) string {
	for _, tier := range p.Tiers {
		if value >= tier.Min {
			return tier.Code
		}
	}
	return ""
}

type paletteFile struct {
	Roles map[string]string `yaml:"roles"`
	Tiers []struct {
		Min   float64 `yaml:"min"`
		Color string  `yaml:"color"`
	} `yaml:"tiers"`
}

// LoadPalette reads a palette override file. An empty path returns the
// defaults. Colors are referenced by name (red, green, yellow, blue,
// purple).
func LoadPalette(path string) (*Palette, error) {
	p := DefaultPalette()
	if path == "" {
		return p, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var file paletteFile
	err = yaml.Unmarshal(raw, &file)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	for role, colorName := range file.Roles {
		code, ok := ansiByName[colorName]
		if !ok {
			return nil, errors.Errorf("palette: unknown color %q", colorName)
		}
		p.Roles[Role(role)] = code
	}

	if len(file.Tiers) > 0 {
		tiers := make([]Tier, 0, len(file.Tiers))
		for _, t := range file.Tiers {
			code, ok := ansiByName[t.Color]
			if !ok {
				return nil, errors.Errorf("palette: unknown color %q", t.Color)
			}
			tiers = append(tiers, Tier{Min: t.Min, Code: code})
		}
		p.Tiers = tiers
	}

	return p, nil
}
