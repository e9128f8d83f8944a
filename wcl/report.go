package wcl

import (
	"context"

	"github.com/pkg/errors"
)

// Fights lists the boss encounters of a report, trash excluded by the
// killType filter on the server side.
func (c *Client) Fights(ctx context.Context, reportCode string) ([]Fight, error) {
	tmplData := struct {
		Code string
	}{
		Code: reportCode,
	}

	var resp reportEnvelope
	err := c.call(ctx, tmplFights, &tmplData, &resp)
	if err != nil {
		return nil, err
	}
	if resp.hasErrors() {
		return nil, errors.Errorf("wcl: fights query failed: %s", resp.Errors[0].Message)
	}

	return resp.Data.ReportData.Report.Fights, nil
}

// FightDetails fetches the combat table plus the ranking and player-detail
// fragments for one fight. The fragments stay untyped; shape resolution is
// the caller's job.
func (c *Client) FightDetails(ctx context.Context, reportCode string, fightID int, metric Metric) (*FightDetails, error) {
	tmplData := struct {
		Code          string
		FightID       int
		TableDataType string
		Metric        Metric
	}{
		Code:          reportCode,
		FightID:       fightID,
		TableDataType: metric.TableDataType(),
		Metric:        metric,
	}

	var resp reportEnvelope
	err := c.call(ctx, tmplFightDetails, &tmplData, &resp)
	if err != nil {
		return nil, err
	}
	if resp.hasErrors() {
		return nil, errors.Errorf("wcl: fight details query failed: %s", resp.Errors[0].Message)
	}

	report := &resp.Data.ReportData.Report
	return &FightDetails{
		Entries:       entriesFromTable(report.Table),
		Rankings:      report.Rankings,
		PlayerDetails: report.PlayerDetails,
	}, nil
}

// Deaths fetches the death events of one fight along with the actor and
// ability lookup tables. When the primary Deaths query returns a GraphQL
// error or an empty event list, the filter-expression query is tried once.
func (c *Client) Deaths(ctx context.Context, reportCode string, fightID int) (*DeathData, error) {
	tmplData := struct {
		Code    string
		FightID int
	}{
		Code:    reportCode,
		FightID: fightID,
	}

	var resp reportEnvelope
	err := c.call(ctx, tmplDeaths, &tmplData, &resp)
	if err != nil {
		return nil, err
	}

	if resp.hasErrors() || len(resp.Data.ReportData.Report.Events.Data) == 0 {
		resp = reportEnvelope{}
		err = c.call(ctx, tmplDeathsByFilter, &tmplData, &resp)
		if err != nil {
			return nil, err
		}
		if resp.hasErrors() {
			return &DeathData{
				Players:   map[int]string{},
				Abilities: map[int]string{},
			}, nil
		}
	}

	report := &resp.Data.ReportData.Report

	players := make(map[int]string, len(report.MasterData.Actors))
	for _, actor := range report.MasterData.Actors {
		if actor.Type == "Player" {
			players[actor.ID] = actor.Name
		}
	}

	abilities := make(map[int]string, len(report.MasterData.Abilities))
	for _, ability := range report.MasterData.Abilities {
		abilities[ability.GameID] = ability.Name
	}

	return &DeathData{
		Events:    report.Events.Data,
		Players:   players,
		Abilities: abilities,
	}, nil
}

// LatestReport returns the most recent log uploaded for a guild, or nil when
// the guild has none.
func (c *Client) LatestReport(ctx context.Context, guildID int) (*Report, error) {
	tmplData := struct {
		GuildID int
	}{
		GuildID: guildID,
	}

	var resp reportEnvelope
	err := c.call(ctx, tmplLatestReport, &tmplData, &resp)
	if err != nil {
		return nil, err
	}
	if resp.hasErrors() {
		return nil, errors.Errorf("wcl: reports query failed: %s", resp.Errors[0].Message)
	}

	reports := resp.Data.ReportData.Reports.Data
	if len(reports) == 0 {
		return nil, nil
	}
	return &reports[0], nil
}
