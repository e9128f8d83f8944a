package scraper

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"luminisbot/wcl"

	"github.com/PuerkitoBio/goquery"
)

const antiScrapeNotice = "Use the API at /v1/docs instead of scraping HTML"

var reTableRow = regexp.MustCompile(`^main-table-row-\d+-\d+-\d+$`)

func metricPath(metric wcl.Metric) string {
	if metric == wcl.MetricHPS {
		return "healing"
	}
	return "damage-done"
}

// Parses scrapes per-player parse and ilvl percentiles for one fight.
// Returns an empty map on any failure.
func (s *Scraper) Parses(ctx context.Context, reportCode string, fightID int, startTime int64, endTime int64, metric wcl.Metric) wcl.ParseMap {
	pageURL := fmt.Sprintf("%s/reports/%s?fight=%d&type=%s", s.base, reportCode, fightID, metricPath(metric))

	client, ok := s.newSession(ctx, pageURL)
	if !ok {
		return wcl.ParseMap{}
	}

	tableURL := fmt.Sprintf(
		"%s/reports/table/%s/%s/%d/%d/%d/source/0/0/0/0/0/0/-1.0.-1.-1/-1/Any/Any/0/3014",
		s.base, metricPath(metric), reportCode, fightID, startTime, endTime,
	)

	body := s.ajax(ctx, client, tableURL, pageURL)
	if body == nil {
		return wcl.ParseMap{}
	}
	if bytes.Contains(body, []byte(antiScrapeNotice)) {
		return wcl.ParseMap{}
	}
	if len(body) < 500 {
		return wcl.ParseMap{}
	}

	return parseTable(body)
}

// parseTable extracts name -> percentiles from the rendered table HTML.
func parseTable(body []byte) wcl.ParseMap {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return wcl.ParseMap{}
	}

	table := doc.Find("table#main-table-0").First()
	if table.Length() == 0 {
		doc.Find("table").EachWithBreak(func(_ int, t *goquery.Selection) bool {
			if t.Find("tr").Length() > 5 {
				table = t
				return false
			}
			return true
		})
	}
	if table.Length() == 0 {
		return wcl.ParseMap{}
	}

	rows := table.Find("tr").FilterFunction(func(_ int, row *goquery.Selection) bool {
		id, _ := row.Attr("id")
		return reTableRow.MatchString(id)
	})
	if rows.Length() == 0 {
		rows = table.Find("tr.odd, tr.even").FilterFunction(func(_ int, row *goquery.Selection) bool {
			id, ok := row.Attr("id")
			return ok && !strings.Contains(id, "totals")
		})
	}
	if rows.Length() == 0 {
		return wcl.ParseMap{}
	}

	parses := make(wcl.ParseMap, rows.Length())
	rows.Each(func(_ int, row *goquery.Selection) {
		name := strings.TrimSpace(row.Find("td.main-table-name a[href='#']").First().Text())
		if name == "" {
			return
		}

		info := wcl.ParseInfo{
			RankPercent:    cellPercent(row, "td.main-table-performance"),
			BracketPercent: cellPercent(row, "td.main-table-ilvl-performance"),
		}
		if info.RankPercent == nil && info.BracketPercent == nil {
			return
		}
		parses[name] = info
	})

	return parses
}

func cellPercent(row *goquery.Selection, selector string) *float64 {
	text := strings.TrimSpace(row.Find(selector + " a").First().Text())
	if text == "" {
		return nil
	}

	var digits strings.Builder
	for _, c := range text {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	if digits.Len() == 0 {
		return nil
	}

	n, err := strconv.Atoi(digits.String())
	if err != nil {
		return nil
	}
	v := float64(n)
	return &v
}
