package scraper

import "testing"

const tableFixture = `<html><body>
<table id="main-table-0">
<tr id="main-table-row-totals-0"><td>Totals</td></tr>
<tr id="main-table-row-1-0-1" class="odd">
  <td class="main-table-performance"><a>97</a></td>
  <td class="main-table-name"><a href="#">Zugzug</a></td>
  <td class="main-table-ilvl-performance"><a>88*</a></td>
</tr>
<tr id="main-table-row-1-0-2" class="even">
  <td class="main-table-performance"><a>64</a></td>
  <td class="main-table-name"><a href="#">Lightmender</a></td>
  <td class="main-table-ilvl-performance"><a></a></td>
</tr>
<tr id="main-table-row-1-0-3" class="odd">
  <td class="main-table-performance"><a>-</a></td>
  <td class="main-table-name"><a href="#">Shadowfiend</a></td>
  <td class="main-table-ilvl-performance"><a></a></td>
</tr>
</table>
</body></html>`

func TestParseTable(t *testing.T) {
	parses := parseTable([]byte(tableFixture))

	if len(parses) != 2 {
		t.Fatalf("got %d parses, want 2: %v", len(parses), parses)
	}

	zug := parses["Zugzug"]
	if zug.RankPercent == nil || *zug.RankPercent != 97 {
		t.Errorf("Zugzug rankPercent = %v, want 97", zug.RankPercent)
	}
	// The decoration around the digits is discarded.
	if zug.BracketPercent == nil || *zug.BracketPercent != 88 {
		t.Errorf("Zugzug bracketPercent = %v, want 88", zug.BracketPercent)
	}

	light := parses["Lightmender"]
	if light.RankPercent == nil || *light.RankPercent != 64 {
		t.Errorf("Lightmender rankPercent = %v, want 64", light.RankPercent)
	}
	if light.BracketPercent != nil {
		t.Errorf("Lightmender bracketPercent = %v, want nil", light.BracketPercent)
	}

	// A row with no digits in either percentile cell is dropped.
	if _, ok := parses["Shadowfiend"]; ok {
		t.Error("percentile-less row should be dropped")
	}
}

func TestParseTableClassFallback(t *testing.T) {
	// No id-pattern rows: fall back to odd/even rows, still skipping totals.
	fixture := `<html><body>
<table><tr><td>header</td></tr><tr><td>x</td></tr><tr><td>x</td></tr>
<tr><td>x</td></tr><tr><td>x</td></tr><tr><td>x</td></tr>
<tr id="row-totals" class="odd"><td class="main-table-name"><a href="#">Total</a></td></tr>
<tr id="row-1" class="odd">
  <td class="main-table-performance"><a>42</a></td>
  <td class="main-table-name"><a href="#">Ironhide</a></td>
</tr>
</table>
</body></html>`

	parses := parseTable([]byte(fixture))

	if len(parses) != 1 {
		t.Fatalf("got %d parses, want 1: %v", len(parses), parses)
	}
	if info := parses["Ironhide"]; info.RankPercent == nil || *info.RankPercent != 42 {
		t.Errorf("Ironhide rankPercent = %v, want 42", info.RankPercent)
	}
}

func TestParseTableNoTable(t *testing.T) {
	if parses := parseTable([]byte(`<html><body><p>nothing here</p></body></html>`)); len(parses) != 0 {
		t.Errorf("got %v, want empty", parses)
	}
}
