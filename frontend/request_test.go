package frontend

import "testing"

func TestReportCodePattern(t *testing.T) {
	for code, want := range map[string]bool{
		"a1B2c3D4e5F6g7H8": true,
		"abcd1234":         true,
		"short":            false,
		"":                 false,
		"../../etc/passwd": false,
		"abcd1234 extra":   false,
	} {
		if got := reReportCode.MatchString(code); got != want {
			t.Errorf("reReportCode(%q) = %v, want %v", code, got, want)
		}
	}
}

func TestAnalyzeRequestValid(t *testing.T) {
	base := analyzeRequest{Report: "a1b2c3d4", FightID: 3, Metric: "dps"}
	if !base.valid() {
		t.Fatal("base request should be valid")
	}

	for name, mutate := range map[string]func(r *analyzeRequest){
		"bad code":    func(r *analyzeRequest) { r.Report = "x" },
		"zero fight":  func(r *analyzeRequest) { r.FightID = 0 },
		"bad metric":  func(r *analyzeRequest) { r.Metric = "tps" },
		"empty":       func(r *analyzeRequest) { *r = analyzeRequest{} },
		"negative id": func(r *analyzeRequest) { r.FightID = -4 },
	} {
		r := base
		mutate(&r)
		if r.valid() {
			t.Errorf("%s: request should be invalid: %+v", name, r)
		}
	}

	for _, metric := range []string{"dps", "hps", "deaths"} {
		r := base
		r.Metric = metric
		if !r.valid() {
			t.Errorf("metric %q should be valid", metric)
		}
	}
}
