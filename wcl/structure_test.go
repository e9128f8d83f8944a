package wcl

import (
	"testing"

	jsoniter "github.com/json-iterator/go"
)

func TestMetricTableDataType(t *testing.T) {
	if MetricDPS.TableDataType() != "DamageDone" {
		t.Error("dps should map to DamageDone")
	}
	if MetricHPS.TableDataType() != "Healing" {
		t.Error("hps should map to Healing")
	}
}

func TestEntriesFromTable(t *testing.T) {
	var table interface{}
	err := jsoniter.UnmarshalFromString(`{"data":{"entries":[
		{"name":"Zugzug","total":9000000,"activeTime":280000},
		{"name":"Lightmender","total":3000000,"uptime":240000,"overheal":1000000},
		{"total":12345},
		"not an object"
	]}}`, &table)
	if err != nil {
		t.Fatal(err)
	}

	entries := entriesFromTable(table)

	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2: %+v", len(entries), entries)
	}
	if entries[0].Name != "Zugzug" || entries[0].Total != 9000000 || entries[0].ActiveTimeMS != 280000 {
		t.Errorf("wrong first entry: %+v", entries[0])
	}
	if entries[1].ActiveTimeMS != 240000 || entries[1].Overheal != 1000000 {
		t.Errorf("uptime/overheal lost: %+v", entries[1])
	}
}

func TestEntriesFromTableBadShapes(t *testing.T) {
	for name, raw := range map[string]string{
		"scalar":       `42`,
		"no data":      `{"entries":[]}`,
		"data scalar":  `{"data":7}`,
		"entries text": `{"data":{"entries":"oops"}}`,
	} {
		t.Run(name, func(t *testing.T) {
			var table interface{}
			err := jsoniter.UnmarshalFromString(raw, &table)
			if err != nil {
				t.Fatal(err)
			}
			if entries := entriesFromTable(table); entries != nil {
				t.Errorf("got %+v, want nil", entries)
			}
		})
	}

	if entries := entriesFromTable(nil); entries != nil {
		t.Errorf("nil table should yield nil, got %+v", entries)
	}
}
