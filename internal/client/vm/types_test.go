package vm

import (
	"encoding/json"
	"testing"
)

func TestSample_GetIdent(t *testing.T) {
	tests := []struct {
		name   string
		labels Metric
		want   string
	}{
		{"ident_first", Metric{"ident": "a", "host": "b", "instance": "c"}, "a"},
		{"host_fallback", Metric{"host": "b", "instance": "c"}, "b"},
		{"instance_fallback", Metric{"instance": "c:9100"}, "c:9100"},
		{"none", Metric{"path": "/"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Sample{Metric: tt.labels}
			if got := s.GetIdent(); got != tt.want {
				t.Errorf("GetIdent() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSampleValue_Value(t *testing.T) {
	if v, err := (SampleValue{1.0, "42.5"}).Value(); err != nil || v != 42.5 {
		t.Errorf("Value() = %v, %v; want 42.5", v, err)
	}
	if v, err := (SampleValue{1.0, 7.0}).Value(); err != nil || v != 7 {
		t.Errorf("Value() = %v, %v; want 7", v, err)
	}
	if _, err := (SampleValue{1.0, "x"}).Value(); err == nil {
		t.Error("expected error for unparsable value")
	}
	if _, err := (SampleValue{1.0, nil}).Value(); err == nil {
		t.Error("expected error for missing value")
	}
}

func TestParseQueryResults_RejectsMatrix(t *testing.T) {
	resp := &QueryResponse{Status: "success", Data: QueryData{ResultType: "matrix"}}
	if _, err := ParseQueryResults(resp); err == nil {
		t.Error("expected error for matrix result")
	}
}

func TestHostFilter_Matchers(t *testing.T) {
	var nilFilter *HostFilter
	if !nilFilter.IsEmpty() || nilFilter.Matchers() != nil {
		t.Error("nil filter should be empty")
	}

	f := &HostFilter{
		Idents:         []string{"web.01", "web.02"},
		BusinessGroups: []string{"存储集群"},
		Tags:           map[string]string{"zone": "b", "env": `pr"od`},
	}
	got := f.Matchers()
	want := []string{
		`ident=~"web\\.01|web\\.02"`,
		`busigroup=~"存储集群"`,
		`env="pr\"od"`,
		`zone="b"`,
	}
	if len(got) != len(want) {
		t.Fatalf("Matchers() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Matchers()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestQueryResponse_JSONParsing(t *testing.T) {
	body := `{
		"status": "success",
		"data": {
			"resultType": "vector",
			"result": [
				{"metric": {"ident": "db-01", "path": "/", "device": "/dev/sda1", "fstype": "ext4"}, "value": [1700000000.123, "1024"]}
			]
		}
	}`

	var resp QueryResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("unmarshal error: %v", err)
	}

	results, err := ParseQueryResults(&resp)
	if err != nil {
		t.Fatalf("ParseQueryResults() error = %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	r := results[0]
	if r.Ident != "db-01" || r.Value != 1024 || r.Label("fstype") != "ext4" {
		t.Errorf("unexpected result: %+v", r)
	}
}
