package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWorst(t *testing.T) {
	assert.Equal(t, StateOK, Worst())
	assert.Equal(t, StateWarn, Worst(StateOK, StateWarn))
	assert.Equal(t, StateUnknown, Worst(StateWarn, StateUnknown))
	assert.Equal(t, StateCrit, Worst(StateUnknown, StateCrit, StateWarn))
}

func TestParseState(t *testing.T) {
	s, ok := ParseState("crit")
	assert.True(t, ok)
	assert.Equal(t, StateCrit, s)

	_, ok = ParseState("bogus")
	assert.False(t, ok)
}

func TestVerdict_AddPartAndLine(t *testing.T) {
	v := NewVerdict(StateOK, "75.79% used")
	v.AddPart(StateWarn, "trend per 1 day 0 hours: n/a")
	v.AddLine("2 filesystems")
	v.AddPart(StateOK, "Inodes used: 10%")

	assert.Equal(t, StateWarn, v.State)
	assert.Equal(t, []string{
		"75.79% used, trend per 1 day 0 hours: n/a, Inodes used: 10%",
		"2 filesystems",
	}, v.Lines())
}

func TestVerdict_PrependPart(t *testing.T) {
	v := NewVerdict(StateCrit, "95.00% used")
	v.AddLine("2 filesystems")
	v.PrependPart("[/dev/sda1]")
	assert.Equal(t, StateCrit, v.State)
	assert.Equal(t, "[/dev/sda1], 95.00% used\n2 filesystems", v.Summary)

	empty := Verdict{}
	empty.PrependPart("[/dev/sdb]")
	assert.Equal(t, "[/dev/sdb]", empty.Summary)
}

func TestVerdict_Metric(t *testing.T) {
	v := Verdict{}
	v.AddMetrics(NewMetric("fs_size", 10), NewMetric("fs_used", 5).WithLevels(8, 9).WithBoundaries(0, 10))

	m := v.Metric("fs_used")
	if assert.NotNil(t, m) {
		assert.Equal(t, 8.0, *m.Warn)
		assert.Equal(t, 10.0, *m.Max)
	}
	assert.Nil(t, v.Metric("missing"))
}

func TestFilesystemRecord_HasData(t *testing.T) {
	r := FilesystemRecord{SizeMB: 100, AvailMB: 10}
	assert.True(t, r.HasData())

	r.ReservedMB = math.NaN()
	assert.False(t, r.HasData(), "reserved is part of the size information")

	r.ReservedMB = 0
	r.AvailMB = math.NaN()
	assert.False(t, r.HasData())

	na := NewNARecord("/dev/sda1", "/")
	assert.False(t, na.HasData())
}

func TestInodes_Used(t *testing.T) {
	assert.Equal(t, int64(0), (*Inodes)(nil).Used())
	assert.Equal(t, int64(1654272), (&Inodes{Total: 9142272, Avail: 7488000}).Used())
	assert.Equal(t, int64(0), (&Inodes{Total: 10, Avail: 20}).Used())
}

func TestHostResult_AddItem(t *testing.T) {
	host := NewHostResult(&HostMeta{Hostname: "web-01"})
	host.AddItem(&ItemResult{Item: Item{Name: "/"}, Verdict: NewVerdict(StateOK, "ok")})
	assert.Equal(t, HostStatusNormal, host.Status)
	assert.False(t, host.HasAlerts())

	host.AddItem(&ItemResult{Item: Item{Name: "/var"}, Verdict: NewVerdict(StateCrit, "full")})
	assert.Equal(t, HostStatusCritical, host.Status)
	assert.Len(t, host.Alerts, 1)
	assert.Equal(t, "/var", host.Alerts[0].Item)
}

func TestCleanIdent(t *testing.T) {
	assert.Equal(t, "web-01", CleanIdent("web-01@10.0.0.1"))
	assert.Equal(t, "web-01", CleanIdent("web-01"))
}

func TestSortAlerts(t *testing.T) {
	alerts := []*Alert{
		{Hostname: "b", Item: "/", State: StateWarn},
		nil,
		{Hostname: "a", Item: "/var", State: StateUnknown},
		{Hostname: "b", Item: "/data", State: StateCrit},
		{Hostname: "a", Item: "/home", State: StateWarn},
		{Hostname: "a", Item: "/", State: StateWarn},
	}

	sorted := SortAlerts(alerts)

	got := make([]string, 0, len(sorted))
	for _, a := range sorted {
		got = append(got, a.Hostname+":"+a.Item)
	}
	assert.Equal(t, []string{"b:/data", "a:/var", "a:/", "a:/home", "b:/"}, got)
	assert.Equal(t, "b", alerts[0].Hostname, "input must not be reordered")
}

func TestItemResult_Line(t *testing.T) {
	v := NewVerdict(StateCrit, "Used: 95.00%")
	v.AddLine("3 filesystems")
	r := &ItemResult{Item: Item{Name: "/var"}, Verdict: v}
	assert.Equal(t, "CRIT /var - Used: 95.00% (!!)", r.Line())

	ok := &ItemResult{Item: Item{Name: "/"}, Verdict: NewVerdict(StateOK, "Used: 10.00%")}
	assert.Equal(t, "OK / - Used: 10.00%", ok.Line())
}
