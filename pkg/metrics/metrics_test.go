package metrics

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPromRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	rec, err := NewPromRecorder(reg)
	if err != nil {
		t.Fatalf("create recorder: %v", err)
	}

	rec.RecordRun()
	rec.RecordGroup(3, 20*time.Millisecond)
	rec.RecordGroup(2, 10*time.Millisecond)
	rec.RecordWarning("transport_limit")
	rec.RecordWarning("transport_limit")
	rec.RecordWarning("isolated_cluster")
	rec.RecordTwoOptMoves(7)

	if got := testutil.ToFloat64(rec.runs); got != 1 {
		t.Errorf("runs = %v, want 1", got)
	}
	if got := testutil.ToFloat64(rec.groups); got != 2 {
		t.Errorf("groups = %v, want 2", got)
	}
	if got := testutil.ToFloat64(rec.clusters); got != 5 {
		t.Errorf("clusters = %v, want 5", got)
	}
	if got := testutil.ToFloat64(rec.moves); got != 7 {
		t.Errorf("moves = %v, want 7", got)
	}

	expected := `
# HELP planner_warnings_total Total number of planning warnings by kind
# TYPE planner_warnings_total counter
planner_warnings_total{kind="isolated_cluster"} 1
planner_warnings_total{kind="transport_limit"} 2
`
	if err := testutil.CollectAndCompare(rec.warnings, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}

	if c := testutil.CollectAndCount(rec.groupDuration); c == 0 {
		t.Errorf("group duration not recorded")
	}
}

func TestPromRecorderReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPromRecorder(reg)
	if err != nil {
		t.Fatalf("first recorder: %v", err)
	}
	second, err := NewPromRecorder(reg)
	if err != nil {
		t.Fatalf("second recorder: %v", err)
	}

	first.RecordRun()
	second.RecordRun()
	if got := testutil.ToFloat64(first.runs); got != 2 {
		t.Errorf("shared runs counter = %v, want 2", got)
	}
}

func TestNopRecorder(t *testing.T) {
	var r Recorder = NopRecorder{}
	r.RecordRun()
	r.RecordGroup(1, time.Second)
	r.RecordWarning("x")
	r.RecordTwoOptMoves(1)
}
