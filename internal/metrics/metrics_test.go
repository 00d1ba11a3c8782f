package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew(t *testing.T) {
	m := New()
	if m == nil {
		t.Fatal("New() returned nil")
	}
}

func TestDefault(t *testing.T) {
	m1 := Default()
	m2 := Default()

	if m1 != m2 {
		t.Error("Default() should return same instance")
	}
}

func TestRecordAnalysis(t *testing.T) {
	m := New()
	m.RecordAnalysis()
	m.RecordAnalysis()

	if got := testutil.ToFloat64(m.analysesTotal); got != 2 {
		t.Errorf("expected 2 analyses, got %v", got)
	}
}

func TestRecordInteraction(t *testing.T) {
	m := New()
	m.RecordInteraction("Major")
	m.RecordInteraction("Major")
	m.RecordInteraction("Minor")

	if got := testutil.ToFloat64(m.interactionsFound.WithLabelValues("Major")); got != 2 {
		t.Errorf("expected 2 Major interactions, got %v", got)
	}
	if got := testutil.ToFloat64(m.interactionsFound.WithLabelValues("Minor")); got != 1 {
		t.Errorf("expected 1 Minor interaction, got %v", got)
	}
}

func TestRecordDispatch(t *testing.T) {
	m := New()
	m.RecordDispatch("delivered", 50*time.Millisecond)
	m.RecordDispatch("failed", 10*time.Millisecond)

	if got := testutil.ToFloat64(m.dispatchTotal.WithLabelValues("delivered")); got != 1 {
		t.Errorf("expected 1 delivered dispatch, got %v", got)
	}
	if got := testutil.ToFloat64(m.dispatchTotal.WithLabelValues("failed")); got != 1 {
		t.Errorf("expected 1 failed dispatch, got %v", got)
	}
}

func TestGauges(t *testing.T) {
	m := New()
	m.SetActiveReminders(3)
	if got := testutil.ToFloat64(m.activeReminders); got != 3 {
		t.Errorf("expected 3 active reminders, got %v", got)
	}

	m.IncrementWSClients()
	m.IncrementWSClients()
	m.DecrementWSClients()
	if got := testutil.ToFloat64(m.wsClients); got != 1 {
		t.Errorf("expected 1 websocket client, got %v", got)
	}
}
