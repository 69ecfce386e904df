package observability

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func tempLog(t *testing.T) (EventLog, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.jsonl")
	log, err := NewJSONLEventLog(path)
	if err != nil {
		t.Fatalf("creating event log: %v", err)
	}
	t.Cleanup(func() { _ = log.Close() })
	return log, path
}

func TestEventLog_WriteAndRead(t *testing.T) {
	log, _ := tempLog(t)

	events := []Event{
		{Time: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC), Level: "INFO", Type: "plan.generated", Message: "plan.generated", Data: map[string]any{"months": 12}},
		{Time: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC), Level: "WARN", Type: "plan.blocked", Message: "plan.blocked"},
	}
	for _, e := range events {
		if err := log.Write(e); err != nil {
			t.Fatalf("writing event: %v", err)
		}
	}

	got, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("reading events: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 events, got %d", len(got))
	}
	if got[0].Type != "plan.generated" || got[1].Type != "plan.blocked" {
		t.Errorf("events out of order: %+v", got)
	}
	if months, ok := got[0].Data["months"].(float64); !ok || months != 12 {
		t.Errorf("data payload lost in roundtrip: %v", got[0].Data)
	}
}

func TestEventLog_Filters(t *testing.T) {
	log, _ := tempLog(t)

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		eventType := "gaps.analyzed"
		level := "INFO"
		if i%2 == 1 {
			eventType = "plan.generated"
			level = "WARN"
		}
		if err := log.Write(Event{Time: base.AddDate(0, 0, i), Level: level, Type: eventType, Message: eventType}); err != nil {
			t.Fatalf("writing event %d: %v", i, err)
		}
	}

	t.Run("by type", func(t *testing.T) {
		got, err := log.Read(EventFilter{Type: "plan.generated"})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 2 {
			t.Errorf("expected 2 plan.generated events, got %d", len(got))
		}
	})

	t.Run("by level", func(t *testing.T) {
		got, err := log.Read(EventFilter{Level: "INFO"})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 3 {
			t.Errorf("expected 3 INFO events, got %d", len(got))
		}
	})

	t.Run("by window", func(t *testing.T) {
		since := base.AddDate(0, 0, 1)
		until := base.AddDate(0, 0, 3)
		got, err := log.Read(EventFilter{Since: &since, Until: &until})
		if err != nil {
			t.Fatal(err)
		}
		if len(got) != 3 {
			t.Errorf("expected 3 events in the window, got %d", len(got))
		}
	})
}

func TestEventLog_ReadMissingFile(t *testing.T) {
	log := &jsonlEventLog{path: filepath.Join(t.TempDir(), "never-written.jsonl")}
	got, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("missing log file should read as empty: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no events, got %d", len(got))
	}
}

func TestEventLog_SkipsMalformedLines(t *testing.T) {
	log, path := tempLog(t)
	if err := log.Write(Event{Time: time.Now(), Level: "INFO", Type: "plan.generated"}); err != nil {
		t.Fatal(err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("not json\n"); err != nil {
		t.Fatal(err)
	}
	_ = f.Close()

	got, err := log.Read(EventFilter{})
	if err != nil {
		t.Fatalf("malformed lines should be skipped, not fatal: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("expected 1 valid event, got %d", len(got))
	}
}
