package domain

import (
	"encoding/json"
	"testing"
	"time"
)

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, time.July, 15)

	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-07-15"` {
		t.Fatalf("expected \"2025-07-15\", got %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("round trip mismatch: %s != %s", back, d)
	}
}

func TestDateUnmarshalNull(t *testing.T) {
	var d Date
	if err := json.Unmarshal([]byte("null"), &d); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !d.Time.IsZero() {
		t.Fatalf("expected zero date, got %s", d)
	}
}

func TestDaysUntil(t *testing.T) {
	base := NewDate(2025, time.July, 20)

	if got := base.DaysUntil(NewDate(2025, time.July, 27)); got != 7 {
		t.Fatalf("expected 7 days, got %d", got)
	}
	if got := base.DaysUntil(NewDate(2025, time.July, 15)); got != -5 {
		t.Fatalf("expected -5 days, got %d", got)
	}
	if got := base.DaysUntil(base); got != 0 {
		t.Fatalf("expected 0 days, got %d", got)
	}
}

func TestDateOfTruncates(t *testing.T) {
	ts := time.Date(2025, time.July, 20, 23, 59, 10, 0, time.UTC)
	if !DateOf(ts).Equal(NewDate(2025, time.July, 20)) {
		t.Fatalf("expected truncation to 2025-07-20, got %s", DateOf(ts))
	}
}

func TestStatusRemindable(t *testing.T) {
	if !StatusPending.Remindable() || !StatusInProgress.Remindable() {
		t.Fatal("pending and in-progress must be remindable")
	}
	if StatusCompleted.Remindable() || StatusOverdue.Remindable() {
		t.Fatal("completed and overdue must not be remindable")
	}
	if Status("Bogus").Valid() {
		t.Fatal("unknown status must not validate")
	}
}
