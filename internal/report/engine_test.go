package report

import (
	"fmt"
	"testing"
	"time"
)

func newTestEngine() *Engine {
	return NewEngine(Options{Grace: time.Second})
}

func TestEngineCaptureScenario(t *testing.T) {
	e := newTestEngine()

	res := e.FilterLine(ChannelParty, "Abra", "Recount - Damage Done")
	if res.Suppress {
		t.Fatal("headline suppressed, want rewrite")
	}
	if res.Link == nil {
		t.Fatal("headline did not produce a link")
	}
	if got, want := res.Link.Display, "Recount - Damage Done"; got != want {
		t.Fatalf("display=%q want=%q", got, want)
	}

	if res := e.FilterLine(ChannelParty, "Abra", "1. Abra   1000"); !res.Suppress {
		t.Fatal("valid data line not suppressed")
	}
	// Expected 2, got 3: passes through, tracker untouched.
	if res := e.FilterLine(ChannelParty, "Abra", "3. Bora   500"); res.Suppress {
		t.Fatal("out-of-order line suppressed")
	}
	if got, want := len(e.Registry().LookupActiveBySender("Abra").Lines), 1; got != want {
		t.Fatalf("lines=%d want=%d", got, want)
	}

	e.Tick(time.Second)

	payload := "report:Abra:1"
	rows, handled := e.ActivateLink(payload, nil)
	if !handled {
		t.Fatal("own payload not handled")
	}
	if got, want := len(rows), 3; got != want {
		t.Fatalf("rows=%d want=%d", got, want)
	}
	if rows[0].Left != "Recount - Damage Done" || !rows[1].Spacer {
		t.Fatalf("rows=%+v", rows[:2])
	}
	if rows[2].Left != "1. Abra" || rows[2].Right != "1000" {
		t.Fatalf("data row=%+v", rows[2])
	}
}

func TestEngineTwoSendersSameTick(t *testing.T) {
	e := newTestEngine()

	ra := e.FilterLine(ChannelRaid, "A", "Recount - Damage Done")
	rb := e.FilterLine(ChannelRaid, "B", "Recount - Damage Done")
	if ra.Link == nil || rb.Link == nil {
		t.Fatal("missing links")
	}
	if ra.Link.Payload == rb.Link.Payload {
		t.Fatalf("senders share payload %q", ra.Link.Payload)
	}

	e.FilterLine(ChannelRaid, "A", "1. OnlyA   10")
	e.FilterLine(ChannelRaid, "B", "1. OnlyB   20")
	e.Tick(time.Second)

	rowsA, _ := e.ActivateLink(ra.Link.Payload, nil)
	rowsB, _ := e.ActivateLink(rb.Link.Payload, nil)
	if rowsA[2].Left != "1. OnlyA" || rowsB[2].Left != "1. OnlyB" {
		t.Fatalf("cross-contamination: %+v %+v", rowsA[2], rowsB[2])
	}
}

func TestEngineIgnoresUnwatchedChannel(t *testing.T) {
	e := NewEngine(Options{Channels: []Channel{ChannelParty}})
	res := e.FilterLine(ChannelGuild, "Abra", "Recount - Damage Done")
	if res.Suppress || res.Link != nil {
		t.Fatalf("unwatched channel filtered: %+v", res)
	}
	if got, want := e.Registry().ActiveCount(), 0; got != want {
		t.Fatalf("active=%d want=%d", got, want)
	}
}

func TestEngineResolutionPrecedence(t *testing.T) {
	e := newTestEngine()

	// First report from Abra, finalized as id 1.
	e.FilterLine(ChannelParty, "Abra", "Recount - Damage Done")
	e.FilterLine(ChannelParty, "Abra", "1. First   100")
	e.Tick(time.Second)

	// Second report from Abra, still active.
	e.FilterLine(ChannelParty, "Abra", "Recount - Healing Done")
	e.FilterLine(ChannelParty, "Abra", "1. Second   200")

	// Both an id match and an active sender match exist; id wins.
	rows, handled := e.ActivateLink("report:Abra:1", nil)
	if !handled {
		t.Fatal("payload not handled")
	}
	if rows[2].Left != "1. First" {
		t.Fatalf("id lookup did not win: %+v", rows[2])
	}

	// Broken id falls back to the active tracker.
	rows, handled = e.ActivateLink("report:Abra:nope", nil)
	if !handled {
		t.Fatal("payload not handled")
	}
	if rows[2].Left != "1. Second" {
		t.Fatalf("sender fallback failed: %+v", rows[2])
	}
}

func TestEngineClickBeforeSweep(t *testing.T) {
	e := newTestEngine()
	res := e.FilterLine(ChannelParty, "Abra", "Skada: Damage for Boss")
	e.FilterLine(ChannelParty, "Abra", "1. Abra   1000")

	rows, handled := e.ActivateLink(res.Link.Payload, nil)
	if !handled {
		t.Fatal("payload not handled")
	}
	if len(rows) != 3 || rows[2].Left != "1. Abra" {
		t.Fatalf("in-progress report did not resolve: %+v", rows)
	}
}

func TestEngineDelegatesForeignPayload(t *testing.T) {
	e := newTestEngine()
	var delegated string
	rows, handled := e.ActivateLink("item:Thunderfury:19019", func(p string) {
		delegated = p
	})
	if handled || rows != nil {
		t.Fatalf("foreign payload handled: %v %v", handled, rows)
	}
	if got, want := delegated, "item:Thunderfury:19019"; got != want {
		t.Fatalf("delegated=%q want=%q", got, want)
	}
}

func TestEngineStaleReferenceRendersEmpty(t *testing.T) {
	e := NewEngine(Options{Grace: time.Second, Retain: 1})
	first := e.FilterLine(ChannelParty, "A", "Recount - Damage Done")
	e.Tick(time.Second)
	e.FilterLine(ChannelParty, "B", "Recount - Damage Done")
	e.Tick(time.Second)

	// A's tracker was evicted by the retention bound and A has nothing
	// active; the click is a recoverable no-op.
	rows, handled := e.ActivateLink(first.Link.Payload, nil)
	if !handled {
		t.Fatal("own payload not handled")
	}
	if len(rows) != 0 {
		t.Fatalf("stale reference rendered %d rows", len(rows))
	}
}

func TestEngineTickReturnsFinalized(t *testing.T) {
	e := newTestEngine()
	e.FilterLine(ChannelParty, "Abra", "Recount - Damage Done")

	if got := e.Tick(500 * time.Millisecond); len(got) != 0 {
		t.Fatalf("tick inside grace finalized %d trackers", len(got))
	}
	finalized := e.Tick(500 * time.Millisecond)
	if len(finalized) != 1 {
		t.Fatalf("finalized=%d want=1", len(finalized))
	}
	tr := finalized[0]
	if tr.Sender != "Abra" || tr.Producer != ProducerRecount || tr.ID != 1 {
		t.Fatalf("finalized tracker=%+v", tr)
	}
}

func TestEngineZeroRetainKeepsEverything(t *testing.T) {
	e := NewEngine(Options{Grace: time.Second, Retain: 0})
	const reports = 250
	for i := 0; i < reports; i++ {
		e.FilterLine(ChannelParty, fmt.Sprintf("s%d", i), "Skada: Damage")
	}
	e.Tick(time.Second)

	if got := e.Registry().FinalizedCount(); got != reports {
		t.Fatalf("finalized=%d want=%d", got, reports)
	}
	if e.Registry().LookupByID(1) == nil {
		t.Fatal("oldest report evicted under unlimited retention")
	}
}

func TestEngineGraceDelaysFinalization(t *testing.T) {
	e := NewEngine(Options{Grace: 2 * time.Second})
	e.FilterLine(ChannelParty, "Abra", "Recount - Damage Done")

	e.Tick(time.Second)
	if e.Registry().ActiveCount() != 1 {
		t.Fatal("tracker finalized before grace elapsed")
	}
	if res := e.FilterLine(ChannelParty, "Abra", "1. Abra   1000"); !res.Suppress {
		t.Fatal("data line rejected inside grace period")
	}

	e.Tick(time.Second)
	if e.Registry().FinalizedCount() != 1 {
		t.Fatal("tracker not finalized after grace elapsed")
	}
}
