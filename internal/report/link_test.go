package report

import "testing"

func TestEncodeLink(t *testing.T) {
	tr := &Tracker{ID: 7, Sender: "Abra", Headline: "Recount - Damage Done"}
	link := EncodeLink(tr)
	if got, want := link.Payload, "report:Abra:7"; got != want {
		t.Fatalf("payload=%q want=%q", got, want)
	}
	if got, want := link.Display, "Recount - Damage Done"; got != want {
		t.Fatalf("display=%q want=%q", got, want)
	}
}

func TestDecodeLinkRoundTrip(t *testing.T) {
	tr := &Tracker{ID: 42, Sender: "Bora", Headline: "Skada: Damage"}
	ref, ok := DecodeLink(EncodeLink(tr).Payload)
	if !ok {
		t.Fatal("decode failed on own payload")
	}
	if ref.Sender != "Bora" || !ref.HasID || ref.ID != 42 {
		t.Fatalf("ref=%+v", ref)
	}
}

func TestDecodeLinkForeignPayload(t *testing.T) {
	for _, payload := range []string{"item:Abra:7", "player:Abra", "", "rep"} {
		if _, ok := DecodeLink(payload); ok {
			t.Fatalf("foreign payload decoded: %q", payload)
		}
	}
}

func TestDecodeLinkTolerantHalves(t *testing.T) {
	// Unparseable id still yields the sender.
	ref, ok := DecodeLink("report:Abra:junk")
	if !ok || ref.Sender != "Abra" || ref.HasID {
		t.Fatalf("ref=%+v ok=%v", ref, ok)
	}
	// Empty sender still yields the id.
	ref, ok = DecodeLink("report::13")
	if !ok || ref.Sender != "" || !ref.HasID || ref.ID != 13 {
		t.Fatalf("ref=%+v ok=%v", ref, ok)
	}
	// Missing id portion entirely.
	ref, ok = DecodeLink("report:Abra")
	if !ok || ref.Sender != "Abra" || ref.HasID {
		t.Fatalf("ref=%+v ok=%v", ref, ok)
	}
}
