package report

import "testing"

func TestClassifyKnownHeadlines(t *testing.T) {
	cases := []struct {
		line     string
		producer Producer
	}{
		{"Recount - Damage Done", ProducerRecount},
		{"Recount - Healing Done", ProducerRecount},
		{"Skada: Damage for Lich King", ProducerSkada},
	}
	for _, tc := range cases {
		got, ok := Classify(tc.line)
		if !ok {
			t.Fatalf("Classify(%q) did not match", tc.line)
		}
		if got != tc.producer {
			t.Fatalf("Classify(%q)=%q want=%q", tc.line, got, tc.producer)
		}
	}
}

func TestClassifyRejectsOrdinaryChat(t *testing.T) {
	for _, line := range []string{
		"hello there",
		"recount - damage done",
		"Recount-Damage Done",
		"1. Abra   1000",
		"",
		"Skada:no space",
	} {
		if _, ok := Classify(line); ok {
			t.Fatalf("Classify(%q) matched, want no match", line)
		}
	}
}
