package ticker

import "testing"

func TestNormalize(t *testing.T) {
	cases := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"tsla", "TSLA", true},
		{"  aapl ", "AAPL", true},
		{"GOOGL.O", "GOOGL", true},
		{"BRK.B", "BRK", true},
		{"msft.anything.else", "MSFT", true},
		{"005930.KS", "", false},
		{"BRK-B", "", false},
		{"", "", false},
		{"   ", "", false},
		{".O", "", false},
		{"T1", "", false},
		{"ÄPPL", "", false},
		{"VERYLONGWORDTICKER", "VERYLONGWORDTICKER", true},
	}

	for _, tc := range cases {
		got, ok := Normalize(tc.in)
		if ok != tc.wantOK || got != tc.want {
			t.Fatalf("Normalize(%q) = (%q, %v), want (%q, %v)", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestNormalize_Deterministic(t *testing.T) {
	a, okA := Normalize("nvda.OQ")
	b, okB := Normalize("nvda.OQ")
	if a != b || okA != okB {
		t.Fatalf("expected same output for same input, got %q/%v and %q/%v", a, okA, b, okB)
	}
}
