package medibot

import "testing"

func TestHasSummary(t *testing.T) {
	cases := []struct {
		reply string
		want  bool
	}{
		{"Summary: patient reports chest pain.", true},
		{"Please rest. summary: mild palpitations.", true},
		{"SUMMARY: urgent referral.", true},
		{"Here is a summary of care options.", false},
		{"How long have you had this?", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := HasSummary(tc.reply); got != tc.want {
			t.Errorf("HasSummary(%q) = %v, want %v", tc.reply, got, tc.want)
		}
	}
}

func TestSplitSummary(t *testing.T) {
	reply := "Please see a cardiologist soon.\n\nSummary: patient reports chest pain radiating to the left arm."

	rec, sum, ok := SplitSummary(reply)
	if !ok {
		t.Fatal("expected the marker to be found")
	}
	if rec != "Please see a cardiologist soon." {
		t.Fatalf("unexpected recommendation: %q", rec)
	}
	if sum != "Summary: patient reports chest pain radiating to the left arm." {
		t.Fatalf("unexpected summary: %q", sum)
	}
}

func TestSplitSummaryNoMarker(t *testing.T) {
	rec, sum, ok := SplitSummary("Any shortness of breath?")
	if ok {
		t.Fatal("expected no marker")
	}
	if rec != "Any shortness of breath?" || sum != "" {
		t.Fatalf("expected reply passed through, got %q / %q", rec, sum)
	}
}

func TestSplitSummarySplitsAtFirstMarker(t *testing.T) {
	reply := "Summary: first. Summary: second."
	rec, sum, ok := SplitSummary(reply)
	if !ok {
		t.Fatal("expected the marker to be found")
	}
	if rec != "" {
		t.Fatalf("expected empty recommendation, got %q", rec)
	}
	if sum != reply {
		t.Fatalf("expected split at the first marker, got %q", sum)
	}
}
