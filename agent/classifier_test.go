package agent

import "testing"

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		text string
		want Lane
	}{
		{"coding keyword", "please refactor this for me", LaneAnalytical},
		{"research keyword", "a survey of recent approaches", LaneAnalytical},
		{"debug request", "Please debug this function", LaneAnalytical},
		{"plain chat", "how are you doing today", LaneConversational},
		{"empty", "", LaneConversational},
		{"keyword inside larger word", "let's classify these", LaneAnalytical},
		// Substring matching means unrelated uses of "class" still route
		// analytical. That is accepted policy, not a bug.
		{"false positive", "my yoga class was great", LaneAnalytical},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.text); got != tc.want {
				t.Fatalf("Classify(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

func TestClassifyCaseInsensitive(t *testing.T) {
	if Classify("REFACTOR this") != Classify("refactor this") {
		t.Fatal("classification must not depend on case")
	}
	if got := Classify("REFACTOR this"); got != LaneAnalytical {
		t.Fatalf("Classify(REFACTOR this) = %v, want LaneAnalytical", got)
	}
}

func TestLaneString(t *testing.T) {
	if LaneAnalytical.String() != "analytical" || LaneConversational.String() != "conversational" {
		t.Fatal("unexpected lane names")
	}
}
