package score

import "testing"

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report string
		value  int
		tier   Tier
	}{
		{name: "bold marker", report: "# Report\n\n**OVERALL SCORE: 82/100**\n", value: 82, tier: TierHigh},
		{name: "plain marker", report: "OVERALL SCORE: 82/100", value: 82, tier: TierHigh},
		{name: "underscore emphasis", report: "__OVERALL SCORE: 82/100__", value: 82, tier: TierHigh},
		{name: "emphasis inside marker", report: "**OVERALL SCORE:** **82**/100", value: 82, tier: TierHigh},
		{name: "no marker", report: "The candidate is a good fit.", value: 0, tier: TierLow},
		{name: "empty report", report: "", value: 0, tier: TierLow},
		{name: "medium", report: "**OVERALL SCORE: 60/100**", value: 60, tier: TierMedium},
		{name: "medium upper boundary", report: "**OVERALL SCORE: 74/100**", value: 74, tier: TierMedium},
		{name: "high boundary", report: "**OVERALL SCORE: 75/100**", value: 75, tier: TierHigh},
		{name: "medium lower boundary", report: "OVERALL SCORE: 50/100", value: 50, tier: TierMedium},
		{name: "low", report: "OVERALL SCORE: 49/100", value: 49, tier: TierLow},
		{name: "first match wins", report: "OVERALL SCORE: 40/100\n...\nOVERALL SCORE: 90/100", value: 40, tier: TierLow},
		{name: "clamped", report: "OVERALL SCORE: 140/100", value: 100, tier: TierHigh},
		{name: "other denominator ignored", report: "OVERALL SCORE: 8/10", value: 0, tier: TierLow},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Extract(tt.report)
			if got.Value != tt.value || got.Tier != tt.tier {
				t.Fatalf("expected %d/%s, got %d/%s", tt.value, tt.tier, got.Value, got.Tier)
			}
		})
	}
}

func TestScoreString(t *testing.T) {
	if got := New(82).String(); got != "82/100 (High)" {
		t.Fatalf("unexpected string: %q", got)
	}
}
