package sentiment

import "testing"

func TestAnalyze_Categories(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"positive", "What a beautiful and peaceful sunset, I love it", "Positive"},
		{"negative", "This is a terrible, blurry and disappointing photo", "Negative"},
		{"neutral", "A table with four chairs in a room", "Neutral"},
		{"empty", "", "Neutral"},
		{"boosted positive", "This is a really amazing shot", "Positive"},
		{"negated positive", "This is not good at all", "Negative"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := Analyze(tt.text)
			if got := Category(scores.Compound); got != tt.want {
				t.Errorf("Category(%v) = %q, want %q (text=%q)",
					scores.Compound, got, tt.want, tt.text)
			}
		})
	}
}

func TestAnalyze_CompoundInRange(t *testing.T) {
	texts := []string{
		"absolutely stunning gorgeous wonderful amazing perfect",
		"horrible awful terrible worst miserable tragic",
		"the cat sat on the mat",
	}
	for _, text := range texts {
		scores := Analyze(text)
		if scores.Compound < -1 || scores.Compound > 1 {
			t.Errorf("compound %v out of [-1, 1] for %q", scores.Compound, text)
		}
	}
}

func TestAnalyze_ProportionsSumToOne(t *testing.T) {
	scores := Analyze("a lovely morning with some gloomy clouds")
	sum := scores.Positive + scores.Negative + scores.Neutral
	if sum < 0.99 || sum > 1.01 {
		t.Errorf("proportions sum = %v, want ~1 (%+v)", sum, scores)
	}
}

func TestAnalyze_BoosterStrengthens(t *testing.T) {
	plain := Analyze("a good photo")
	boosted := Analyze("a very good photo")
	if boosted.Compound <= plain.Compound {
		t.Errorf("boosted compound %v not greater than plain %v",
			boosted.Compound, plain.Compound)
	}
}

func TestAnalyze_PunctuationIgnored(t *testing.T) {
	a := Analyze("wonderful!")
	b := Analyze("wonderful")
	if Category(a.Compound) != Category(b.Compound) {
		t.Errorf("punctuation changed category: %v vs %v", a, b)
	}
}

func TestCategory_Thresholds(t *testing.T) {
	tests := []struct {
		compound float64
		want     string
	}{
		{0.05, "Positive"},
		{0.049, "Neutral"},
		{0.0, "Neutral"},
		{-0.049, "Neutral"},
		{-0.05, "Negative"},
	}
	for _, tt := range tests {
		if got := Category(tt.compound); got != tt.want {
			t.Errorf("Category(%v) = %q, want %q", tt.compound, got, tt.want)
		}
	}
}
