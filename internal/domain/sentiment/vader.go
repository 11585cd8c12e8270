// Package sentiment implements a compact valence-lexicon scorer in the
// style of VADER, tuned for short captions and social copy.
package sentiment

import (
	"math"
	"strings"
)

// Scores holds the proportional and compound sentiment scores for a text.
type Scores struct {
	Positive float64 `json:"pos"`
	Negative float64 `json:"neg"`
	Neutral  float64 `json:"neu"`
	Compound float64 `json:"compound"`
}

const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05

	// alpha normalizes the raw valence sum into [-1, 1].
	alpha = 15.0

	boostIncrement = 0.293
	negationFlip   = -0.74
)

var lexicon = map[string]float64{
	"amazing": 2.8, "awesome": 3.1, "beautiful": 2.9, "best": 3.2,
	"breathtaking": 3.0, "bright": 1.9, "brilliant": 2.8, "calm": 1.3,
	"charming": 2.2, "cheerful": 2.5, "colorful": 1.6, "cozy": 1.9,
	"delicious": 2.7, "delightful": 2.8, "dreamy": 1.9, "elegant": 2.4,
	"enjoy": 2.2, "excellent": 3.0, "excited": 2.4, "fantastic": 2.9,
	"favorite": 2.3, "fresh": 1.7, "fun": 2.3, "glad": 2.0,
	"glorious": 2.8, "good": 1.9, "gorgeous": 3.0, "great": 3.1,
	"happy": 2.7, "incredible": 2.9, "inspiring": 2.4, "joy": 2.8,
	"love": 3.2, "lovely": 2.8, "magical": 2.5, "nice": 1.8,
	"peaceful": 2.0, "perfect": 3.0, "pleasant": 2.0, "pretty": 2.2,
	"radiant": 2.4, "relaxing": 1.9, "serene": 2.0, "spectacular": 3.0,
	"stunning": 3.1, "sweet": 2.0, "vibrant": 2.1, "warm": 1.6,
	"wonderful": 2.7,

	"awful": -2.7, "bad": -2.5, "bland": -1.4, "blurry": -1.5,
	"boring": -1.8, "broken": -2.1, "cold": -1.1, "creepy": -2.1,
	"dark": -1.0, "dirty": -2.0, "disappointing": -2.3, "dull": -1.7,
	"empty": -1.2, "fail": -2.3, "gloomy": -1.9, "grim": -2.0,
	"hate": -3.0, "horrible": -2.9, "hurt": -2.2, "lonely": -1.9,
	"lost": -1.3, "mess": -1.9, "miserable": -2.7, "noisy": -1.4,
	"painful": -2.4, "poor": -2.0, "sad": -2.3, "scary": -2.1,
	"terrible": -2.9, "tragic": -2.6, "ugly": -2.5, "unpleasant": -2.1,
	"worst": -3.1, "wrong": -1.8,
}

var boosters = map[string]float64{
	"absolutely": boostIncrement, "completely": boostIncrement,
	"extremely": boostIncrement, "incredibly": boostIncrement,
	"really": boostIncrement, "remarkably": boostIncrement,
	"so": boostIncrement, "totally": boostIncrement,
	"truly": boostIncrement, "very": boostIncrement,
	"barely": -boostIncrement, "hardly": -boostIncrement,
	"slightly": -boostIncrement, "somewhat": -boostIncrement,
}

var negations = map[string]struct{}{
	"not": {}, "no": {}, "never": {}, "neither": {}, "nobody": {},
	"none": {}, "nor": {}, "nothing": {}, "without": {}, "cannot": {},
	"cant": {}, "dont": {}, "doesnt": {}, "didnt": {}, "isnt": {},
	"wasnt": {}, "werent": {}, "wont": {},
}

// Analyze scores a text. Empty or purely neutral input returns all-neutral
// scores with a zero compound.
func Analyze(text string) Scores {
	words := tokenize(text)
	if len(words) == 0 {
		return Scores{Neutral: 1}
	}

	var valences []float64
	for i, w := range words {
		v, ok := lexicon[w]
		if !ok {
			valences = append(valences, 0)
			continue
		}

		for back := 1; back <= 3 && i-back >= 0; back++ {
			prev := words[i-back]
			if boost, ok := boosters[prev]; ok {
				if v < 0 {
					boost = -boost
				}
				v += boost / float64(back)
			}
			if _, ok := negations[prev]; ok {
				v *= negationFlip
				break
			}
		}
		valences = append(valences, v)
	}

	var sum, pos, neg, neu float64
	for _, v := range valences {
		sum += v
		switch {
		case v > 0:
			pos += v + 1
		case v < 0:
			neg += math.Abs(v) + 1
		default:
			neu++
		}
	}

	total := pos + neg + neu
	if total == 0 {
		total = 1
	}

	return Scores{
		Positive: round4(pos / total),
		Negative: round4(neg / total),
		Neutral:  round4(neu / total),
		Compound: round4(sum / math.Sqrt(sum*sum+alpha)),
	}
}

// Category maps a compound score to Positive, Negative or Neutral.
func Category(compound float64) string {
	switch {
	case compound >= positiveThreshold:
		return "Positive"
	case compound <= negativeThreshold:
		return "Negative"
	default:
		return "Neutral"
	}
}

func tokenize(text string) []string {
	fields := strings.Fields(strings.ToLower(text))
	words := make([]string, 0, len(fields))
	for _, f := range fields {
		w := strings.TrimFunc(f, func(r rune) bool {
			return !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'))
		})
		w = strings.ReplaceAll(w, "'", "")
		if w != "" {
			words = append(words, w)
		}
	}
	return words
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
