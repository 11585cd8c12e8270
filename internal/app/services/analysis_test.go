package services

import (
	"context"
	"errors"
	"testing"
)

func TestDecodeSentiment(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantCat  string
		wantErr  bool
	}{
		{
			name:     "clean json",
			response: `{"category": "Positive", "score": 0.9, "indicators": ["joy"]}`,
			wantCat:  "Positive",
		},
		{
			name:     "json wrapped in prose",
			response: "Here is the result:\n{\"category\": \"Negative\", \"score\": 0.8, \"indicators\": []}\nHope that helps!",
			wantCat:  "Negative",
		},
		{
			name:     "markdown fenced json",
			response: "```json\n{\"category\": \"Neutral\", \"score\": 0.6, \"indicators\": []}\n```",
			wantCat:  "Neutral",
		},
		{
			name:     "no json at all",
			response: "I think it feels positive overall.",
			wantErr:  true,
		},
		{
			name:     "missing category",
			response: `{"score": 0.4, "indicators": []}`,
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := decodeSentiment(tt.response)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("decodeSentiment() expected error, got %+v", payload)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeSentiment() error = %v", err)
			}
			if payload.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", payload.Category, tt.wantCat)
			}
		})
	}
}

func TestSentiment_FallsBackToLexicon(t *testing.T) {
	text := &TextService{llm: &fakeLLM{err: errors.New("provider down")}}
	svc := NewAnalysisService(newTestAnalyzer(nil, nil), text, nil)

	got := svc.sentiment(context.Background(), "a truly wonderful and beautiful scene")
	if got.Label != "Positive" {
		t.Errorf("Label = %q, want Positive", got.Label)
	}
	if got.Score < 0.5 || got.Score > 1 {
		t.Errorf("Score = %v, want within [0.5, 1]", got.Score)
	}
}

func TestSentiment_EmptyTextNeutral(t *testing.T) {
	svc := NewAnalysisService(newTestAnalyzer(nil, nil), &TextService{llm: &fakeLLM{}}, nil)

	got := svc.sentiment(context.Background(), "   ")
	if got.Label != "Neutral" || got.Score != 0.5 {
		t.Errorf("sentiment = %+v, want Neutral/0.5", got)
	}
}

func TestLocalSentiment_Negative(t *testing.T) {
	got := localSentiment("a terrible, gloomy and disappointing mess")
	if got.Label != "Negative" {
		t.Errorf("Label = %q, want Negative", got.Label)
	}
}
