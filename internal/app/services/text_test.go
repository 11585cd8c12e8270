package services

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"pixelsage-server/internal/domain/image"
)

type fakeLLM struct {
	response string
	err      error
	calls    int
}

func (f *fakeLLM) Initialize() error { return nil }
func (f *fakeLLM) Cleanup() error    { return nil }

func (f *fakeLLM) Complete(ctx context.Context, prompt string) (string, error) {
	f.calls++
	return f.response, f.err
}

func (f *fakeLLM) CompleteWithImage(ctx context.Context, prompt string, img []byte, mimeType string) (string, error) {
	f.calls++
	return f.response, f.err
}

type fakeCaption struct {
	text string
	err  error
}

func (f *fakeCaption) Initialize() error { return nil }
func (f *fakeCaption) Cleanup() error    { return nil }

func (f *fakeCaption) Caption(ctx context.Context, img []byte, mimeType string) (string, error) {
	return f.text, f.err
}

type fakeDetector struct {
	detections []image.Detection
	err        error
}

func (f *fakeDetector) Initialize() error { return nil }
func (f *fakeDetector) Cleanup() error    { return nil }

func (f *fakeDetector) Detect(ctx context.Context, img []byte, mimeType string) ([]image.Detection, error) {
	return f.detections, f.err
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"consecutive duplicate words", "a dog dog in the the park", "a dog in the park"},
		{"repeated characters squeezed", "woooow niiice", "wow nice"},
		{"no changes needed", "a calm river", "a calm river"},
		{"non-consecutive duplicates kept", "the dog and the cat", "the dog and the cat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanText(tt.in); got != tt.want {
				t.Errorf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnhanceAltText_LongEnoughUntouched(t *testing.T) {
	llm := &fakeLLM{response: "should not be used"}
	svc := NewTextService(llm, 6, nil)

	in := "a brown dog running across a sunny field"
	if got := svc.EnhanceAltText(context.Background(), in); got != in {
		t.Errorf("EnhanceAltText() = %q, want unchanged input", got)
	}
	if llm.calls != 0 {
		t.Errorf("model called %d times, want 0", llm.calls)
	}
}

func TestEnhanceAltText_ExactlyOneExpansion(t *testing.T) {
	llm := &fakeLLM{response: "a brown dog running across a wide sunny meadow"}
	svc := NewTextService(llm, 6, nil)

	got := svc.EnhanceAltText(context.Background(), "a dog")
	if got != llm.response {
		t.Errorf("EnhanceAltText() = %q, want model expansion", got)
	}
	if llm.calls != 1 {
		t.Errorf("model called %d times, want exactly 1", llm.calls)
	}
}

func TestEnhanceAltText_StillShortGetsFiller(t *testing.T) {
	llm := &fakeLLM{response: "small dog"}
	svc := NewTextService(llm, 6, nil)

	got := svc.EnhanceAltText(context.Background(), "a dog")
	want := "small dog" + shortAltTextFiller
	if got != want {
		t.Errorf("EnhanceAltText() = %q, want %q", got, want)
	}
	if llm.calls != 1 {
		t.Errorf("model called %d times, want exactly 1", llm.calls)
	}
}

func TestEnhanceAltText_ModelFailureKeepsOriginal(t *testing.T) {
	llm := &fakeLLM{err: errors.New("provider down")}
	svc := NewTextService(llm, 6, nil)

	if got := svc.EnhanceAltText(context.Background(), "a dog"); got != "a dog" {
		t.Errorf("EnhanceAltText() = %q, want original text", got)
	}
}

func TestGenerateHashtags(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     []string
	}{
		{
			name:     "extracts hash tokens only",
			response: "Here you go: #Sunset #Beach and also #Travel plain words",
			want:     []string{"#Sunset", "#Beach", "#Travel"},
		},
		{
			name:     "fallback on no hashtags",
			response: "no tags in this answer",
			want:     []string{"#Photography", "#Social", "#Content"},
		},
		{
			name:     "bare hash discarded",
			response: "# #Coffee",
			want:     []string{"#Coffee"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewTextService(&fakeLLM{response: tt.response}, 6, nil)
			got, err := svc.GenerateHashtags(context.Background(), "post text")
			if err != nil {
				t.Fatalf("GenerateHashtags() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("GenerateHashtags() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGenerateHashtags_Error(t *testing.T) {
	svc := NewTextService(&fakeLLM{err: errors.New("quota exceeded")}, 6, nil)
	if _, err := svc.GenerateHashtags(context.Background(), "text"); err == nil {
		t.Fatal("GenerateHashtags() expected error")
	}
}

func TestGenerateContext_CleansInput(t *testing.T) {
	llm := &fakeLLM{response: "  a tidy description  "}
	svc := NewTextService(llm, 6, nil)

	got, err := svc.GenerateContext(context.Background(), "a dog dog in the park")
	if err != nil {
		t.Fatalf("GenerateContext() error = %v", err)
	}
	if got != "a tidy description" {
		t.Errorf("GenerateContext() = %q, want trimmed response", got)
	}
}
