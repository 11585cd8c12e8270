package llm

import (
	"errors"
	"testing"
	"time"

	"pixelsage-server/internal/domain/eventbus"
)

func TestRequestTimeoutDefault(t *testing.T) {
	base := NewBaseProvider(&Config{})
	if got := base.RequestTimeout(); got != 60*time.Second {
		t.Errorf("RequestTimeout() = %v, want 60s default", got)
	}

	base = NewBaseProvider(&Config{Timeout: 5})
	if got := base.RequestTimeout(); got != 5*time.Second {
		t.Errorf("RequestTimeout() = %v, want 5s", got)
	}
}

func TestPublishLifecycleEvents(t *testing.T) {
	base := NewBaseProvider(&Config{Type: "gemini", ModelName: "gemini-1.5-flash"})

	var events []eventbus.GenerationEventData
	handler := func(data eventbus.GenerationEventData) { events = append(events, data) }
	for _, topic := range []string{
		eventbus.EventGenerationStarted,
		eventbus.EventGenerationCompleted,
		eventbus.EventGenerationFailed,
	} {
		if err := eventbus.Subscribe(topic, handler); err != nil {
			t.Fatalf("subscribe %s: %v", topic, err)
		}
	}
	defer func() {
		for _, topic := range []string{
			eventbus.EventGenerationStarted,
			eventbus.EventGenerationCompleted,
			eventbus.EventGenerationFailed,
		} {
			eventbus.Get().Unsubscribe(topic, handler)
		}
	}()

	base.PublishStarted()
	base.PublishCompleted(250 * time.Millisecond)
	base.PublishFailed(errors.New("quota exceeded"))

	if len(events) != 3 {
		t.Fatalf("got %d events, want 3", len(events))
	}
	for _, e := range events {
		if e.Provider != "gemini" || e.Model != "gemini-1.5-flash" {
			t.Errorf("event = %+v, want provider/model carried", e)
		}
	}
	if events[1].Duration != 250*time.Millisecond {
		t.Errorf("completed duration = %v", events[1].Duration)
	}
	if events[2].Error != "quota exceeded" {
		t.Errorf("failed error = %q", events[2].Error)
	}
}

func TestCreateUnknownProvider(t *testing.T) {
	if _, err := Create("no-such-backend", &Config{}); err == nil {
		t.Fatal("Create() expected error for unregistered provider")
	}
}
