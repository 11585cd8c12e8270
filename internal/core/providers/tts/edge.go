package tts

import (
	"bytes"
	"context"
	"sync"
	"time"

	mp3 "github.com/hajimehoshi/go-mp3"
	"github.com/wujunwei928/edge-tts-go/edge_tts"

	"pixelsage-server/internal/domain/eventbus"
	"pixelsage-server/internal/platform/errors"
)

const (
	defaultVoice = "en-US-AriaNeural"

	cacheMaxEntries = 200
	cacheTTL        = 30 * time.Minute
)

// EdgeProvider synthesizes speech through the Microsoft Edge TTS service.
type EdgeProvider struct {
	config *Config
	cache  *audioCache
}

func init() {
	Register("edge", NewEdgeProvider)
}

// NewEdgeProvider creates the Edge TTS provider.
func NewEdgeProvider(config *Config) (Provider, error) {
	return &EdgeProvider{
		config: config,
		cache:  newAudioCache(cacheMaxEntries, cacheTTL),
	}, nil
}

// Initialize fills in voice defaults.
func (p *EdgeProvider) Initialize() error {
	if p.config.Voice == "" {
		p.config.Voice = defaultVoice
	}
	return nil
}

// Cleanup drops the audio cache.
func (p *EdgeProvider) Cleanup() error {
	p.cache.clear()
	return nil
}

// Synthesize converts text to mp3 audio. Repeated texts are served from an
// in-memory cache.
func (p *EdgeProvider) Synthesize(ctx context.Context, text string) (*Result, error) {
	if text == "" {
		return nil, errors.New(errors.KindValidation, "synthesize", "text cannot be empty")
	}

	if cached := p.cache.get(text); cached != nil {
		return cached, nil
	}

	communicate, err := edge_tts.NewCommunicate(text, edge_tts.SetVoice(p.config.Voice))
	if err != nil {
		p.publishFailure(err)
		return nil, errors.Wrap(errors.KindGeneration, "synthesize", "create Edge TTS communicator", err)
	}

	audio, err := communicate.Stream()
	if err != nil {
		p.publishFailure(err)
		return nil, errors.Wrap(errors.KindGeneration, "synthesize", "Edge TTS synthesis failed", err)
	}

	result := &Result{
		Audio:    audio,
		Duration: mp3Duration(audio),
	}
	p.cache.set(text, result)

	eventbus.Publish(eventbus.EventSpeechSynthesized, eventbus.SpeechEventData{
		Voice:    p.config.Voice,
		Bytes:    len(audio),
		AudioLen: result.Duration,
	})
	return result, nil
}

func (p *EdgeProvider) publishFailure(err error) {
	eventbus.Publish(eventbus.EventSpeechFailed, eventbus.SpeechEventData{
		Voice: p.config.Voice,
		Error: err.Error(),
	})
}

// mp3Duration decodes the stream header to compute playback length. A
// duration of zero means the audio could not be decoded.
func mp3Duration(audio []byte) time.Duration {
	decoder, err := mp3.NewDecoder(bytes.NewReader(audio))
	if err != nil {
		return 0
	}
	// Length is in bytes of 16-bit stereo PCM.
	samples := decoder.Length() / 4
	if decoder.SampleRate() <= 0 {
		return 0
	}
	seconds := float64(samples) / float64(decoder.SampleRate())
	return time.Duration(seconds * float64(time.Second))
}

type audioCache struct {
	entries map[string]*cacheEntry
	mu      sync.RWMutex
	maxSize int
	ttl     time.Duration
}

type cacheEntry struct {
	result    *Result
	timestamp time.Time
}

func newAudioCache(maxSize int, ttl time.Duration) *audioCache {
	return &audioCache{
		entries: make(map[string]*cacheEntry),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

func (c *audioCache) get(key string) *Result {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok {
		return nil
	}
	if time.Since(entry.timestamp) > c.ttl {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil
	}
	return entry.result
}

func (c *audioCache) set(key string, result *Result) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) >= c.maxSize {
		var oldestKey string
		var oldestTime time.Time
		for k, v := range c.entries {
			if oldestKey == "" || v.timestamp.Before(oldestTime) {
				oldestKey = k
				oldestTime = v.timestamp
			}
		}
		if oldestKey != "" {
			delete(c.entries, oldestKey)
		}
	}

	c.entries[key] = &cacheEntry{
		result:    result,
		timestamp: time.Now(),
	}
}

func (c *audioCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*cacheEntry)
}
