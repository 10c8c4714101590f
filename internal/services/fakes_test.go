package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"notenexus-backend/internal/ratelimit"
)

// stubGenerator returns a canned reply and records the prompts it saw.
type stubGenerator struct {
	mu      sync.Mutex
	reply   string
	err     error
	delay   time.Duration
	prompts []string
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string, _ GenerationOptions) (string, error) {
	s.mu.Lock()
	s.prompts = append(s.prompts, prompt)
	s.mu.Unlock()

	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.reply, s.err
}

func (s *stubGenerator) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

var errProviderDown = errors.New("503 service unavailable")

func failingGenerator() *stubGenerator { return &stubGenerator{err: errProviderDown} }

func testLimiter(quota int) *ratelimit.Window {
	return ratelimit.NewWindow(time.Minute, quota)
}

// exhaustedLimiter has no slots left for the next minute.
func exhaustedLimiter() *ratelimit.Window {
	w := testLimiter(1)
	w.AddRequest()
	return w
}

// fakeVideoSource serves fixed metadata and captions.
type fakeVideoSource struct {
	video     *VideoDetails
	videoErr  error
	tracks    []CaptionTrack
	tracksErr error
	cues      []string
	cuesErr   error

	cueTrack CaptionTrack
}

func (f *fakeVideoSource) Video(context.Context, string) (*VideoDetails, error) {
	if f.videoErr != nil {
		return nil, f.videoErr
	}
	v := *f.video
	return &v, nil
}

func (f *fakeVideoSource) CaptionTracks(context.Context, string) ([]CaptionTrack, error) {
	return f.tracks, f.tracksErr
}

func (f *fakeVideoSource) CaptionCues(_ context.Context, _ string, track CaptionTrack) ([]string, error) {
	f.cueTrack = track
	return f.cues, f.cuesErr
}
