package services

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"net"
	"net/url"
	"regexp"
	"strings"
	"time"

	ytapi "github.com/hightemp/youtube-transcript-api-go/api"
	yt "github.com/kkdai/youtube/v2"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const (
	TranscriptFromCaptions = "captions"
	TranscriptFromMetadata = "metadata"
)

// VideoRef identifies a YouTube video by its 11 character id.
type VideoRef struct {
	VideoID string
}

type VideoDetails struct {
	VideoID         string
	Title           string
	Description     string
	ThumbnailURL    string
	ChannelTitle    string
	PublishedAt     time.Time
	CaptionsEnabled bool
}

type CaptionTrack struct {
	ID           string
	LanguageCode string
}

// Transcript is never empty. Source tells whether Text came from captions or
// was synthesised from the title and description.
type Transcript struct {
	Text   string
	Source string
	Video  VideoDetails
}

// VideoSource is the metadata and caption backend. Implementations return
// ErrVideoNotFound for unknown ids and ErrNoTranscript when a caption track
// exists but has no retrievable text. Any other error is treated as the
// service being unreachable.
type VideoSource interface {
	Video(ctx context.Context, videoID string) (*VideoDetails, error)
	CaptionTracks(ctx context.Context, videoID string) ([]CaptionTrack, error)
	CaptionCues(ctx context.Context, videoID string, track CaptionTrack) ([]string, error)
}

var (
	videoIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{11}$`)
	// Catch-all for shapes the structured parse below does not know about.
	videoURLRe = regexp.MustCompile(`^.*(?:(?:youtu\.be/|v/|vi/|u/\w/|embed/|shorts/|live/)|(?:(?:watch)?\?vi?=|&vi?=))([^#&?]*).*`)
)

// ValidateURL extracts the video id from any of the usual YouTube URL
// shapes. Input without a well-formed id is rejected, never guessed at.
func ValidateURL(rawURL string) (VideoRef, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return VideoRef{}, fmt.Errorf("%w: YouTube URL is required", ErrInvalidInput)
	}

	if id := videoIDFromParsedURL(rawURL); id != "" {
		return VideoRef{VideoID: id}, nil
	}

	if m := videoURLRe.FindStringSubmatch(rawURL); len(m) > 1 && videoIDRe.MatchString(m[1]) {
		return VideoRef{VideoID: m[1]}, nil
	}

	return VideoRef{}, fmt.Errorf("%w: invalid YouTube URL", ErrInvalidInput)
}

func videoIDFromParsedURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(parsed.Host)
	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")

	switch {
	case strings.HasSuffix(host, "youtu.be"):
		if videoIDRe.MatchString(parts[0]) {
			return parts[0]
		}
	case strings.HasSuffix(host, "youtube.com") || strings.HasSuffix(host, "youtube-nocookie.com"):
		for _, key := range []string{"v", "vi"} {
			if v := parsed.Query().Get(key); videoIDRe.MatchString(v) {
				return v
			}
		}
		if len(parts) >= 2 {
			switch parts[0] {
			case "shorts", "embed", "v", "vi", "live":
				if videoIDRe.MatchString(parts[1]) {
					return parts[1]
				}
			}
		}
	}
	return ""
}

type TranscriptAcquirer struct {
	source VideoSource
}

func NewTranscriptAcquirer(source VideoSource) *TranscriptAcquirer {
	return &TranscriptAcquirer{source: source}
}

// FetchTranscript prefers the first caption track. Videos with captions
// turned off get a transcript built from their title and description.
// Metadata failures are fatal, there is no local substitute.
func (a *TranscriptAcquirer) FetchTranscript(ctx context.Context, ref VideoRef) (*Transcript, error) {
	video, err := a.source.Video(ctx, ref.VideoID)
	if err != nil {
		return nil, classifySourceErr("fetch video details", err)
	}

	if !video.CaptionsEnabled {
		log.Printf("⚠ Video %s has captions disabled, using title and description", ref.VideoID)
		return &Transcript{
			Text:   metadataTranscript(video),
			Source: TranscriptFromMetadata,
			Video:  *video,
		}, nil
	}

	tracks, err := a.source.CaptionTracks(ctx, ref.VideoID)
	if err != nil {
		return nil, classifySourceErr("list caption tracks", err)
	}
	if len(tracks) == 0 {
		return nil, fmt.Errorf("%w: no caption tracks for %s", ErrNoTranscript, ref.VideoID)
	}

	cues, err := a.source.CaptionCues(ctx, ref.VideoID, tracks[0])
	if err != nil {
		return nil, classifySourceErr("fetch captions", err)
	}

	text := cleanCaptionText(cues)
	if text == "" {
		return nil, fmt.Errorf("%w: caption track for %s is empty", ErrNoTranscript, ref.VideoID)
	}

	return &Transcript{Text: text, Source: TranscriptFromCaptions, Video: *video}, nil
}

func metadataTranscript(v *VideoDetails) string {
	return fmt.Sprintf("Title: %s\nDescription: %s", v.Title, v.Description)
}

var bracketReplacer = strings.NewReplacer("[", "", "]", "")

func cleanCaptionText(cues []string) string {
	text := html.UnescapeString(strings.Join(cues, " "))
	text = bracketReplacer.Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

func classifySourceErr(op string, err error) error {
	switch {
	case errors.Is(err, ErrVideoNotFound), errors.Is(err, ErrNoTranscript):
		return fmt.Errorf("%s: %w", op, err)
	case errors.Is(err, context.Canceled):
		return err
	default:
		return fmt.Errorf("%s: %w: %v", op, ErrUpstreamUnavailable, err)
	}
}

// DataAPISource reads metadata and caption listings from the YouTube Data
// API. Caption downloads need OAuth there, so cue text comes from the public
// transcript endpoint instead.
type DataAPISource struct {
	svc *youtube.Service
	// fetchCues reads cue text for videoID in the first available language
	// of langs; nil langs means any language.
	fetchCues func(videoID string, langs []string) ([]string, error)
}

func NewDataAPISource(ctx context.Context, apiKey string) (*DataAPISource, error) {
	svc, err := youtube.NewService(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create YouTube client: %w", err)
	}
	api := ytapi.NewYouTubeTranscriptApi()
	fetch := func(videoID string, langs []string) ([]string, error) {
		transcript, err := api.GetTranscript(videoID, langs)
		if err != nil {
			return nil, err
		}
		cues := make([]string, 0, len(transcript.Entries))
		for _, e := range transcript.Entries {
			cues = append(cues, e.Text)
		}
		return cues, nil
	}
	return &DataAPISource{svc: svc, fetchCues: fetch}, nil
}

func (s *DataAPISource) Video(ctx context.Context, videoID string) (*VideoDetails, error) {
	resp, err := s.svc.Videos.List([]string{"snippet", "contentDetails"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return nil, ErrVideoNotFound
	}

	item := resp.Items[0]
	details := &VideoDetails{
		VideoID:      videoID,
		Title:        item.Snippet.Title,
		Description:  item.Snippet.Description,
		ChannelTitle: item.Snippet.ChannelTitle,
	}
	if item.ContentDetails != nil {
		details.CaptionsEnabled = item.ContentDetails.Caption == "true"
	}
	if th := item.Snippet.Thumbnails; th != nil && th.Medium != nil {
		details.ThumbnailURL = th.Medium.Url
	}
	if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
		details.PublishedAt = t
	}
	return details, nil
}

func (s *DataAPISource) CaptionTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	resp, err := s.svc.Captions.List([]string{"snippet"}, videoID).Context(ctx).Do()
	if err != nil {
		return nil, err
	}

	tracks := make([]CaptionTrack, 0, len(resp.Items))
	for _, c := range resp.Items {
		track := CaptionTrack{ID: c.Id}
		if c.Snippet != nil {
			track.LanguageCode = c.Snippet.Language
		}
		tracks = append(tracks, track)
	}
	return tracks, nil
}

func (s *DataAPISource) CaptionCues(ctx context.Context, videoID string, track CaptionTrack) ([]string, error) {
	var langs []string
	if track.LanguageCode != "" {
		langs = []string{track.LanguageCode}
	}

	type result struct {
		cues []string
		err  error
	}
	// The transcript client takes no context; the buffered channel lets the
	// call finish in the background once ctx is done.
	done := make(chan result, 1)
	go func() {
		cues, err := s.fetchCues(videoID, langs)
		done <- result{cues, err}
	}()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r := <-done:
		if r.err == nil {
			return r.cues, nil
		}
		var netErr net.Error
		if errors.As(r.err, &netErr) {
			return nil, r.err
		}
		// Anything the endpoint answered, refusals included, means no
		// usable captions.
		return nil, fmt.Errorf("%w: %v", ErrNoTranscript, r.err)
	}
}

// PlayerSource uses the public player endpoint and needs no API key.
type PlayerSource struct {
	client *yt.Client
}

func NewPlayerSource() *PlayerSource {
	return &PlayerSource{client: &yt.Client{}}
}

func (s *PlayerSource) Video(ctx context.Context, videoID string) (*VideoDetails, error) {
	video, err := s.client.GetVideoContext(ctx, videoID)
	if err != nil {
		if errors.Is(err, yt.ErrVideoPrivate) || errors.Is(err, yt.ErrLoginRequired) {
			return nil, fmt.Errorf("%w: %v", ErrVideoNotFound, err)
		}
		return nil, err
	}

	details := &VideoDetails{
		VideoID:         videoID,
		Title:           video.Title,
		Description:     video.Description,
		ChannelTitle:    video.Author,
		PublishedAt:     video.PublishDate,
		CaptionsEnabled: len(video.CaptionTracks) > 0,
	}
	if n := len(video.Thumbnails); n > 0 {
		details.ThumbnailURL = video.Thumbnails[n-1].URL
	}
	return details, nil
}

func (s *PlayerSource) CaptionTracks(ctx context.Context, videoID string) ([]CaptionTrack, error) {
	video, err := s.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, err
	}

	tracks := make([]CaptionTrack, 0, len(video.CaptionTracks))
	for _, c := range video.CaptionTracks {
		tracks = append(tracks, CaptionTrack{ID: c.BaseURL, LanguageCode: c.LanguageCode})
	}
	return tracks, nil
}

func (s *PlayerSource) CaptionCues(ctx context.Context, videoID string, track CaptionTrack) ([]string, error) {
	video, err := s.client.GetVideoContext(ctx, videoID)
	if err != nil {
		return nil, err
	}

	segments, err := s.client.GetTranscriptCtx(ctx, video, track.LanguageCode)
	if err != nil {
		if errors.Is(err, yt.ErrTranscriptDisabled) {
			return nil, fmt.Errorf("%w: %v", ErrNoTranscript, err)
		}
		return nil, err
	}

	cues := make([]string, 0, len(segments))
	for _, seg := range segments {
		cues = append(cues, seg.Text)
	}
	return cues, nil
}
