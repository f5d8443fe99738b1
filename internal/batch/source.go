package batch

import (
	"context"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscout/internal/model"
)

// Source yields the identifiers of one batch.
type Source interface {
	// Describe is the job's source label: a post id or a profile count.
	Describe() string
	// LoadingMessage is shown while Targets runs.
	LoadingMessage() string
	// Targets returns the batch in input order. An error aborts the job.
	Targets(ctx context.Context) ([]model.Target, error)
	// FoundMessage reports how many targets were found and how many will run.
	FoundMessage(found, capped int) string
}

// ReactionFetcher lists the reactors of a post.
type ReactionFetcher interface {
	FetchReactions(ctx context.Context, postID string) ([]model.Target, error)
}

// PostSource is the set of people who reacted to a post.
type PostSource struct {
	PostID  string
	Fetcher ReactionFetcher
}

// NewPostSource builds a PostSource from a post URL, URN or bare id.
func NewPostSource(post string, fetcher ReactionFetcher) *PostSource {
	return &PostSource{PostID: model.ParsePostID(post), Fetcher: fetcher}
}

func (s *PostSource) Describe() string { return s.PostID }

func (s *PostSource) LoadingMessage() string { return "Fetching post reactions..." }

func (s *PostSource) Targets(ctx context.Context) ([]model.Target, error) {
	if s.PostID == "" {
		return nil, eris.New("batch: empty post id")
	}
	targets, err := s.Fetcher.FetchReactions(ctx, s.PostID)
	if err != nil {
		return nil, eris.Wrapf(err, "batch: fetch reactions for post %s", s.PostID)
	}
	return targets, nil
}

func (s *PostSource) FoundMessage(found, capped int) string {
	return fmt.Sprintf("Found %d reactors, processing %d", found, capped)
}

// URLSource is an explicit list of profile URLs.
type URLSource struct {
	URLs []string
}

// NewURLSource drops blank entries and keeps order.
func NewURLSource(urls []string) *URLSource {
	kept := make([]string, 0, len(urls))
	for _, u := range urls {
		if strings.TrimSpace(u) != "" {
			kept = append(kept, strings.TrimSpace(u))
		}
	}
	return &URLSource{URLs: kept}
}

func (s *URLSource) Describe() string { return fmt.Sprintf("%d profiles", len(s.URLs)) }

func (s *URLSource) LoadingMessage() string { return "Preparing profile list..." }

// Targets never fails: URLs without a usable handle become targets that are
// recorded as skipped.
func (s *URLSource) Targets(context.Context) ([]model.Target, error) {
	targets := make([]model.Target, 0, len(s.URLs))
	for _, u := range s.URLs {
		t := model.TargetFromURL(u)
		if t.Invalid != "" {
			t.Identifier = "unknown"
			t.Name = "Unknown"
		}
		targets = append(targets, t)
	}
	return targets, nil
}

func (s *URLSource) FoundMessage(found, capped int) string {
	if found > capped {
		return fmt.Sprintf("Found %d profiles, processing %d", found, capped)
	}
	return fmt.Sprintf("Processing %d profiles", capped)
}

// InvalidURLs returns up to limit entries that do not look like profile URLs.
func InvalidURLs(urls []string, limit int) []string {
	var bad []string
	for _, u := range urls {
		u = strings.TrimSpace(u)
		if u == "" || model.LooksLikeProfileURL(u) {
			continue
		}
		bad = append(bad, u)
		if len(bad) == limit {
			break
		}
	}
	return bad
}
