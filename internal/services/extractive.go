package services

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ContentKind is the coarse genre of a transcript, used to decide which
// sentences are worth keeping in an extractive summary.
type ContentKind int

const (
	KindGeneral ContentKind = iota
	KindTechnical
	KindTutorial
	KindReview
)

func (k ContentKind) String() string {
	switch k {
	case KindTechnical:
		return "technical"
	case KindTutorial:
		return "tutorial"
	case KindReview:
		return "review"
	default:
		return "general"
	}
}

const noMeaningfulContent = "No meaningful content found"

var (
	htmlTagRe    = regexp.MustCompile(`<[^>]*>`)
	whitespaceRe = regexp.MustCompile(`[\s\p{Zs}\x{85}\x{2028}\x{2029}\x{FEFF}]+`)
)

// Detection vocabularies. Matching is done on lower-cased text.
var (
	technicalKeywords = []string{
		"implement", "algorithm", "data structure", "problem", "solution",
		"time complexity", "space complexity", "performance", "optimization",
		"cache", "lru", "fifo", "queue", "stack", "hash", "map",
	}
	tutorialKeywords = []string{
		"how to", "step by step", "process", "guide", "tutorial",
		"beginner", "advanced", "tips", "tricks", "learn",
	}
	reviewKeywords = []string{
		"review", "opinion", "thoughts", "analysis", "pros", "cons",
		"recommendation", "rating", "performance", "unboxing", "test",
	}
)

// Sentence filters extend the detection vocabularies with ordering and
// judgement words.
var (
	technicalFilter = append(append([]string{}, technicalKeywords...), "o(1)", "o(n)", "constant", "linear")
	tutorialFilter  = append(append([]string{}, tutorialKeywords...), "first", "second", "third", "finally", "end")
	reviewFilter    = append(append([]string{}, reviewKeywords...), "good", "bad", "better", "worse", "improve")
)

// Promotional markers are matched case-sensitively.
var (
	promoMarkers          = []string{"https://", "Check out", "Subscribe"}
	technicalPromoMarkers = []string{"Premium", "doubt", "social", "website", "Discord"}
)

// BasicSummarization builds a summary purely from sentences already present
// in text. It is deterministic and safe on any input.
func BasicSummarization(text string) string {
	sentences := splitSentences(normalizeText(text))
	kind := ClassifyContent(sentences)
	kept := filterSentences(kind, sentences)

	if len(kept) == 0 {
		if kind == KindTechnical {
			for _, s := range sentences {
				if containsAny(strings.ToLower(s), "problem", "implement", "solution") {
					return strings.TrimSpace(s)
				}
			}
		}
		return noMeaningfulContent
	}

	if kind == KindGeneral {
		return strings.TrimSpace(strings.Join(kept, " "))
	}

	if sections := renderSections(kind, kept); sections != "" {
		return sections
	}
	return strings.TrimSpace(strings.Join(kept, " "))
}

func normalizeText(text string) string {
	text = htmlTagRe.ReplaceAllString(text, "")
	text = whitespaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// splitSentences breaks after '.', '!' or '?' when followed by whitespace.
// Empty fragments are discarded.
func splitSentences(text string) []string {
	var (
		sentences []string
		start     int
	)
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		if !isSentenceEnd(runes[i]) || i+1 >= len(runes) || !isSpace(runes[i+1]) {
			continue
		}
		sentences = appendSentence(sentences, string(runes[start:i+1]))
		j := i + 1
		for j < len(runes) && isSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		sentences = appendSentence(sentences, string(runes[start:]))
	}
	return sentences
}

func appendSentence(dst []string, s string) []string {
	if strings.TrimSpace(s) == "" {
		return dst
	}
	return append(dst, s)
}

func isSentenceEnd(r rune) bool { return r == '.' || r == '!' || r == '?' }

// isSpace matches what whitespaceRe collapses, no-break and ideographic
// spaces included.
func isSpace(r rune) bool { return unicode.IsSpace(r) || r == '\uFEFF' }

// ClassifyContent picks the first kind whose vocabulary appears anywhere in
// the text. Technical wins over tutorial, tutorial over review.
func ClassifyContent(sentences []string) ContentKind {
	content := strings.ToLower(strings.Join(sentences, " "))
	switch {
	case containsAny(content, technicalKeywords...):
		return KindTechnical
	case containsAny(content, tutorialKeywords...):
		return KindTutorial
	case containsAny(content, reviewKeywords...):
		return KindReview
	default:
		return KindGeneral
	}
}

func filterSentences(kind ContentKind, sentences []string) []string {
	var kept []string
	for _, s := range sentences {
		if containsAny(s, promoMarkers...) {
			continue
		}
		lower := strings.ToLower(s)
		switch kind {
		case KindTechnical:
			if containsAny(s, technicalPromoMarkers...) {
				continue
			}
			if containsAny(lower, technicalFilter...) {
				kept = append(kept, s)
			}
		case KindTutorial:
			if containsAny(lower, tutorialFilter...) {
				kept = append(kept, s)
			}
		case KindReview:
			if containsAny(lower, reviewFilter...) {
				kept = append(kept, s)
			}
		default:
			if utf8.RuneCountInString(s) > 20 {
				kept = append(kept, s)
			}
		}
	}
	return kept
}

type section struct {
	label string
	text  strings.Builder
}

// renderSections buckets sentences under labelled headings. A sentence lands
// in the first bucket it matches or in none. Empty buckets are omitted.
func renderSections(kind ContentKind, sentences []string) string {
	var (
		buckets []*section
		pick    func(lower string) int
	)
	switch kind {
	case KindTechnical:
		buckets = newSections("Overview", "Implementation", "Complexity")
		pick = func(lower string) int {
			switch {
			case containsAny(lower, "complexity", "o("):
				return 2
			case containsAny(lower, "implementation", "design", "solution"):
				return 1
			case containsAny(lower, "problem", "implement"):
				return 0
			}
			return -1
		}
	case KindTutorial:
		buckets = newSections("Steps", "Tips")
		pick = func(lower string) int {
			switch {
			case containsAny(lower, "step", "first", "second"):
				return 0
			case containsAny(lower, "tip", "trick"):
				return 1
			}
			return -1
		}
	case KindReview:
		buckets = newSections("Pros", "Cons")
		pick = func(lower string) int {
			switch {
			case containsAny(lower, "pro", "good", "better"):
				return 0
			case containsAny(lower, "con", "bad", "worse"):
				return 1
			}
			return -1
		}
	default:
		return ""
	}

	for _, s := range sentences {
		if i := pick(strings.ToLower(s)); i >= 0 {
			buckets[i].text.WriteString(s)
			buckets[i].text.WriteString(" ")
		}
	}

	var parts []string
	for _, b := range buckets {
		if body := strings.TrimSpace(b.text.String()); body != "" {
			parts = append(parts, b.label+": "+body)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n"))
}

func newSections(labels ...string) []*section {
	out := make([]*section, len(labels))
	for i, l := range labels {
		out[i] = &section{label: l}
	}
	return out
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
