// Package linkify turns plain bot text into a sequence of literal and
// clickable segments. Markdown-style links are claimed first so their
// brackets and parentheses are never re-matched as part of a bare URL,
// then bare URLs, then email addresses in text that carried no URL.
package linkify

import (
	"regexp"
	"strings"
)

// SegmentKind distinguishes literal text from interactive links.
type SegmentKind string

const (
	KindText SegmentKind = "text"
	KindLink SegmentKind = "link"
)

// Segment is one rendered fragment of a message. Link segments carry the
// resolved target; text segments leave Href empty.
type Segment struct {
	Kind SegmentKind `json:"type"`
	Text string      `json:"text"`
	Href string      `json:"href,omitempty"`
}

var (
	markdownRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	urlRe      = regexp.MustCompile(`(?:https?://|www\.)[^\s<>"]+`)
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
)

// Render splits text into alternating literal and link segments, preserving
// the original left-to-right order with no characters lost or duplicated.
// It is pure and deterministic: the same input always yields the same
// segment sequence.
func Render(text string) []Segment {
	var segments []Segment

	rest := text
	for {
		loc := markdownRe.FindStringSubmatchIndex(rest)
		if loc == nil {
			break
		}
		segments = append(segments, renderBare(rest[:loc[0]])...)
		label := rest[loc[2]:loc[3]]
		target := rest[loc[4]:loc[5]]
		segments = append(segments, Segment{Kind: KindLink, Text: label, Href: normalizeURL(target)})
		rest = rest[loc[1]:]
	}
	segments = append(segments, renderBare(rest)...)

	return segments
}

// renderBare handles text outside markdown links: bare URLs first, and only
// when the chunk contains no URL, email addresses.
func renderBare(text string) []Segment {
	if text == "" {
		return nil
	}

	if locs := urlRe.FindAllStringIndex(text, -1); locs != nil {
		return splitMatches(text, locs, func(match string) string {
			return normalizeURL(match)
		})
	}

	if locs := emailRe.FindAllStringIndex(text, -1); locs != nil {
		return splitMatches(text, locs, func(match string) string {
			return "mailto:" + match
		})
	}

	return []Segment{{Kind: KindText, Text: text}}
}

// splitMatches interleaves the literal spans between matches with link
// segments whose target is derived by href.
func splitMatches(text string, locs [][]int, href func(string) string) []Segment {
	var segments []Segment
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			segments = append(segments, Segment{Kind: KindText, Text: text[last:loc[0]]})
		}
		match := text[loc[0]:loc[1]]
		segments = append(segments, Segment{Kind: KindLink, Text: match, Href: href(match)})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Kind: KindText, Text: text[last:]})
	}
	return segments
}

// normalizeURL gives scheme-less www. targets an explicit https scheme.
// Targets that already carry a scheme are left unmodified.
func normalizeURL(target string) string {
	if strings.HasPrefix(strings.ToLower(target), "www.") {
		return "https://" + target
	}
	return target
}
