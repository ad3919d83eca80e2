package view

import "regexp"

// Segment is a piece of a highlighted field.
type Segment struct {
	Text  string
	Match bool
}

// Highlight splits text at case-insensitive occurrences of query.
// Matching segments have Match set; concatenating all segments yields text.
// An empty query returns text as a single non-matching segment.
func Highlight(text, query string) []Segment {
	if text == "" {
		return nil
	}
	if query == "" {
		return []Segment{{Text: text}}
	}

	re := matcher(query)

	var segments []Segment
	last := 0
	for _, loc := range re.FindAllStringIndex(text, -1) {
		if loc[0] > last {
			segments = append(segments, Segment{Text: text[last:loc[0]]})
		}
		segments = append(segments, Segment{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		segments = append(segments, Segment{Text: text[last:]})
	}
	return segments
}

// matcher compiles query as a literal, case-insensitive pattern. Filter uses
// the same pattern so a kept name always has a highlighted match.
func matcher(query string) *regexp.Regexp {
	return regexp.MustCompile("(?i)" + regexp.QuoteMeta(query))
}
