package mention

// Segment is a run of plain text or a single mention, used by renderers
type Segment struct {
	Text    string
	Mention *Token
}

// IsMention reports whether the segment is a mention
func (s Segment) IsMention() bool {
	return s.Mention != nil
}

// Segments splits text into alternating plain and mention segments.
// Mention segments carry "@displayName" as Text. Empty plain runs are omitted.
func Segments(text string) []Segment {
	tokens := ExtractAll(text)
	segments := make([]Segment, 0, len(tokens)*2+1)

	pos := 0
	for i := range tokens {
		tok := tokens[i]
		if tok.Start > pos {
			segments = append(segments, Segment{Text: text[pos:tok.Start]})
		}
		segments = append(segments, Segment{Text: "@" + tok.DisplayName, Mention: &tok})
		pos = tok.End()
	}
	if pos < len(text) {
		segments = append(segments, Segment{Text: text[pos:]})
	}
	return segments
}
