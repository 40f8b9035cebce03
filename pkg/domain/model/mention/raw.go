package mention

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Candidate maps a display name to the user it stands for when turning display text back into raw text
type Candidate struct {
	DisplayName string
	UserID      string
}

type nameEntry struct {
	name      string
	userID    string
	ambiguous bool
}

// prevName queues the user IDs of earlier tokens sharing one display name, in document order
type prevName struct {
	name string
	ids  []string
	next int
}

// take returns the user ID for the next occurrence of the name. Once the queue is used up, extra
// occurrences resolve only when every earlier token with the name pointed at the same user.
func (p *prevName) take() (string, bool) {
	if p.next < len(p.ids) {
		id := p.ids[p.next]
		p.next++
		return id, true
	}
	for _, id := range p.ids[1:] {
		if id != p.ids[0] {
			return "", false
		}
	}
	return p.ids[0], true
}

// ToRawText re-encodes typed @name sequences of display into tokens.
//
// previous holds the tokens of the raw value display was derived from and wins over directory.
// The k-th @name in display takes the k-th previous token with that name, so users sharing a
// display name keep their IDs. A directory name that maps to several users is ambiguous and
// stays literal, as does any name not found at all. Tokens already present in display are kept
// untouched.
func ToRawText(display string, previous []Token, directory []Candidate) string {
	prev, prevByName := buildPrevNames(previous)
	dirTier := buildNameTier(directory)

	existing := ExtractAll(display)

	var b strings.Builder
	b.Grow(len(display))

	next := 0
	for i := 0; i < len(display); {
		for next < len(existing) && existing[next].Start < i {
			next++
		}
		if next < len(existing) && existing[next].Start == i {
			t := existing[next]
			if p, ok := prevByName[strings.ToLower(t.DisplayName)]; ok && p.next < len(p.ids) && p.ids[p.next] == t.UserID {
				p.next++
			}
			b.WriteString(display[i:t.End()])
			i = t.End()
			next++
			continue
		}

		if display[i] == '@' && isTriggerPosition(display, i) {
			if token, n, ok := resolveName(display[i+1:], prev, dirTier); ok {
				b.WriteString(token.String())
				i += 1 + n
				continue
			}
		}

		b.WriteByte(display[i])
		i++
	}

	return b.String()
}

func validCandidate(c Candidate) bool {
	return c.DisplayName != "" && !strings.Contains(c.DisplayName, "]") && !strings.Contains(c.UserID, ")")
}

func buildPrevNames(previous []Token) ([]*prevName, map[string]*prevName) {
	byName := make(map[string]*prevName)
	var list []*prevName
	for _, t := range previous {
		if !validCandidate(Candidate{DisplayName: t.DisplayName, UserID: t.UserID}) {
			continue
		}
		key := strings.ToLower(t.DisplayName)
		p, ok := byName[key]
		if !ok {
			p = &prevName{name: t.DisplayName}
			byName[key] = p
			list = append(list, p)
		}
		p.ids = append(p.ids, t.UserID)
	}
	sort.SliceStable(list, func(i, j int) bool {
		return len(list[i].name) > len(list[j].name)
	})
	return list, byName
}

func buildNameTier(candidates []Candidate) []nameEntry {
	byName := make(map[string]*nameEntry)
	var order []string
	for _, c := range candidates {
		if !validCandidate(c) {
			continue
		}
		key := strings.ToLower(c.DisplayName)
		if e, ok := byName[key]; ok {
			if e.userID != c.UserID {
				e.ambiguous = true
			}
			continue
		}
		byName[key] = &nameEntry{name: c.DisplayName, userID: c.UserID}
		order = append(order, key)
	}

	tier := make([]nameEntry, 0, len(order))
	for _, key := range order {
		tier = append(tier, *byName[key])
	}
	// Longest names first so "@Bob Smith" is not taken as "@Bob"
	sort.SliceStable(tier, func(i, j int) bool {
		return len(tier[i].name) > len(tier[j].name)
	})
	return tier
}

func hasName(rest, name string) bool {
	n := len(name)
	return n <= len(rest) && strings.EqualFold(rest[:n], name) && isNameBoundary(rest[n:])
}

// resolveName matches the name following an @ against earlier tokens first, then the directory
func resolveName(rest string, prev []*prevName, dirTier []nameEntry) (Token, int, bool) {
	for _, p := range prev {
		if !hasName(rest, p.name) {
			continue
		}
		if id, ok := p.take(); ok {
			return Token{DisplayName: p.name, UserID: id}, len(p.name), true
		}
		break
	}

	for _, e := range dirTier {
		if !hasName(rest, e.name) {
			continue
		}
		if e.ambiguous {
			return Token{}, 0, false
		}
		return Token{DisplayName: e.name, UserID: e.userID}, len(e.name), true
	}
	return Token{}, 0, false
}

func isTriggerPosition(text string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(text[:i])
	return unicode.IsSpace(r)
}

func isNameBoundary(rest string) bool {
	if rest == "" {
		return true
	}
	r, _ := utf8.DecodeRuneInString(rest)
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}
