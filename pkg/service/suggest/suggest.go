// Package suggest decides whether the caret sits inside an in-progress mention and
// filters the user directory into a short candidate list.
package suggest

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/model/mention"
)

// MaxCandidates caps the number of users offered for one query
const MaxCandidates = 5

// Trigger is an active mention: the '@' at Start and the partial query typed after it
type Trigger struct {
	Start int
	End   int
	Query string
}

// Suggestion is the ephemeral result of one detection pass
type Suggestion struct {
	Trigger
	Candidates []*model.User
}

// Directory provides the users to filter, in the order they should be offered
type Directory interface {
	Users() []*model.User
}

// ClampCaret keeps caret inside text and moves it back onto a rune boundary
func ClampCaret(text string, caret int) int {
	if caret < 0 {
		return 0
	}
	if caret > len(text) {
		return len(text)
	}
	for caret > 0 && caret < len(text) && !utf8.RuneStart(text[caret]) {
		caret--
	}
	return caret
}

// Detect finds the '@' nearest to the caret and reports whether it starts a mention.
// The '@' must be at the start of text or follow whitespace, and nothing between it
// and the caret may be whitespace. "email@domain" therefore never triggers, and neither
// does the '@' of an already encoded token.
func Detect(text string, caret int) (Trigger, bool) {
	caret = ClampCaret(text, caret)

	for i := caret; i > 0; {
		r, size := utf8.DecodeLastRuneInString(text[:i])
		i -= size

		if unicode.IsSpace(r) {
			return Trigger{}, false
		}
		if r != '@' {
			continue
		}

		if i > 0 {
			prev, _ := utf8.DecodeLastRuneInString(text[:i])
			if !unicode.IsSpace(prev) {
				return Trigger{}, false
			}
		}
		if startsToken(text, i) {
			return Trigger{}, false
		}
		return Trigger{Start: i, End: caret, Query: text[i+1 : caret]}, true
	}

	return Trigger{}, false
}

func startsToken(text string, at int) bool {
	for _, t := range mention.ExtractAll(text) {
		if t.Start == at {
			return true
		}
		if t.Start > at {
			break
		}
	}
	return false
}

// Engine runs detection and filters a Directory
type Engine struct {
	dir   Directory
	limit int
}

type Option func(*Engine)

// WithLimit overrides MaxCandidates
func WithLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

func NewEngine(dir Directory, opts ...Option) *Engine {
	e := &Engine{
		dir:   dir,
		limit: MaxCandidates,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Suggest returns the active mention at caret with its candidates. The bool is false when
// the caret is not inside a mention. An empty or unavailable directory still reports the
// mention, with no candidates.
func (e *Engine) Suggest(text string, caret int, currentUser model.UserID) (*Suggestion, bool) {
	trigger, ok := Detect(text, caret)
	if !ok {
		return nil, false
	}

	return &Suggestion{
		Trigger:    trigger,
		Candidates: e.Filter(trigger.Query, currentUser),
	}, true
}

// Filter matches query case-insensitively against nickname or full name, keeps directory
// order and excludes currentUser. An empty query matches everyone.
func (e *Engine) Filter(query string, currentUser model.UserID) []*model.User {
	q := strings.ToLower(query)

	result := make([]*model.User, 0, e.limit)
	for _, u := range e.dir.Users() {
		if len(result) >= e.limit {
			break
		}
		if u.ID == currentUser {
			continue
		}
		if q == "" ||
			strings.Contains(strings.ToLower(u.Nickname), q) ||
			strings.Contains(strings.ToLower(u.FullName), q) {
			result = append(result, u)
		}
	}
	return result
}
