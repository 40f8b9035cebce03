// Package compose implements the per-field mention input state machine.
//
// A Controller owns the suggestion state of exactly one editable field. Hosts feed it change,
// caret and key events and re-render whatever Edit it hands back; the popup is drawn from the
// stateless PopupView.
package compose

import (
	"errors"
	"sync"

	"github.com/bugnest/bugnest/pkg/domain/model"
	"github.com/bugnest/bugnest/pkg/domain/model/mention"
	"github.com/bugnest/bugnest/pkg/service/suggest"
	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrNotComposing     = errors.New("no mention is being composed")
	ErrInvalidSelection = errors.New("candidate index out of range")
)

// Edit is the new field value the host must render
type Edit struct {
	Text  string
	Caret int
}

// KeyResult tells the host what happened to a key press. When PreventDefault is set the
// host must not apply the key's normal effect (newline, tab, caret move).
type KeyResult struct {
	Handled        bool
	PreventDefault bool
	Edit           *Edit
}

// Detection is the result of running suggestion detection for one input event.
// It can be computed off the event loop and applied later with Controller.Apply.
type Detection struct {
	Seq        uint64
	Text       string
	Caret      int
	Active     bool
	Suggestion *suggest.Suggestion

	generation uint64
}

// PopupView holds everything a stateless popup needs to draw itself
type PopupView struct {
	Open       bool
	Query      string
	Start      int
	Candidates []*model.User
	Selected   int
}

// Controller is the mention state machine for one field
type Controller struct {
	engine      *suggest.Engine
	currentUser model.UserID

	mu         sync.Mutex
	state      State
	lastSeq    uint64
	generation uint64
	text       string
	caret      int
	suggestion *suggest.Suggestion
	selected   int
}

// NewController creates a Controller for a field edited by currentUser, who is never offered
// as a candidate.
func NewController(engine *suggest.Engine, currentUser model.UserID) *Controller {
	return &Controller{
		engine:      engine,
		currentUser: currentUser,
		state:       StateIdle,
	}
}

// Detect runs detection for the input event seq. It does not touch the controller state
// beyond reading the focus generation.
func (c *Controller) Detect(seq uint64, text string, caret int) Detection {
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()

	caret = suggest.ClampCaret(text, caret)
	s, ok := c.engine.Suggest(text, caret, c.currentUser)

	return Detection{
		Seq:        seq,
		Text:       text,
		Caret:      caret,
		Active:     ok && text != "",
		Suggestion: s,
		generation: gen,
	}
}

// Apply makes d the current state unless a newer event was already applied or the field lost
// focus after d was computed. It reports whether d was applied.
func (c *Controller) Apply(d Detection) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if d.generation != c.generation || d.Seq <= c.lastSeq {
		return false
	}

	c.lastSeq = d.Seq
	c.text = d.Text
	c.caret = d.Caret

	if !d.Active {
		c.reset()
		return true
	}

	// same trigger and query means the user is navigating; keep the selection
	if c.state == StateComposing && c.suggestion != nil &&
		c.suggestion.Start == d.Suggestion.Start && c.suggestion.Query == d.Suggestion.Query {
		if c.selected >= len(d.Suggestion.Candidates) {
			c.selected = 0
		}
	} else {
		c.selected = 0
	}

	c.state = StateComposing
	c.suggestion = d.Suggestion
	return true
}

// HandleChange processes a text change event
func (c *Controller) HandleChange(seq uint64, text string, caret int) bool {
	return c.Apply(c.Detect(seq, text, caret))
}

// HandleCaretMove processes a click or caret movement without a text change
func (c *Controller) HandleCaretMove(seq uint64, text string, caret int) bool {
	return c.Apply(c.Detect(seq, text, caret))
}

// HandleKeyDown applies the popup keyboard contract. Keys are ignored while idle or when there
// is nothing to select.
func (c *Controller) HandleKeyDown(key Key) KeyResult {
	c.mu.Lock()
	if c.state != StateComposing || c.suggestion == nil || len(c.suggestion.Candidates) == 0 {
		c.mu.Unlock()
		return KeyResult{}
	}

	n := len(c.suggestion.Candidates)
	switch key {
	case KeyArrowDown:
		c.selected = (c.selected + 1) % n
		c.mu.Unlock()
		return KeyResult{Handled: true, PreventDefault: true}

	case KeyArrowUp:
		c.selected = (c.selected - 1 + n) % n
		c.mu.Unlock()
		return KeyResult{Handled: true, PreventDefault: true}

	case KeyEscape:
		c.reset()
		c.mu.Unlock()
		return KeyResult{Handled: true, PreventDefault: true}

	case KeyEnter, KeyTab:
		edit, err := c.commit(c.selected)
		c.mu.Unlock()
		if err != nil {
			// an unencodable name leaves the text alone; the key is still swallowed
			return KeyResult{Handled: true, PreventDefault: true}
		}
		return KeyResult{Handled: true, PreventDefault: true, Edit: &edit}
	}

	c.mu.Unlock()
	return KeyResult{}
}

// Commit splices candidate index of the current suggestion into the text. The half typed
// span [start, caret) becomes the encoded token followed by a space and the caret lands right
// after that space.
func (c *Controller) Commit(index int) (Edit, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit(index)
}

func (c *Controller) commit(index int) (Edit, error) {
	if c.state != StateComposing || c.suggestion == nil {
		return Edit{}, goerr.Wrap(ErrNotComposing, "cannot commit", goerr.V("state", c.state.String()))
	}
	if index < 0 || index >= len(c.suggestion.Candidates) {
		return Edit{}, goerr.Wrap(ErrInvalidSelection, "cannot commit",
			goerr.V("index", index), goerr.V("candidates", len(c.suggestion.Candidates)))
	}

	c.state = StateCommitting
	edit, err := Splice(c.text, c.suggestion.Trigger, c.suggestion.Candidates[index])
	if err != nil {
		c.state = StateComposing
		return Edit{}, goerr.Wrap(err, "cannot commit")
	}

	c.text = edit.Text
	c.caret = edit.Caret
	c.reset()
	return edit, nil
}

// Splice replaces the span [trigger.Start, trigger.End) of text with the token for user and a
// trailing space. The caret is placed right after the space.
func Splice(text string, trigger suggest.Trigger, user *model.User) (Edit, error) {
	if trigger.Start < 0 || trigger.End < trigger.Start || trigger.End > len(text) {
		return Edit{}, goerr.New("trigger is outside of text",
			goerr.V("start", trigger.Start), goerr.V("end", trigger.End), goerr.V("length", len(text)))
	}

	token, err := mention.Encode(user.DisplayName(), string(user.ID))
	if err != nil {
		return Edit{}, goerr.Wrap(err, "failed to encode mention", goerr.V("user_id", user.ID))
	}

	inserted := token + " "
	return Edit{
		Text:  text[:trigger.Start] + inserted + text[trigger.End:],
		Caret: trigger.Start + len(inserted),
	}, nil
}

// Close dismisses the popup without touching the text (Escape or a click outside the popup)
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reset()
}

// Blur returns to idle and discards detections computed before the focus was lost
func (c *Controller) Blur() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.reset()
}

func (c *Controller) reset() {
	c.state = StateIdle
	c.suggestion = nil
	c.selected = 0
}

// State returns the current state
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View returns the popup props. The popup is closed when there are no candidates.
func (c *Controller) View() PopupView {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateComposing || c.suggestion == nil {
		return PopupView{}
	}

	candidates := make([]*model.User, len(c.suggestion.Candidates))
	copy(candidates, c.suggestion.Candidates)

	return PopupView{
		Open:       len(candidates) > 0,
		Query:      c.suggestion.Query,
		Start:      c.suggestion.Start,
		Candidates: candidates,
		Selected:   c.selected,
	}
}
