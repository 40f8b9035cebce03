package compose

import (
	"sync"

	"github.com/bugnest/bugnest/pkg/domain/model/mention"
)

// CandidateSource resolves typed @name sequences, normally a *directory.Cache
type CandidateSource interface {
	Candidates() []mention.Candidate
}

// DisplayField shows "@name" to the user while keeping the tokenized raw value that is
// actually submitted.
type DisplayField struct {
	dir CandidateSource

	mu  sync.Mutex
	raw string
}

func NewDisplayField(raw string, dir CandidateSource) *DisplayField {
	return &DisplayField{raw: raw, dir: dir}
}

// Display returns the read-friendly form of the raw value
func (f *DisplayField) Display() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return mention.ToDisplayText(f.raw)
}

// SetDisplay stores an edit made on the display form and returns the new raw value.
// Names of mentions already in the field win over directory lookups so a renamed or
// ambiguous user keeps resolving to the same ID.
func (f *DisplayField) SetDisplay(edited string) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	previous := mention.ExtractAll(f.raw)
	var directory []mention.Candidate
	if f.dir != nil {
		directory = f.dir.Candidates()
	}
	f.raw = mention.ToRawText(edited, previous, directory)
	return f.raw
}

// SetRaw replaces the raw value, e.g. after a Controller commit
func (f *DisplayField) SetRaw(raw string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.raw = raw
}

// Raw returns the value to submit
func (f *DisplayField) Raw() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.raw
}
