package types_test

import (
	"testing"

	"github.com/bugnest/bugnest/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestContentType_EveryValueHasPresentation(t *testing.T) {
	for _, ct := range types.AllContentTypes() {
		t.Run(ct.String(), func(t *testing.T) {
			gt.Bool(t, ct.IsValid()).True()
			gt.Value(t, ct.Presentation()).NotEqual(types.FallbackPresentation)
		})
	}
}

func TestContentType_Presentation(t *testing.T) {
	tests := []struct {
		name      string
		ct        types.ContentType
		contentID string
		wantLabel string
		wantLink  string
	}{
		{"bug comment", types.ContentTypeBugComment, "bug-42", "bug comment", "/bugs/bug-42#comments"},
		{"topic", types.ContentTypeTopic, "t1", "discussion topic", "/topics/t1"},
		{"escaped id", types.ContentTypePrompt, "a/b c", "prompt", "/prompts/a%2Fb%20c"},
		{"unknown falls back", types.ContentType("wiki_page"), "w1", "content", "/notifications#w1"},
		{"empty falls back", types.ContentType(""), "x", "content", "/notifications#x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := tt.ct.Presentation()
			gt.Value(t, p.Label).Equal(tt.wantLabel)
			gt.Value(t, p.Link(tt.contentID)).Equal(tt.wantLink)
		})
	}
}

func TestParseContentType(t *testing.T) {
	ct, err := types.ParseContentType("bug_comment")
	gt.NoError(t, err).Required()
	gt.Value(t, ct).Equal(types.ContentTypeBugComment)

	_, err = types.ParseContentType("BUG_COMMENT")
	gt.Value(t, err).NotNil()
}
