package types

import (
	"fmt"
	"net/url"
)

// ContentType identifies the kind of content a mention was written in
type ContentType string

const (
	ContentTypeBug            ContentType = "bug"
	ContentTypeBugComment     ContentType = "bug_comment"
	ContentTypeFeatureRequest ContentType = "feature_request"
	ContentTypeFeatureComment ContentType = "feature_comment"
	ContentTypeRoadmapItem    ContentType = "roadmap_item"
	ContentTypeRoadmapComment ContentType = "roadmap_comment"
	ContentTypePrompt         ContentType = "prompt"
	ContentTypePromptComment  ContentType = "prompt_comment"
	ContentTypeTopic          ContentType = "topic"
	ContentTypeTopicReply     ContentType = "topic_reply"
)

// Presentation is how a content type is shown in the notification feed.
// LinkPattern takes the url-escaped content ID as its only argument.
type Presentation struct {
	Label       string
	LinkPattern string
}

// Link builds the navigable target for contentID
func (p Presentation) Link(contentID string) string {
	return fmt.Sprintf(p.LinkPattern, url.PathEscape(contentID))
}

// FallbackPresentation is used for content types this build does not know.
var FallbackPresentation = Presentation{
	Label:       "content",
	LinkPattern: "/notifications#%s",
}

var presentations = map[ContentType]Presentation{
	ContentTypeBug:            {Label: "bug report", LinkPattern: "/bugs/%s"},
	ContentTypeBugComment:     {Label: "bug comment", LinkPattern: "/bugs/%s#comments"},
	ContentTypeFeatureRequest: {Label: "feature request", LinkPattern: "/features/%s"},
	ContentTypeFeatureComment: {Label: "feature request comment", LinkPattern: "/features/%s#comments"},
	ContentTypeRoadmapItem:    {Label: "roadmap item", LinkPattern: "/roadmap/%s"},
	ContentTypeRoadmapComment: {Label: "roadmap comment", LinkPattern: "/roadmap/%s#comments"},
	ContentTypePrompt:         {Label: "prompt", LinkPattern: "/prompts/%s"},
	ContentTypePromptComment:  {Label: "prompt comment", LinkPattern: "/prompts/%s#comments"},
	ContentTypeTopic:          {Label: "discussion topic", LinkPattern: "/topics/%s"},
	ContentTypeTopicReply:     {Label: "discussion reply", LinkPattern: "/topics/%s#replies"},
}

// AllContentTypes returns all valid content types
func AllContentTypes() []ContentType {
	return []ContentType{
		ContentTypeBug,
		ContentTypeBugComment,
		ContentTypeFeatureRequest,
		ContentTypeFeatureComment,
		ContentTypeRoadmapItem,
		ContentTypeRoadmapComment,
		ContentTypePrompt,
		ContentTypePromptComment,
		ContentTypeTopic,
		ContentTypeTopicReply,
	}
}

// IsValid checks if the content type is valid
func (c ContentType) IsValid() bool {
	_, ok := presentations[c]
	return ok
}

// Presentation returns the label and link pattern for c, or FallbackPresentation
func (c ContentType) Presentation() Presentation {
	if p, ok := presentations[c]; ok {
		return p
	}
	return FallbackPresentation
}

// String returns the string representation of the content type
func (c ContentType) String() string {
	return string(c)
}

// ParseContentType parses a string into a ContentType
func ParseContentType(s string) (ContentType, error) {
	c := ContentType(s)
	if !c.IsValid() {
		return "", fmt.Errorf("invalid content type: %s", s)
	}
	return c, nil
}
