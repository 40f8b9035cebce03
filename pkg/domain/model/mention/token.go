// Package mention implements the inline mention token format @[displayName](userId).
// Every function here is pure; offsets are byte offsets into the given string.
package mention

import (
	"errors"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

// ErrEncoding is returned when a display name or user ID contains a token delimiter
var ErrEncoding = errors.New("mention field contains a token delimiter")

var tokenPattern = regexp.MustCompile(`@\[([^\]]*)\]\(([^)]*)\)`)

// Token is one mention found in a text
type Token struct {
	DisplayName string
	UserID      string
	Start       int
	Length      int
}

// End returns the offset just past the token
func (t Token) End() int {
	return t.Start + t.Length
}

// String re-encodes the token. Tokens returned by ExtractAll always encode back to their source text.
func (t Token) String() string {
	return "@[" + t.DisplayName + "](" + t.UserID + ")"
}

// Encode builds the inline token for a user
func Encode(displayName, userID string) (string, error) {
	if strings.Contains(displayName, "]") {
		return "", goerr.Wrap(ErrEncoding, "display name must not contain ']'", goerr.V("display_name", displayName))
	}
	if strings.Contains(userID, ")") {
		return "", goerr.Wrap(ErrEncoding, "user ID must not contain ')'", goerr.V("user_id", userID))
	}
	return Token{DisplayName: displayName, UserID: userID}.String(), nil
}

// ExtractAll returns every token in text in document order. Matches never overlap.
func ExtractAll(text string) []Token {
	if text == "" {
		return []Token{}
	}

	matches := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	tokens := make([]Token, 0, len(matches))
	for _, m := range matches {
		tokens = append(tokens, Token{
			DisplayName: text[m[2]:m[3]],
			UserID:      text[m[4]:m[5]],
			Start:       m[0],
			Length:      m[1] - m[0],
		})
	}
	return tokens
}

// ToDisplayText replaces every token with @displayName. Literal @text that is not a token is left alone.
func ToDisplayText(text string) string {
	return tokenPattern.ReplaceAllString(text, "@$1")
}
