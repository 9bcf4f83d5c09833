package statement

import "strings"

// buffer collects the tokens of one statement.
type buffer struct {
	tokens []string
}

func (b *buffer) push(token string) *buffer {
	b.tokens = append(b.tokens, token)
	return b
}

// String joins the tokens with single spaces.
func (b *buffer) String() string {
	return strings.Join(b.tokens, " ")
}

func quote(identifier string) string {
	return "`" + identifier + "`"
}

func quoteAll(identifiers []string) []string {
	quoted := make([]string, len(identifiers))
	for i, id := range identifiers {
		quoted[i] = quote(id)
	}
	return quoted
}

func list(items []string) string {
	return strings.Join(items, ", ")
}

func group(items []string) string {
	return "(" + list(items) + ")"
}
