package inbox

import (
	"net/url"
	"strings"
)

// ParseQuery translates a user search string into discrete query
// parameters for the search endpoint. Recognized operators are from:,
// to:, subject:, has:attachment, is:unread, is:read, and is:starred;
// leftover free text is passed through as the general-text parameter "q".
//
// subject: consumes a quoted phrase when present (subject:"hello world").
func ParseQuery(query string) url.Values {
	params := url.Values{}
	var free []string

	for _, token := range tokenize(query) {
		lower := strings.ToLower(token)
		switch {
		case strings.HasPrefix(lower, "from:"):
			if v := token[len("from:"):]; v != "" {
				params.Set("from", unquote(v))
				continue
			}
		case strings.HasPrefix(lower, "to:"):
			if v := token[len("to:"):]; v != "" {
				params.Set("to", unquote(v))
				continue
			}
		case strings.HasPrefix(lower, "subject:"):
			if v := token[len("subject:"):]; v != "" {
				params.Set("subject", unquote(v))
				continue
			}
		case lower == "has:attachment":
			params.Set("attachment", "true")
			continue
		case lower == "is:unread":
			params.Set("unread", "true")
			continue
		case lower == "is:read":
			params.Set("unread", "false")
			continue
		case lower == "is:starred":
			params.Set("starred", "true")
			continue
		}
		free = append(free, token)
	}

	if len(free) > 0 {
		params.Set("q", strings.Join(free, " "))
	}

	return params
}

// tokenize splits a query on whitespace, keeping operator values quoted
// with double quotes together with their operator.
func tokenize(query string) []string {
	var tokens []string
	var current strings.Builder
	inQuote := false

	for _, r := range query {
		switch {
		case r == '"':
			inQuote = !inQuote
			current.WriteRune(r)
		case r == ' ' && !inQuote:
			if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}
	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}

	return tokens
}

// unquote strips surrounding double quotes from an operator value.
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
