package inbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueryOperators(t *testing.T) {
	params := ParseQuery("from:alice@example.com to:bob@example.com subject:invoice")

	assert.Equal(t, "alice@example.com", params.Get("from"))
	assert.Equal(t, "bob@example.com", params.Get("to"))
	assert.Equal(t, "invoice", params.Get("subject"))
	assert.Empty(t, params.Get("q"))
}

func TestParseQueryFlags(t *testing.T) {
	params := ParseQuery("has:attachment is:unread is:starred")

	assert.Equal(t, "true", params.Get("attachment"))
	assert.Equal(t, "true", params.Get("unread"))
	assert.Equal(t, "true", params.Get("starred"))
}

func TestParseQueryIsRead(t *testing.T) {
	params := ParseQuery("is:read")
	assert.Equal(t, "false", params.Get("unread"))
}

func TestParseQueryQuotedPhrase(t *testing.T) {
	params := ParseQuery(`subject:"quarterly report" budget`)

	assert.Equal(t, "quarterly report", params.Get("subject"))
	assert.Equal(t, "budget", params.Get("q"))
}

func TestParseQueryFreeTextPassthrough(t *testing.T) {
	params := ParseQuery("roadmap review notes")
	assert.Equal(t, "roadmap review notes", params.Get("q"))
}

func TestParseQueryMixed(t *testing.T) {
	params := ParseQuery("from:alice is:unread project kickoff")

	assert.Equal(t, "alice", params.Get("from"))
	assert.Equal(t, "true", params.Get("unread"))
	assert.Equal(t, "project kickoff", params.Get("q"))
}

func TestParseQueryEmptyOperatorValueIsFreeText(t *testing.T) {
	params := ParseQuery("from:")
	assert.Empty(t, params.Get("from"))
	assert.Equal(t, "from:", params.Get("q"))
}

func TestParseQueryEmpty(t *testing.T) {
	params := ParseQuery("")
	assert.Empty(t, params)
}
