package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdd(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		req, err := ParseAdd("add 0900 1030 Intro to Go /at Lecture Hall 2", "2019-03-01")
		require.NoError(t, err)
		assert.Equal(t, Request{
			Start:     "01/03/2019 0900",
			End:       "01/03/2019 1030",
			ClassName: "Intro to Go",
			Location:  "Lecture Hall 2",
		}, req)
	})

	tests := []struct {
		name  string
		input string
		date  string
	}{
		{name: "not an add", input: "remove 0900 1000 CS101 /at Room1", date: "2019-03-01"},
		{name: "too short", input: "add 0900 1000", date: "2019-03-01"},
		{name: "bad start", input: "add 9am 1000 CS101 /at Room1", date: "2019-03-01"},
		{name: "bad end", input: "add 0900 2500 CS101 /at Room1", date: "2019-03-01"},
		{name: "missing location marker", input: "add 0900 1000 CS101 Room1", date: "2019-03-01"},
		{name: "missing class", input: "add 0900 1000 /at Room1", date: "2019-03-01"},
		{name: "missing location", input: "add 0900 1000 CS101 /at", date: "2019-03-01"},
		{name: "bad date", input: "add 0900 1000 CS101 /at Room1", date: "01/03/2019"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseAdd(tt.input, tt.date)
			assert.ErrorIs(t, err, ErrMalformedCommand)
		})
	}
}
