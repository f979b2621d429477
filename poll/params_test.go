package poll

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	q, err := ParseQuery(url.Values{"year": {"2024"}, "quarter": {"q2"}, "month": {"5"}})
	require.NoError(t, err)
	assert.Equal(t, Query{Year: "2024", Quarter: Q2, Month: "05"}, q)
}

func TestParseQuerySearchClearsDates(t *testing.T) {
	q, err := ParseQuery(url.Values{"year": {"2024"}, "month": {"01"}, "q": {" foo "}})
	require.NoError(t, err)
	assert.Equal(t, Query{Search: "foo"}, q)
}

func TestParseQueryRejectsBadInput(t *testing.T) {
	_, err := ParseQuery(url.Values{"quarter": {"Q5"}})
	assert.ErrorIs(t, err, ErrInvalidQuarter)

	_, err = ParseQuery(url.Values{"month": {"13"}})
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestQueryValuesRoundTrip(t *testing.T) {
	in := Query{Year: "2023", Quarter: Q4, Month: "11"}
	out, err := ParseQuery(in.Values())
	require.NoError(t, err)
	assert.Equal(t, in, out)
	assert.Empty(t, Query{}.Values())
}

func TestParseSort(t *testing.T) {
	s, ok, err := ParseSort(url.Values{})
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, DefaultSort(), s)

	s, ok, err = ParseSort(url.Values{"sort": {"votes"}, "dir": {"asc"}})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, SortState{Field: SortVotes, Direction: Asc}, s)

	_, _, err = ParseSort(url.Values{"sort": {"views"}})
	assert.ErrorIs(t, err, ErrInvalidSortField)

	_, _, err = ParseSort(url.Values{"dir": {"up"}})
	assert.ErrorIs(t, err, ErrInvalidDirection)
}
