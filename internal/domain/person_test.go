package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"AdverseScreener/internal/names"
)

func testNicknames(t *testing.T) *names.NicknameTable {
	t.Helper()
	table, err := names.LoadNicknames(strings.NewReader("robert,bob,rob\n"))
	require.NoError(t, err)
	return table
}

func TestQueryPersonNormalise(t *testing.T) {
	t.Parallel()

	q := QueryPerson{Name: "  robert   SMITH ", DateOfBirth: "15 Jan 1980"}
	q.Normalise(testNicknames(t))

	assert.Equal(t, "Robert Smith", q.NormalisedName)
	assert.Equal(t, []string{"bob", "rob"}, q.PossibleNicknames)
	require.NotNil(t, q.BirthYear)
	assert.Equal(t, 1980, *q.BirthYear)
}

func TestQueryPersonNormaliseIsIdempotent(t *testing.T) {
	t.Parallel()

	provider := testNicknames(t)
	q := QueryPerson{Name: "Bob Jones", DateOfBirth: "1975-06-01"}

	q.Normalise(provider)
	first := q
	first.PossibleNicknames = append([]string(nil), q.PossibleNicknames...)

	q.Normalise(provider)
	assert.Equal(t, first, q)
}

func TestQueryPersonNormaliseWithoutDOB(t *testing.T) {
	t.Parallel()

	q := QueryPerson{Name: "Jane Doe"}
	q.Normalise(testNicknames(t))

	assert.Nil(t, q.BirthYear)
	assert.Nil(t, q.PossibleNicknames)
}

func TestQueryPersonPromptFields(t *testing.T) {
	t.Parallel()

	bare := QueryPerson{Name: "jane doe"}
	assert.Equal(t, QueryPromptFields{
		QueryName:           "jane doe",
		QueryNormalisedName: "jane doe",
		QueryNicknames:      "None",
		QueryDOB:            "Unknown",
		QueryBirthYear:      "Unknown",
	}, bare.PromptFields())

	full := QueryPerson{Name: "robert smith", DateOfBirth: "1980-01-15"}
	full.Normalise(testNicknames(t))
	assert.Equal(t, QueryPromptFields{
		QueryName:           "robert smith",
		QueryNormalisedName: "Robert Smith",
		QueryNicknames:      "bob, rob",
		QueryDOB:            "1980-01-15",
		QueryBirthYear:      "1980",
	}, full.PromptFields())
}
