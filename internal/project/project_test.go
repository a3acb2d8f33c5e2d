package project

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDoc = `{
  "2025-01": [
    {
      "projectcode": "ALPHA",
      "color": "#e57373",
      "taskcodes": [
        {"taskcode": "A-DEV", "keywords": ["implement", "fix"], "quickEntries": [{"text": "daily"}]},
        {"taskcode": "A-MTG", "keywords": ["meeting"]},
        "A-MISC"
      ],
      "owner": "ignored"
    },
    {
      "projectcode": "BETA",
      "color": "#64b5f6",
      "taskcodes": [
        {"taskcode": "B-DEV", "keywords": ["fix", "review"]},
        {"taskcode": "A-MISC"}
      ]
    }
  ],
  "2025-02": [
    {"projectcode": "GAMMA", "color": "#81c784", "taskcodes": ["A-DEV"]}
  ]
}`

func loadTestRepo(t *testing.T) Repository {
	t.Helper()
	repo, err := FromJSONText(testDoc)
	require.NoError(t, err)
	return repo
}

func TestFromJSONText_ProjectsOnlyKnownFields(t *testing.T) {
	repo := loadTestRepo(t)
	defs := repo["2025-01"]
	require.Len(t, defs, 2)
	assert.Equal(t, "ALPHA", defs[0].ProjectCode)
	assert.Equal(t, "#e57373", defs[0].Color)
	assert.Equal(t, []string{"A-DEV", "A-MTG", "A-MISC"}, defs[0].Codes())
	assert.Equal(t, []string{"implement", "fix"}, defs[0].Taskcodes[0].Keywords)
}

func TestColorForTaskcode(t *testing.T) {
	repo := loadTestRepo(t)

	color, ok := repo.ColorForTaskcode("2025-01-15", "B-DEV")
	require.True(t, ok)
	assert.Equal(t, "#64b5f6", color)

	// First definition wins when a code appears twice.
	color, ok = repo.ColorForTaskcode("2025-01-15 10:00:00", "A-MISC")
	require.True(t, ok)
	assert.Equal(t, "#e57373", color)

	// Scoped by month.
	color, ok = repo.ColorForTaskcode("2025-02-03", "A-DEV")
	require.True(t, ok)
	assert.Equal(t, "#81c784", color)

	_, ok = repo.ColorForTaskcode("2025-01-15", "UNKNOWN")
	assert.False(t, ok)
	_, ok = repo.ColorForTaskcode("2025-03-01", "A-DEV")
	assert.False(t, ok)
}

func TestFindTaskcodeByKeyword(t *testing.T) {
	repo := loadTestRepo(t)

	code, ok := repo.FindTaskcodeByKeyword("2025-01-20", "weekly meeting notes")
	require.True(t, ok)
	assert.Equal(t, "A-MTG", code)

	// Definition order before taskcode order.
	code, ok = repo.FindTaskcodeByKeyword("2025-01-20", "review and fix")
	require.True(t, ok)
	assert.Equal(t, "A-DEV", code)

	code, ok = repo.FindTaskcodeByKeyword("2025-01-20", "code review")
	require.True(t, ok)
	assert.Equal(t, "B-DEV", code)

	_, ok = repo.FindTaskcodeByKeyword("2025-01-20", "Meeting")
	assert.False(t, ok, "matching is case-sensitive")

	_, ok = repo.FindTaskcodeByKeyword("2025-02-20", "fix")
	assert.False(t, ok, "taskcodes without keywords never match")
}

func TestJSONText_RoundTrip(t *testing.T) {
	repo := Repository{
		"2025-01": {
			{ProjectCode: "ALPHA", Color: "#fff", Taskcodes: []Taskcode{{Code: "A", Keywords: []string{"x"}}, {Code: "B"}}},
		},
		"2025-02": {
			{ProjectCode: "BETA", Color: "#000", Taskcodes: []Taskcode{}},
		},
	}
	text, err := ToJSONText(repo)
	require.NoError(t, err)
	restored, err := FromJSONText(text)
	require.NoError(t, err)
	assert.Equal(t, repo, restored)
}

func TestFromJSONText_Errors(t *testing.T) {
	cases := map[string]string{
		"missing projectcode": `{"2025-01":[{"color":"#fff","taskcodes":[]}]}`,
		"bad taskcode":        `{"2025-01":[{"projectcode":"P","color":"#fff","taskcodes":[5]}]}`,
		"empty taskcode":      `{"2025-01":[{"projectcode":"P","color":"#fff","taskcodes":[{"keywords":["x"]}]}]}`,
		"month not array":     `{"2025-01":{"projectcode":"P"}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := FromJSONText(doc)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}

	_, err := FromJSONText(`{"2025-01":[`)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrValidation)
}

func TestMonths(t *testing.T) {
	repo := loadTestRepo(t)
	assert.Equal(t, []string{"2025-01", "2025-02"}, repo.Months())
}
