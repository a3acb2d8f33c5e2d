package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherklint97/daylog/internal/listitem"
	"github.com/christopherklint97/daylog/internal/project"
	"github.com/christopherklint97/daylog/internal/timecard"
	"github.com/christopherklint97/daylog/internal/timefmt"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", nil)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestLoadDocument_Missing(t *testing.T) {
	db := openTestDB(t)
	body, ok, err := db.LoadDocument(context.Background(), DocTodos)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, body)
}

func TestSaveDocument_Overwrites(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveDocument(ctx, DocTodos, "[]"))
	require.NoError(t, db.SaveDocument(ctx, DocTodos, `[{"id":"a"}]`))

	body, ok, err := db.LoadDocument(ctx, DocTodos)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, body)

	revs, err := db.History(ctx, DocTodos)
	require.NoError(t, err)
	require.Len(t, revs, 2)
	assert.Equal(t, `[{"id":"a"}]`, revs[0].Body)
	assert.Equal(t, "[]", revs[1].Body)
}

func TestSaveDocument_PrunesHistory(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	for i := 0; i < historyLimit+5; i++ {
		require.NoError(t, db.SaveDocument(ctx, DocProjects, "{}"))
	}
	revs, err := db.History(ctx, DocProjects)
	require.NoError(t, err)
	assert.Len(t, revs, historyLimit)
}

func TestRestorePrevious(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	require.NoError(t, db.SaveDocument(ctx, DocTimecard, `{"a":1}`))
	require.NoError(t, db.SaveDocument(ctx, DocTimecard, `{"b":2}`))
	require.NoError(t, db.RestorePrevious(ctx, DocTimecard))

	body, _, err := db.LoadDocument(ctx, DocTimecard)
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, body)

	err = db.RestorePrevious(ctx, DocTimecard)
	assert.ErrorIs(t, err, ErrNoHistory)
}

func TestState(t *testing.T) {
	db := openTestDB(t)

	v, err := db.GetState("last_reminder")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, db.SetState("last_reminder", "2024-05-01 10:00:00"))
	require.NoError(t, db.SetState("last_reminder", "2024-05-01 10:30:00"))
	v, err = db.GetState("last_reminder")
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01 10:30:00", v)
}

func TestTypedDocuments(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()
	clock := timefmt.FixedClock(time.Date(2024, 5, 1, 9, 0, 0, 0, timefmt.Zone))
	repo := listitem.NewRepository(clock, func() string { return "todo-1" })

	items, err := db.LoadItems(ctx, repo)
	require.NoError(t, err)
	assert.Empty(t, items)

	items = repo.AddTodo(items, "DEV-1", "write tests")
	items = repo.StartItemTimer(items, "todo-1")
	require.NoError(t, db.SaveItems(ctx, repo, items))

	loaded, err := db.LoadItems(ctx, repo)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "write tests", loaded[0].Text())
	assert.True(t, loaded[0].IsTimerRunning())

	card, err := db.LoadTimecard(ctx)
	require.NoError(t, err)
	assert.Empty(t, card)

	tc := timecard.NewRepository(clock)
	card = tc.AddCheckIn(card, "")
	require.NoError(t, db.SaveTimecard(ctx, card))
	card, err = db.LoadTimecard(ctx)
	require.NoError(t, err)
	assert.Equal(t, timecard.StateOpen, timecard.CurrentState(card, "2024-05-01"))

	projects, err := db.LoadProjects(ctx)
	require.NoError(t, err)
	assert.Empty(t, projects)

	projects, err = project.FromJSONText(`{"2024-05":[{"projectcode":"P1","color":"#ff0000","taskcodes":["DEV-1"]}]}`)
	require.NoError(t, err)
	require.NoError(t, db.SaveProjects(ctx, projects))
	projects, err = db.LoadProjects(ctx)
	require.NoError(t, err)
	color, ok := projects.ColorForTaskcode("2024-05-01", "DEV-1")
	assert.True(t, ok)
	assert.Equal(t, "#ff0000", color)
}

func TestOpen_FileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "daylog.db")
	db, err := Open(path, nil)
	require.NoError(t, err)
	require.NoError(t, db.SaveDocument(context.Background(), DocTodos, "[]"))
	require.NoError(t, db.Close())

	db, err = Open(path, nil)
	require.NoError(t, err)
	defer db.Close()
	_, ok, err := db.LoadDocument(context.Background(), DocTodos)
	require.NoError(t, err)
	assert.True(t, ok)
}
