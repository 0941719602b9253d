package task

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func writeDoc(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "todos.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func newManager(t *testing.T, content string) *Manager {
	t.Helper()
	m, err := NewManager(writeDoc(t, content), nil)
	require.NoError(t, err)
	return m
}

func loadFromDisk(t *testing.T, path string) []Task {
	t.Helper()
	m, err := NewManager(path, nil)
	require.NoError(t, err)
	tasks, _ := m.List()
	return tasks
}

func TestNewManager_MissingFileIsStorageError(t *testing.T) {
	_, err := NewManager(filepath.Join(t.TempDir(), "missing.json"), nil)
	require.Error(t, err)

	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "read", se.Op)
	assert.True(t, os.IsNotExist(errors.Unwrap(err)))
}

func TestNewManager_InvalidContentIsFormatError(t *testing.T) {
	cases := map[string]string{
		"empty":           "",
		"not json":        "hello",
		"object":          `{"id": 1}`,
		"null document":   "null",
		"null element":    `[null]`,
		"not an object":   `[1]`,
		"missing title":   `[{"id": 1, "description": "x"}]`,
		"missing id":      `[{"title": "a", "description": "x"}]`,
		"null id":         `[{"id": null, "title": "a", "description": "x"}]`,
		"negative id":     `[{"id": -1, "title": "a", "description": "x"}]`,
		"id overflow":     `[{"id": 4294967296, "title": "a", "description": "x"}]`,
		"string id":       `[{"id": "1", "title": "a", "description": "x"}]`,
		"trailing":        `[] x`,
		"duplicate ids":   `[{"id": 1, "title": "a", "description": ""}, {"id": 1, "title": "b", "description": ""}]`,
		"bad title":       `[{"id": 1, "title": 7, "description": ""}]`,
		"upper-case keys": `[{"ID": 1, "TITLE": "a", "DESCRIPTION": "x"}]`,
		"duplicate key":   `[{"id": 1, "title": "a", "title": "b", "description": "x"}]`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NewManager(writeDoc(t, content), nil)
			var fe *FormatError
			require.ErrorAs(t, err, &fe, "content %q", content)
		})
	}
}

func TestNewManager_IgnoresUnknownFields(t *testing.T) {
	m := newManager(t, `[{"id": 4, "title": "a", "description": "b", "done": true}]`)
	got, err := m.Read(4)
	require.NoError(t, err)
	assert.Equal(t, Task{ID: 4, Title: "a", Description: "b"}, got)
}

func TestNewManager_KeysAreCaseExact(t *testing.T) {
	// Keys in a different case are unknown keys, so the exact ones still win.
	m := newManager(t, `[{"ID": 9, "id": 2, "Title": "other", "title": "a", "description": "b"}]`)
	got, err := m.Read(2)
	require.NoError(t, err)
	assert.Equal(t, Task{ID: 2, Title: "a", Description: "b"}, got)
	assert.Equal(t, Stats{Total: 1, LastID: 2}, m.Stats())
}

func TestStats(t *testing.T) {
	m := newManager(t, `[]`)
	assert.Equal(t, Stats{Total: 0, LastID: 0}, m.Stats())

	m = newManager(t, `[
		{"id": 3, "title": "c", "description": ""},
		{"id": 9, "title": "i", "description": ""},
		{"id": 5, "title": "e", "description": ""}
	]`)
	assert.Equal(t, Stats{Total: 3, LastID: 9}, m.Stats())
}

func TestCreate_AssignsLastIDPlusOneAndAppends(t *testing.T) {
	m := newManager(t, `[{"id": 7, "title": "seven", "description": ""}, {"id": 2, "title": "two", "description": ""}]`)

	created, err := m.Create("next", "desc")
	require.NoError(t, err)
	assert.Equal(t, Task{ID: 8, Title: "next", Description: "desc"}, created)

	tasks, stats := m.List()
	require.Len(t, tasks, 3)
	assert.Equal(t, created, tasks[len(tasks)-1])
	assert.Equal(t, Stats{Total: 3, LastID: 8}, stats)
}

func TestCreate_IDSpaceExhausted(t *testing.T) {
	m := newManager(t, `[{"id": 4294967295, "title": "max", "description": ""}]`)
	_, err := m.Create("one more", "")
	require.ErrorIs(t, err, ErrIDExhausted)
	assert.Equal(t, 1, m.Stats().Total)
	assert.Equal(t, uint32(math.MaxUint32), m.Stats().LastID)
}

func TestRead(t *testing.T) {
	m := newManager(t, `[]`)
	_, err := m.Read(1)
	require.ErrorIs(t, err, ErrNotFound)

	m = newManager(t, `[{"id": 1, "title": "a", "description": "b"}, {"id": 2, "title": "c", "description": "d"}]`)
	got, err := m.Read(2)
	require.NoError(t, err)
	assert.Equal(t, Task{ID: 2, Title: "c", Description: "d"}, got)

	_, err = m.Read(3)
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, uint32(3), nf.ID)
	assert.Equal(t, "task with id 3 not found", err.Error())
}

func TestUpdate_OverwritesFieldsKeepsIDAndPosition(t *testing.T) {
	m := newManager(t, `[
		{"id": 1, "title": "a", "description": "aa"},
		{"id": 2, "title": "b", "description": "bb"},
		{"id": 3, "title": "c", "description": "cc"}
	]`)

	updated, err := m.Update(2, "B", "")
	require.NoError(t, err)
	assert.Equal(t, Task{ID: 2, Title: "B", Description: ""}, updated)

	want := []Task{
		{ID: 1, Title: "a", Description: "aa"},
		{ID: 2, Title: "B", Description: ""},
		{ID: 3, Title: "c", Description: "cc"},
	}
	got, _ := m.List()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collection mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, loadFromDisk(t, m.Path())); diff != "" {
		t.Fatalf("persisted collection mismatch (-want +got):\n%s", diff)
	}

	_, err = m.Update(42, "x", "y")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_RemovesExactlyOneAndKeepsOrder(t *testing.T) {
	m := newManager(t, `[
		{"id": 1, "title": "a", "description": ""},
		{"id": 2, "title": "b", "description": ""},
		{"id": 3, "title": "c", "description": ""}
	]`)

	require.NoError(t, m.Delete(2))
	want := []Task{{ID: 1, Title: "a"}, {ID: 3, Title: "c"}}
	got, stats := m.List()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collection mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 2, stats.Total)
	if diff := cmp.Diff(want, loadFromDisk(t, m.Path())); diff != "" {
		t.Fatalf("persisted collection mismatch (-want +got):\n%s", diff)
	}

	err := m.Delete(2)
	require.ErrorIs(t, err, ErrNotFound, "second delete of the same id must fail")
}

func TestList_ReturnsCopy(t *testing.T) {
	m := newManager(t, `[{"id": 1, "title": "a", "description": ""}]`)
	tasks, _ := m.List()
	tasks[0].Title = "mutated"

	got, err := m.Read(1)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Title)
}

func TestScenario_CreateDeleteCreate(t *testing.T) {
	m := newManager(t, `[]`)

	t1, err := m.Create("Buy milk", "2%")
	require.NoError(t, err)
	assert.Equal(t, Task{ID: 1, Title: "Buy milk", Description: "2%"}, t1)

	t2, err := m.Create("Walk dog", "")
	require.NoError(t, err)
	assert.Equal(t, uint32(2), t2.ID)

	require.NoError(t, m.Delete(1))
	got, _ := m.List()
	if diff := cmp.Diff([]Task{{ID: 2, Title: "Walk dog"}}, got); diff != "" {
		t.Fatalf("collection mismatch (-want +got):\n%s", diff)
	}

	t3, err := m.Create("Read book", "")
	require.NoError(t, err)
	assert.Equal(t, uint32(3), t3.ID)
}

func TestScenario_IDReusedAfterDeletingHighest(t *testing.T) {
	m := newManager(t, `[{"id": 1, "title": "only", "description": ""}]`)
	require.NoError(t, m.Delete(1))
	assert.Equal(t, Stats{Total: 0, LastID: 0}, m.Stats())

	created, err := m.Create("again", "")
	require.NoError(t, err)
	assert.Equal(t, uint32(1), created.ID)
}

func TestPersist_RoundTripAndFormat(t *testing.T) {
	path := writeDoc(t, `[]`)
	m, err := NewManager(path, nil)
	require.NoError(t, err)

	_, err = m.Create("Buy milk", "2% <fat> & more")
	require.NoError(t, err)
	_, err = m.Create("Walk dog", "")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want := `[
  {
    "id": 1,
    "title": "Buy milk",
    "description": "2% <fat> & more"
  },
  {
    "id": 2,
    "title": "Walk dog",
    "description": ""
  }
]
`
	assert.Equal(t, want, string(data))

	written, _ := m.List()
	if diff := cmp.Diff(written, loadFromDisk(t, path)); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestPersist_DeletingLastTaskWritesEmptyArray(t *testing.T) {
	m := newManager(t, `[{"id": 1, "title": "a", "description": ""}]`)
	require.NoError(t, m.Delete(1))

	data, err := os.ReadFile(m.Path())
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestPersist_FailureRollsBackMemory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "todos.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"id": 1, "title": "a", "description": "b"}]`), 0o644))

	m, err := NewManager(path, nil)
	require.NoError(t, err)

	// Replace the data directory with a regular file so every write fails.
	require.NoError(t, os.RemoveAll(dir))
	require.NoError(t, os.WriteFile(dir, []byte("blocker"), 0o644))

	before, _ := m.List()

	_, err = m.Create("new", "")
	var se *StorageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "write", se.Op)

	_, err = m.Update(1, "changed", "changed")
	require.ErrorAs(t, err, &se)

	err = m.Delete(1)
	require.ErrorAs(t, err, &se)

	after, _ := m.List()
	if diff := cmp.Diff(before, after); diff != "" {
		t.Fatalf("memory changed after failed writes (-want +got):\n%s", diff)
	}
}

func TestInitFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "todos.json")

	created, err := InitFile(path)
	require.NoError(t, err)
	assert.True(t, created)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	m, err := NewManager(path, nil)
	require.NoError(t, err)
	_, err = m.Create("keep me", "")
	require.NoError(t, err)

	created, err = InitFile(path)
	require.NoError(t, err)
	assert.False(t, created, "existing file must not be overwritten")
	assert.Len(t, loadFromDisk(t, path), 1)
}
