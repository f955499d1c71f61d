package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Future-Scholars/paperlib-sync/internal/model"
)

func TestCreate_SeedsVersionRows(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	rec, err := e.Create(ctx, model.KindPaper, paperCreate("P1", "lib-1", 100, "dev-a"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, "Draft", *rec.Fields["title"])
	assert.Nil(t, rec.Fields["abstract"])
	assert.Equal(t, int64(100), rec.CreatedAt)
	assert.Equal(t, "dev-a", rec.CreatedByDeviceID)

	d, err := model.Describe(model.KindPaper)
	require.NoError(t, err)

	versions, err := e.History(ctx, model.KindPaper, "P1")
	require.NoError(t, err)
	require.Len(t, versions, len(d.Fields))
	for _, v := range versions {
		assert.Equal(t, int64(100), v.Timestamp, "field %s", v.Field)
		assert.Equal(t, "dev-a", v.DeviceID, "field %s", v.Field)
	}
}

func TestCreate_Idempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	first, err := e.Create(ctx, model.KindPaper, paperCreate("P1", "lib-1", 100, "dev-a"))
	require.NoError(t, err)

	// Replay with different content: stored record wins, untouched.
	replay := paperCreate("P1", "lib-1", 200, "dev-b")
	replay.Fields["title"] = model.Ptr("Other Title")
	second, err := e.Create(ctx, model.KindPaper, replay)
	require.NoError(t, err)
	assert.Equal(t, first.Fields["title"], second.Fields["title"])
	assert.Equal(t, "dev-a", second.CreatedByDeviceID)

	// Replay must not duplicate version rows either.
	d, err := model.Describe(model.KindPaper)
	require.NoError(t, err)
	versions, err := e.History(ctx, model.KindPaper, "P1")
	require.NoError(t, err)
	assert.Len(t, versions, len(d.Fields))
}

func TestCreate_DefaultTimestamp(t *testing.T) {
	e, clock := newTestEngine(t)
	ctx := context.Background()

	p := paperCreate("P1", "lib-1", 0, "dev-a")
	rec, err := e.Create(ctx, model.KindPaper, p)
	require.NoError(t, err)
	assert.Equal(t, clock.Now().UnixMilli(), rec.CreatedAt)
}

func TestCreate_Validation(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	cases := []struct {
		name    string
		kind    model.EntityKind
		payload model.CreatePayload
	}{
		{"missing id", model.KindPaper, model.CreatePayload{ScopeID: "lib-1", CreatedByDeviceID: "dev-a"}},
		{"missing device", model.KindPaper, model.CreatePayload{ID: "P1", ScopeID: "lib-1"}},
		{"scoped kind without scope", model.KindPaper, model.CreatePayload{ID: "P1", CreatedByDeviceID: "dev-a"}},
		{"unscoped kind with scope", model.KindAuthor, model.CreatePayload{ID: "A1", ScopeID: "lib-1", CreatedByDeviceID: "dev-a"}},
		{"unknown field", model.KindPaper, model.CreatePayload{
			ID: "P1", ScopeID: "lib-1", CreatedByDeviceID: "dev-a",
			Fields: map[string]*string{"pageCount": model.Ptr("12")},
		}},
		{"hash for non-opaque field", model.KindPaper, model.CreatePayload{
			ID: "P1", ScopeID: "lib-1", CreatedByDeviceID: "dev-a",
			Hashes: map[string]string{"title": "deadbeef"},
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Create(ctx, tc.kind, tc.payload)
			assert.Error(t, err)
		})
	}
}

func TestCreate_UnknownKind(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.Create(context.Background(), model.EntityKind("preprint"), model.CreatePayload{
		ID: "X1", CreatedByDeviceID: "dev-a",
	})
	assert.Error(t, err)
}

func TestDelete_CascadesToVersions(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Create(ctx, model.KindPaper, paperCreate("P1", "lib-1", 100, "dev-a"))
	require.NoError(t, err)

	rec, err := e.Delete(ctx, model.KindPaper, model.DeletePayload{
		ID: "P1", ScopeID: "lib-1", DeletedAt: 200, DeletedByDeviceID: "dev-b",
	})
	require.NoError(t, err)
	require.NotNil(t, rec)
	require.True(t, rec.Deleted())
	assert.Equal(t, int64(200), *rec.DeletedAt)
	assert.Equal(t, "dev-b", rec.DeletedByDeviceID)

	// Every version row carries the same tombstone.
	versions, err := e.History(ctx, model.KindPaper, "P1")
	require.NoError(t, err)
	require.NotEmpty(t, versions)
	for _, v := range versions {
		require.True(t, v.Deleted(), "field %s", v.Field)
		assert.Equal(t, int64(200), *v.DeletedAt, "field %s", v.Field)
		assert.Equal(t, "dev-b", v.DeletedByDeviceID, "field %s", v.Field)
	}

	// Gone from live reads.
	got, err := e.Get(ctx, model.KindPaper, "P1", "lib-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestDelete_Idempotent(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Create(ctx, model.KindPaper, paperCreate("P1", "lib-1", 100, "dev-a"))
	require.NoError(t, err)

	first, err := e.Delete(ctx, model.KindPaper, model.DeletePayload{
		ID: "P1", ScopeID: "lib-1", DeletedAt: 200, DeletedByDeviceID: "dev-a",
	})
	require.NoError(t, err)

	// Replayed delete keeps the original tombstone stamp.
	second, err := e.Delete(ctx, model.KindPaper, model.DeletePayload{
		ID: "P1", ScopeID: "lib-1", DeletedAt: 300, DeletedByDeviceID: "dev-b",
	})
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, *first.DeletedAt, *second.DeletedAt)
	assert.Equal(t, first.DeletedByDeviceID, second.DeletedByDeviceID)
}

func TestDelete_UnknownID(t *testing.T) {
	e, _ := newTestEngine(t)

	rec, err := e.Delete(context.Background(), model.KindPaper, model.DeletePayload{
		ID: "ghost", ScopeID: "lib-1", DeletedByDeviceID: "dev-a",
	})
	require.NoError(t, err)
	assert.Nil(t, rec)
}

func TestDelete_DefaultTimestamp(t *testing.T) {
	e, clock := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Create(ctx, model.KindPaper, paperCreate("P1", "lib-1", 100, "dev-a"))
	require.NoError(t, err)

	rec, err := e.Delete(ctx, model.KindPaper, model.DeletePayload{
		ID: "P1", ScopeID: "lib-1", DeletedByDeviceID: "dev-a",
	})
	require.NoError(t, err)
	assert.Equal(t, clock.Now().UnixMilli(), *rec.DeletedAt)
}

func TestCreate_AfterDeleteIsIgnored(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.Create(ctx, model.KindPaper, paperCreate("P1", "lib-1", 100, "dev-a"))
	require.NoError(t, err)
	_, err = e.Delete(ctx, model.KindPaper, model.DeletePayload{
		ID: "P1", ScopeID: "lib-1", DeletedAt: 200, DeletedByDeviceID: "dev-a",
	})
	require.NoError(t, err)

	// A replayed create from another device never resurrects the entity.
	rec, err := e.Create(ctx, model.KindPaper, paperCreate("P1", "lib-1", 300, "dev-b"))
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.True(t, rec.Deleted())

	got, err := e.Get(ctx, model.KindPaper, "P1", "lib-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestCreate_UnscopedKind(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	rec, err := e.Create(ctx, model.KindAuthor, model.CreatePayload{
		ID:                "A1",
		Fields:            map[string]*string{"name": model.Ptr("Ada Lovelace")},
		CreatedAt:         100,
		CreatedByDeviceID: "dev-a",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", *rec.Fields["name"])
	assert.Empty(t, rec.ScopeID)
}

func TestCreate_RejectsIDReuseAcrossScopes(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	// Ids are globally unique; the library scope is not part of identity.
	_, err := e.Create(ctx, model.KindPaper, paperCreate("P1", "lib-1", 100, "dev-a"))
	require.NoError(t, err)

	_, err = e.Create(ctx, model.KindPaper, paperCreate("P1", "lib-2", 100, "dev-a"))
	assert.Error(t, err)

	// The original stays live and untouched.
	a, err := e.Get(ctx, model.KindPaper, "P1", "lib-1")
	require.NoError(t, err)
	require.NotNil(t, a)
	assert.Equal(t, "lib-1", a.ScopeID)
}
