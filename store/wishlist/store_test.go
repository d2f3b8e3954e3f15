package wishlist

import (
	"testing"

	"storefront/internal/localstore"
	"storefront/model"
	"storefront/store/notify"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(id, name string) model.Product {
	return model.Product{ID: id, Name: name, Price: 10}
}

func TestAddAndDuplicate(t *testing.T) {
	local := localstore.NewMemory()
	rec := notify.NewRecorder()
	s := New(local, rec)

	s.Add(product("p1", "Widget"))
	assert.Equal(t, 1, s.Count())
	last, _ := rec.Last()
	assert.Equal(t, "Widget added to wishlist!", last.Message)
	assert.Equal(t, notify.Success, last.Severity)

	// Adding again is a no-op with an info notice.
	s.Add(product("p1", "Widget"))
	assert.Equal(t, 1, s.Count())
	last, _ = rec.Last()
	assert.Equal(t, "Widget is already in your wishlist", last.Message)
	assert.Equal(t, notify.Info, last.Severity)
}

func TestRemove(t *testing.T) {
	local := localstore.NewMemory()
	rec := notify.NewRecorder()
	s := New(local, rec)
	s.Add(product("p1", "Widget"))

	s.Remove("p1")
	assert.Equal(t, 0, s.Count())
	last, _ := rec.Last()
	assert.Equal(t, "Widget removed from wishlist", last.Message)

	// Removing an unknown id is silent.
	rec.Reset()
	s.Remove("nope")
	assert.Empty(t, rec.All())
}

func TestToggle(t *testing.T) {
	s := New(localstore.NewMemory(), notify.NewRecorder())

	s.Toggle(product("p1", "Widget"))
	assert.True(t, s.Contains("p1"))
	s.Toggle(product("p1", "Widget"))
	assert.False(t, s.Contains("p1"))
}

func TestPersistsAcrossRestart(t *testing.T) {
	local := localstore.NewMemory()
	s := New(local, notify.NewRecorder())
	s.Add(product("p1", "Widget"))
	s.Add(product("p2", "Gadget"))

	s2 := New(local, notify.NewRecorder())
	require.Equal(t, 2, s2.Count())
	assert.True(t, s2.Contains("p1"))
	assert.True(t, s2.Contains("p2"))
}

func TestClear(t *testing.T) {
	local := localstore.NewMemory()
	s := New(local, notify.NewRecorder())
	s.Add(product("p1", "Widget"))

	s.Clear()
	assert.Equal(t, 0, s.Count())

	s2 := New(local, notify.NewRecorder())
	assert.Equal(t, 0, s2.Count(), "clear is persisted")
}
