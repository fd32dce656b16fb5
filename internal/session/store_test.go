package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-rank/internal/extract"
)

func TestCreateAndGet(t *testing.T) {
	st := NewStore()
	docs := []extract.Document{
		{ID: "d1", Name: "Alice", Status: extract.StatusSuccess},
		{ID: "d2", Name: "Bob", Status: extract.StatusFailed},
	}

	sess := st.Create(docs)
	require.NotEmpty(t, sess.ID)

	got, ok := st.Get(sess.ID)
	require.True(t, ok)
	assert.Len(t, got.Documents, 2)

	_, ok = st.Get("nope")
	assert.False(t, ok)
}

func TestSuccessfulDocumentsExcludesFailed(t *testing.T) {
	st := NewStore()
	sess := st.Create([]extract.Document{
		{ID: "d1", Status: extract.StatusSuccess},
		{ID: "d2", Status: extract.StatusFailed},
		{ID: "d3", Status: extract.StatusPartial},
	})

	ok := sess.SuccessfulDocuments()
	require.Len(t, ok, 2)
	assert.Equal(t, "d1", ok[0].ID)
	assert.Equal(t, "d3", ok[1].ID)
}

func TestDocumentLookup(t *testing.T) {
	st := NewStore()
	sess := st.Create([]extract.Document{{ID: "d1", Name: "Alice"}})

	doc, ok := sess.Document("d1")
	require.True(t, ok)
	assert.Equal(t, "Alice", doc.Name)

	_, ok = sess.Document("d2")
	assert.False(t, ok)
}

func TestSweepExpired(t *testing.T) {
	st := NewStore()
	stale := st.Create(nil)
	stale.CreatedAt = time.Now().Add(-2 * time.Hour)
	fresh := st.Create(nil)

	expired := st.SweepExpired(time.Hour)
	assert.Equal(t, []string{stale.ID}, expired)

	_, ok := st.Get(stale.ID)
	assert.False(t, ok)
	_, ok = st.Get(fresh.ID)
	assert.True(t, ok)

	// Nothing left to expire.
	assert.Empty(t, st.SweepExpired(time.Hour))
}

func TestDelete(t *testing.T) {
	st := NewStore()
	sess := st.Create(nil)

	assert.True(t, st.Delete(sess.ID))
	assert.False(t, st.Delete(sess.ID))

	_, ok := st.Get(sess.ID)
	assert.False(t, ok)
}
