package offline

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/cardkeeper/internal/common"
	"github.com/dmitrijs2005/cardkeeper/internal/kv"
	"github.com/dmitrijs2005/cardkeeper/internal/kv/memory"
	"github.com/dmitrijs2005/cardkeeper/internal/logging"
	"github.com/dmitrijs2005/cardkeeper/internal/models"
)

// recordingStore logs every mutation and fails Set/Delete for chosen keys.
type recordingStore struct {
	kv.Store
	ops     []string
	failSet map[string]error
	failDel map[string]error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{Store: memory.New(), failSet: map[string]error{}, failDel: map[string]error{}}
}

func (r *recordingStore) Set(ctx context.Context, key string, value []byte) error {
	r.ops = append(r.ops, "set "+key)
	if err := r.failSet[key]; err != nil {
		return err
	}
	return r.Store.Set(ctx, key, value)
}

func (r *recordingStore) Delete(ctx context.Context, key string) error {
	r.ops = append(r.ops, "delete "+key)
	if err := r.failDel[key]; err != nil {
		return err
	}
	return r.Store.Delete(ctx, key)
}

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestCache(s kv.Store) *Cache {
	return NewCache(s, logging.Nop(), WithClock(func() time.Time { return fixedNow }))
}

func makeCards(setID string, n int) []models.Card {
	cards := make([]models.Card, n)
	for i := range n {
		cards[i] = models.Card{
			ID:      fmt.Sprintf("%s-%d", setID, i+1),
			LocalID: fmt.Sprint(i + 1),
			Name:    fmt.Sprintf("Card %d", i+1),
			Image:   fmt.Sprintf("https://assets.example/%s/%d", setID, i+1),
		}
	}
	return cards
}

func TestSaveSet_IndexAndSnapshotAgree(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(memory.New())

	set := models.Set{ID: "sv1", Name: "Scarlet & Violet", CardCount: models.CardCount{Total: 3, Official: 3}}
	cards := makeCards("sv1", 3)
	require.NoError(t, c.SaveSet(ctx, set, cards))

	offline, err := c.IsSetOffline(ctx, "sv1")
	require.NoError(t, err)
	assert.True(t, offline)

	snap, found, err := c.GetSet(ctx, "sv1")
	require.NoError(t, err)
	require.True(t, found)
	if diff := cmp.Diff(cards, snap.Cards); diff != "" {
		t.Fatalf("cards mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, set, snap.Set)
	assert.True(t, snap.DownloadedAt.Equal(fixedNow))
}

func TestSaveSet_ScenarioBase1With102Cards(t *testing.T) {
	ctx := context.Background()
	c := newTestCache(memory.New())

	cards := makeCards("base1", 102)
	set := models.Set{ID: "base1", Name: "Base", CardCount: models.CardCount{Total: 102, Official: 102}}
	require.NoError(t, c.SaveSet(ctx, set, cards))

	offline, err := c.IsSetOffline(ctx, "base1")
	require.NoError(t, err)
	require.True(t, offline)

	snap, found, err := c.GetSet(ctx, "base1")
	require.NoError(t, err)
	require.True(t, found)
	require.Len(t, snap.Cards, 102)
	for i, card := range snap.Cards {
		assert.Equal(t, cards[i].ID, card.ID)
	}
}

func TestSaveSet_WritesIndexBeforeSnapshot(t *testing.T) {
	ctx := context.Background()
	s := newRecordingStore()
	c := newTestCache(s)

	require.NoError(t, c.SaveSet(ctx, models.Set{ID: "a"}, nil))
	assert.Equal(t, []string{"set " + IndexKey, "set " + SetKey("a")}, s.ops)
}

func TestSaveSet_ResaveReplacesAndSkipsIndexWrite(t *testing.T) {
	ctx := context.Background()
	s := newRecordingStore()
	c := newTestCache(s)

	require.NoError(t, c.SaveSet(ctx, models.Set{ID: "a"}, makeCards("a", 5)))
	s.ops = nil
	require.NoError(t, c.SaveSet(ctx, models.Set{ID: "a", Name: "again"}, makeCards("a", 2)))

	assert.Equal(t, []string{"set " + SetKey("a")}, s.ops)

	snap, _, err := c.GetSet(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "again", snap.Set.Name)
	assert.Len(t, snap.Cards, 2)

	ids, err := c.ListOffline(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids)
}

func TestSaveSet_EmptyIDRejected(t *testing.T) {
	s := newRecordingStore()
	err := newTestCache(s).SaveSet(context.Background(), models.Set{}, nil)
	require.ErrorIs(t, err, common.ErrValidation)
	assert.Empty(t, s.ops)
}

func TestSaveSet_SnapshotWriteFailureLeavesDanglingIndex(t *testing.T) {
	ctx := context.Background()
	s := newRecordingStore()
	boom := errors.New("quota exceeded")
	s.failSet[SetKey("a")] = boom
	c := newTestCache(s)

	err := c.SaveSet(ctx, models.Set{ID: "a"}, nil)
	require.ErrorIs(t, err, common.ErrStorageFailure)
	require.ErrorIs(t, err, boom)

	offline, err := c.IsSetOffline(ctx, "a")
	require.NoError(t, err)
	assert.True(t, offline)

	_, found, err := c.GetSet(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSaveSet_CorruptIndexIsStorageFailure(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Set(ctx, IndexKey, []byte("not json")))

	err := newTestCache(s).SaveSet(ctx, models.Set{ID: "a"}, nil)
	require.ErrorIs(t, err, common.ErrStorageFailure)

	raw, err := s.Get(ctx, IndexKey)
	require.NoError(t, err)
	assert.Equal(t, "not json", string(raw))
}

func TestRemoveSet_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	s := newRecordingStore()
	c := newTestCache(s)

	require.NoError(t, c.SaveSet(ctx, models.Set{ID: "a"}, makeCards("a", 1)))
	require.NoError(t, c.SaveSet(ctx, models.Set{ID: "b"}, makeCards("b", 1)))

	s.ops = nil
	require.NoError(t, c.RemoveSet(ctx, "a"))
	assert.Equal(t, []string{"delete " + SetKey("a"), "set " + IndexKey}, s.ops)

	s.ops = nil
	require.NoError(t, c.RemoveSet(ctx, "a"))
	assert.Equal(t, []string{"delete " + SetKey("a")}, s.ops)

	offline, err := c.IsSetOffline(ctx, "a")
	require.NoError(t, err)
	assert.False(t, offline)
	_, found, err := c.GetSet(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)

	ids, err := c.ListOffline(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, ids)
}

func TestRemoveSet_NeverCachedIsNoop(t *testing.T) {
	require.NoError(t, newTestCache(memory.New()).RemoveSet(context.Background(), "ghost"))
}

func TestRemoveSet_DeleteFailureKeepsIndex(t *testing.T) {
	ctx := context.Background()
	s := newRecordingStore()
	c := newTestCache(s)
	require.NoError(t, c.SaveSet(ctx, models.Set{ID: "a"}, nil))

	s.failDel[SetKey("a")] = errors.New("read-only filesystem")
	require.ErrorIs(t, c.RemoveSet(ctx, "a"), common.ErrStorageFailure)

	offline, err := c.IsSetOffline(ctx, "a")
	require.NoError(t, err)
	assert.True(t, offline)
}

func TestGetSet_CorruptSnapshotIsAbsent(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := newTestCache(s)
	require.NoError(t, c.SaveSet(ctx, models.Set{ID: "a"}, nil))
	require.NoError(t, s.Set(ctx, SetKey("a"), []byte(`{"set":`)))

	snap, found, err := c.GetSet(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, snap)

	// the index is left alone
	offline, err := c.IsSetOffline(ctx, "a")
	require.NoError(t, err)
	assert.True(t, offline)
}

func TestGetSet_SnapshotWithoutSetIDIsAbsent(t *testing.T) {
	for name, raw := range map[string]string{
		"null":         `null`,
		"empty object": `{}`,
		"blank set":    `{"set":{"id":""},"cards":[]}`,
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := memory.New()
			c := newTestCache(s)
			require.NoError(t, s.Set(ctx, SetKey("a"), []byte(raw)))

			snap, found, err := c.GetSet(ctx, "a")
			require.NoError(t, err)
			assert.False(t, found)
			assert.Nil(t, snap)
		})
	}
}

func TestUnindexed_ReportsSnapshotsMissingFromIndex(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := newTestCache(s)
	require.NoError(t, c.SaveSet(ctx, models.Set{ID: "base1"}, nil))
	require.NoError(t, s.Set(ctx, SetKey("jungle"), []byte(`{"set":{"id":"jungle"}}`)))
	require.NoError(t, s.Set(ctx, SetKey("fossil"), []byte(`{"set":{"id":"fossil"}}`)))

	ids, err := c.Unindexed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fossil", "jungle"}, ids)

	require.NoError(t, c.RemoveSet(ctx, "jungle"))
	ids, err = c.Unindexed(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fossil"}, ids)
}

func TestUnindexed_EmptyStore(t *testing.T) {
	ids, err := newTestCache(memory.New()).Unindexed(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

type failingKeysStore struct {
	kv.Store
	err error
}

func (f *failingKeysStore) Keys(context.Context, string) ([]string, error) { return nil, f.err }

func TestUnindexed_ListFailureIsStorageFailure(t *testing.T) {
	boom := errors.New("list denied")
	c := newTestCache(&failingKeysStore{Store: memory.New(), err: boom})

	_, err := c.Unindexed(context.Background())
	require.ErrorIs(t, err, common.ErrStorageFailure)
	require.ErrorIs(t, err, boom)
}

func TestGetSet_ReadFailurePropagates(t *testing.T) {
	boom := errors.New("disk gone")
	c := newTestCache(&failingGetStore{Store: memory.New(), err: boom})

	_, _, err := c.GetSet(context.Background(), "a")
	require.ErrorIs(t, err, common.ErrStorageFailure)
	require.ErrorIs(t, err, boom)

	_, err = c.IsSetOffline(context.Background(), "a")
	require.ErrorIs(t, err, boom)
}

type failingGetStore struct {
	kv.Store
	err error
}

func (f *failingGetStore) Get(context.Context, string) ([]byte, error) { return nil, f.err }

func TestIsSetOffline_CorruptIndexReadsAsEmpty(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.Set(ctx, IndexKey, []byte("{")))
	c := newTestCache(s)

	offline, err := c.IsSetOffline(ctx, "a")
	require.NoError(t, err)
	assert.False(t, offline)

	ids, err := c.ListOffline(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestSnapshot_RoundTripsThroughEncodedForm(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	c := newTestCache(s)

	set := models.Set{
		ID:          "swsh1",
		Name:        "Sword & Shield",
		CardCount:   models.CardCount{Total: 216, Official: 202},
		Logo:        "https://assets.example/swsh1/logo.png",
		ReleaseDate: "2020-02-07",
	}
	require.NoError(t, c.SaveSet(ctx, set, makeCards("swsh1", 2)))

	raw, err := s.Get(ctx, SetKey("swsh1"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"cardCount":{"total":216,"official":202}`)
	assert.Contains(t, string(raw), `"downloadedAt":"2024-05-01T12:00:00Z"`)
}
