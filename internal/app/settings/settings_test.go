package settings

import (
	"context"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/solfeggio/quaver/internal/app/store"
)

type memKV struct {
	data   map[string]string
	getErr error
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Put(_ context.Context, key, value string) error {
	if m.data == nil {
		m.data = map[string]string{}
	}
	m.data[key] = value
	return nil
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := NewKVRepository(&memKV{})
	ctx := context.Background()

	b, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, b)

	in := Blob{Type: "weather", Name: "DJ Quaver", Zip: "94103", Announcer: true}
	require.NoError(t, repo.Save(ctx, in))

	b, err = repo.Load(ctx)
	require.NoError(t, err)
	require.NotNil(t, b)
	assert.Equal(t, in, *b)
}

func TestRepositoryCorruptBlob(t *testing.T) {
	kv := &memKV{data: map[string]string{"player.settings": "{not json"}}
	_, err := NewKVRepository(kv).Load(context.Background())
	assert.Error(t, err)
}

func TestControllerInitAppliesSavedSettings(t *testing.T) {
	kv := &memKV{}
	repo := NewKVRepository(kv)
	require.NoError(t, repo.Save(context.Background(), Blob{Type: "news", Name: "Host", Announcer: true}))

	s := store.New(nil)
	c := NewController(s, repo)
	require.NoError(t, c.Init(context.Background()))

	st := s.GetState()
	assert.Equal(t, "news", st.ChatType)
	assert.Equal(t, "Host", st.ChatName)
	assert.True(t, st.AnnouncerEnabled)
}

func TestControllerInitWithoutSavedSettings(t *testing.T) {
	s := store.New(nil)
	c := NewController(s, NewKVRepository(&memKV{}))
	require.NoError(t, c.Init(context.Background()))
	assert.Equal(t, "", s.GetState().ChatType)
}

func TestControllerInitPropagatesStorageError(t *testing.T) {
	kv := &memKV{getErr: errors.New("disk gone")}
	c := NewController(store.New(nil), NewKVRepository(kv))
	assert.Error(t, c.Init(context.Background()))
}

func TestControllerSave(t *testing.T) {
	kv := &memKV{}
	s := store.New(nil)
	c := NewController(s, NewKVRepository(kv))

	require.NoError(t, c.Save(context.Background(), Blob{Zip: "10001"}))

	assert.Equal(t, "10001", s.GetState().ChatZip)
	assert.Contains(t, kv.data, "player.settings")
}
