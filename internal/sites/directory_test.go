package sites

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/R4Lcoding/RaduBrowserServer/internal/db"
	"github.com/R4Lcoding/RaduBrowserServer/internal/logging"
	"github.com/R4Lcoding/RaduBrowserServer/internal/models"
)

// fakeAuth lets everyone in except the listed users.
type fakeAuth struct {
	refused map[string]error
}

func (f fakeAuth) Authenticate(_ context.Context, username string) error {
	if err, ok := f.refused[username]; ok {
		return err
	}
	return nil
}

func newTestDirectory(t *testing.T, auth Authenticator) *Directory {
	t.Helper()
	store, err := db.NewFileStore(t.TempDir())
	require.NoError(t, err)
	if auth == nil {
		auth = fakeAuth{}
	}
	return NewDirectory(store, auth, logging.Nop())
}

func TestPublishAndFetch(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t, nil)

	id, err := d.Publish(ctx, "alice", "  Hi  ", "\n hello world \n")
	require.NoError(t, err)
	assert.Equal(t, "alice/Hi", id)

	site, err := d.Fetch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, models.Site{ID: "alice/Hi", Owner: "alice", Title: "Hi", Content: "hello world"}, site)
}

func TestPublish_OverwritesSameIdentifier(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t, nil)

	_, err := d.Publish(ctx, "alice", "Hi", "first")
	require.NoError(t, err)
	id, err := d.Publish(ctx, "alice", "Hi", "second")
	require.NoError(t, err)

	site, err := d.Fetch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "second", site.Content)

	all, err := d.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestPublish_TitlesAreScopedPerOwner(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t, nil)

	a, err := d.Publish(ctx, "alice", "Home", "alice's")
	require.NoError(t, err)
	b, err := d.Publish(ctx, "bob", "Home", "bob's")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)

	all, err := d.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPublish_InvalidInput(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t, fakeAuth{refused: map[string]error{
		"ghost":  models.ErrNotFound,
		"banned": models.ErrBanned,
	}})

	tests := []struct {
		name, owner, title, content string
	}{
		{name: "no owner", owner: "", title: "t", content: "c"},
		{name: "unknown owner", owner: "ghost", title: "t", content: "c"},
		{name: "banned owner", owner: "banned", title: "t", content: "c"},
		{name: "blank title", owner: "alice", title: "   ", content: "c"},
		{name: "blank content", owner: "alice", title: "t", content: "\n\t"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := d.Publish(ctx, tt.owner, tt.title, tt.content)
			assert.ErrorIs(t, err, models.ErrInvalidInput)
		})
	}

	all, err := d.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestPublish_OwnerWithSlashCannotTakeOverSite(t *testing.T) {
	ctx := context.Background()
	// the authenticator lets everyone in, so only the site rules stand in the way
	d := newTestDirectory(t, nil)

	id, err := d.Publish(ctx, "alice", "blog/post", "alice's post")
	require.NoError(t, err)
	assert.Equal(t, "alice/blog/post", id)

	_, err = d.Publish(ctx, "alice/blog", "post", "overwrite")
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	site, err := d.Fetch(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice", site.Owner)
	assert.Equal(t, "alice's post", site.Content)
}

func TestPublish_AuthenticatorFailurePropagates(t *testing.T) {
	boom := errors.New("disk on fire")
	d := newTestDirectory(t, fakeAuth{refused: map[string]error{"alice": boom}})

	_, err := d.Publish(context.Background(), "alice", "t", "c")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, models.ErrInvalidInput)
}

func TestFetch_NotFoundAndIdempotent(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t, nil)

	_, err := d.Fetch(ctx, "alice/Nope")
	assert.ErrorIs(t, err, models.ErrNotFound)

	id, err := d.Publish(ctx, "alice", "Hi", "hello")
	require.NoError(t, err)

	first, err := d.Fetch(ctx, id)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := d.Fetch(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestListAll_SortedByIdentifier(t *testing.T) {
	ctx := context.Background()
	d := newTestDirectory(t, nil)

	for _, p := range [][2]string{{"bob", "b"}, {"alice", "z"}, {"alice", "a"}} {
		_, err := d.Publish(ctx, p[0], p[1], "content")
		require.NoError(t, err)
	}

	all, err := d.ListAll(ctx)
	require.NoError(t, err)
	ids := make([]string, 0, len(all))
	for _, s := range all {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"alice/a", "alice/z", "bob/b"}, ids)
}

func TestPublish_RefusalKeepsCause(t *testing.T) {
	d := newTestDirectory(t, fakeAuth{refused: map[string]error{"banned": models.ErrBanned}})

	_, err := d.Publish(context.Background(), "banned", "t", "c")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	assert.ErrorIs(t, err, models.ErrBanned)
}
