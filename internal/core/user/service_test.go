package user_test

import (
	"context"
	"io"
	"log/slog"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/taibuivan/inkpress/internal/core/post"
	"github.com/taibuivan/inkpress/internal/core/user"
	"github.com/taibuivan/inkpress/internal/platform/apperr"
	"github.com/taibuivan/inkpress/internal/platform/dberr"
	"github.com/taibuivan/inkpress/pkg/pointer"
)

// memoryRepository is an in-memory [user.Repository] with the same list
// semantics as the Mongo updates.
type memoryRepository struct {
	mu    sync.Mutex
	users []*user.User
}

func (m *memoryRepository) CreateNew(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == u.Email {
			return apperr.Conflict("Resource already exists")
		}
	}
	m.users = append(m.users, u)
	return nil
}

func (m *memoryRepository) FindOneByEmail(_ context.Context, email string) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.Email == email })
}

func (m *memoryRepository) FindOneByID(_ context.Context, id primitive.ObjectID) (*user.User, error) {
	return m.find(func(u *user.User) bool { return u.ID == id })
}

func (m *memoryRepository) Update(_ context.Context, id primitive.ObjectID, patch user.Patch) (*user.User, error) {
	return m.mutate(id, func(u *user.User) {
		if patch.GivenName != nil {
			u.GivenName = *patch.GivenName
		}
		if patch.Avatar != nil {
			u.Avatar = *patch.Avatar
		}
	})
}

func (m *memoryRepository) Bookmark(_ context.Context, id, postID primitive.ObjectID, action string) (*user.User, error) {
	return m.mutate(id, func(u *user.User) {
		without := slices.DeleteFunc(slices.Clone(u.Bookmarked), func(b primitive.ObjectID) bool { return b == postID })
		if action == user.ActionAdd {
			without = append(without, postID)
		}
		u.Bookmarked = without
	})
}

func (m *memoryRepository) PushHistory(_ context.Context, id, postID primitive.ObjectID) (*user.User, error) {
	return m.mutate(id, func(u *user.User) {
		rest := slices.DeleteFunc(slices.Clone(u.History), func(h primitive.ObjectID) bool { return h == postID })
		u.History = append([]primitive.ObjectID{postID}, rest...)
	})
}

func (m *memoryRepository) find(match func(*user.User) bool) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if match(u) {
			return u, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (m *memoryRepository) mutate(id primitive.ObjectID, apply func(*user.User)) (*user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.ID == id {
			apply(u)
			return u, nil
		}
	}
	return nil, dberr.ErrNotFound
}

// memoryPosts is an in-memory [user.PostFinder].
type memoryPosts map[primitive.ObjectID]*post.Post

func (m memoryPosts) FindOneByID(_ context.Context, id primitive.ObjectID) (*post.Post, error) {
	if p, ok := m[id]; ok {
		return p, nil
	}
	return nil, dberr.ErrNotFound
}

func newService(postIDs ...primitive.ObjectID) (*user.Service, *memoryRepository) {
	posts := memoryPosts{}
	for _, id := range postIDs {
		posts[id] = &post.Post{ID: id}
	}

	repo := &memoryRepository{}
	return user.NewService(repo, posts, slog.New(slog.NewJSONHandler(io.Discard, nil))), repo
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	ae := apperr.As(err)
	require.NotNil(t, ae, "expected an AppError, got %v", err)
	return ae.Code
}

/*
TestService_Login verifies the upsert by email.
*/
func TestService_Login(t *testing.T) {
	service, repo := newService()
	ctx := context.Background()

	first, created, err := service.Login(ctx, user.LoginInput{GivenName: "Tai", Email: "tai@example.com", Avatar: "a.png"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Empty(t, first.History)

	again, created, err := service.Login(ctx, user.LoginInput{GivenName: "Tai Bui", Email: "tai@example.com", Avatar: "b.png"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "Tai Bui", again.GivenName)
	assert.Equal(t, "b.png", again.Avatar)
	assert.Len(t, repo.users, 1)

	kept, created, err := service.Login(ctx, user.LoginInput{Email: "tai@example.com"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, "Tai Bui", kept.GivenName)
	assert.Equal(t, "b.png", kept.Avatar)

	renamed, _, err := service.Login(ctx, user.LoginInput{Email: "tai@example.com", GivenName: "Tai B."})
	require.NoError(t, err)
	assert.Equal(t, "Tai B.", renamed.GivenName)
	assert.Equal(t, "b.png", renamed.Avatar)

	_, _, err = service.Login(ctx, user.LoginInput{Email: "not-an-email"})
	assert.Equal(t, "VALIDATION_ERROR", codeOf(t, err))
}

/*
TestService_VisitPost verifies the history order: most recent first, no duplicates.
*/
func TestService_VisitPost(t *testing.T) {
	a, b, c := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	service, _ := newService(a, b, c)
	ctx := context.Background()

	reader, _, err := service.Login(ctx, user.LoginInput{Email: "reader@example.com"})
	require.NoError(t, err)
	id := reader.ID.Hex()

	for _, visited := range []primitive.ObjectID{a, b, c, a} {
		_, err := service.VisitPost(ctx, id, user.HistoryInput{PostID: visited.Hex()})
		require.NoError(t, err)
	}

	got, err := service.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, []primitive.ObjectID{a, c, b}, got.History)

	_, err = service.VisitPost(ctx, id, user.HistoryInput{PostID: primitive.NewObjectID().Hex()})
	assert.Equal(t, "NOT_FOUND", codeOf(t, err))

	_, err = service.VisitPost(ctx, primitive.NewObjectID().Hex(), user.HistoryInput{PostID: a.Hex()})
	assert.Equal(t, "NOT_FOUND", codeOf(t, err))
}

/*
TestService_Bookmark covers both actions and the set semantics.
*/
func TestService_Bookmark(t *testing.T) {
	a := primitive.NewObjectID()
	service, _ := newService(a)
	ctx := context.Background()

	reader, _, err := service.Login(ctx, user.LoginInput{Email: "reader@example.com"})
	require.NoError(t, err)
	id := reader.ID.Hex()

	tests := []struct {
		name     string
		input    user.BookmarkInput
		want     []primitive.ObjectID
		wantCode string
	}{
		{"add", user.BookmarkInput{PostID: a.Hex(), Action: user.ActionAdd}, []primitive.ObjectID{a}, ""},
		{"add_twice_is_a_set", user.BookmarkInput{PostID: a.Hex(), Action: user.ActionAdd}, []primitive.ObjectID{a}, ""},
		{"remove", user.BookmarkInput{PostID: a.Hex(), Action: user.ActionRemove}, []primitive.ObjectID{}, ""},
		{"unknown_action", user.BookmarkInput{PostID: a.Hex(), Action: "toggle"}, nil, "VALIDATION_ERROR"},
		{"unknown_post", user.BookmarkInput{PostID: primitive.NewObjectID().Hex(), Action: user.ActionAdd}, nil, "NOT_FOUND"},
		{"bad_post_id", user.BookmarkInput{PostID: "zz", Action: user.ActionAdd}, nil, "VALIDATION_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			updated, err := service.Bookmark(ctx, id, tt.input)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, codeOf(t, err))
				return
			}
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, updated.Bookmarked)
		})
	}
}

/*
TestService_Update verifies that only the name and avatar change.
*/
func TestService_Update(t *testing.T) {
	service, _ := newService()
	ctx := context.Background()

	reader, _, err := service.Login(ctx, user.LoginInput{Email: "reader@example.com", GivenName: "Old"})
	require.NoError(t, err)

	updated, err := service.Update(ctx, reader.ID.Hex(), user.Patch{GivenName: pointer.To("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", updated.GivenName)
	assert.Equal(t, "reader@example.com", updated.Email)

	_, err = service.Update(ctx, primitive.NewObjectID().Hex(), user.Patch{})
	assert.Equal(t, "NOT_FOUND", codeOf(t, err))
}
