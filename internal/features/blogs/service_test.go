package blogs

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/bloghunt/internal/features/auth"
	"github.com/xyz-asif/bloghunt/internal/pkg/media"
	apperrors "github.com/xyz-asif/bloghunt/pkg/errors"
)

type fakeUploader struct {
	folder string
	err    error
}

func (f *fakeUploader) Upload(_ context.Context, r io.Reader, filename, folder string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	_, _ = io.ReadAll(r)
	f.folder = folder
	return "https://cdn.test/" + folder + "/" + filename, nil
}

type fixture struct {
	svc      *Service
	store    *MemoryStore
	users    *auth.MemoryStore
	uploader *fakeUploader
	jane     *auth.User
	bob      *auth.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:    NewMemoryStore(),
		users:    auth.NewMemoryStore(),
		uploader: &fakeUploader{},
	}
	f.svc = NewService(f.store, f.users, f.uploader)
	f.jane = f.addUser(t, "Jane", "jane@example.com")
	f.bob = f.addUser(t, "Bob", "bob@example.com")
	return f
}

func (f *fixture) addUser(t *testing.T, name, email string) *auth.User {
	t.Helper()
	u := &auth.User{FirstName: name, LastName: "Doe", Email: email, Password: "hash"}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f *fixture) createBlog(t *testing.T, author primitive.ObjectID, title, category string) *Blog {
	t.Helper()
	blog, err := f.svc.CreateBlog(context.Background(), author, CreateBlogRequest{
		Title:    title,
		Content:  "Some content here",
		Category: category,
	}, nil)
	require.NoError(t, err)
	return blog
}

func TestCreateBlog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	blog, err := f.svc.CreateBlog(ctx, f.jane.ID, CreateBlogRequest{
		Title:   "  Hello World!!  ",
		Content: "Some content here",
	}, nil)
	require.NoError(t, err)
	require.Equal(t, "Hello World!!", blog.Title)
	require.Equal(t, CategoryOther, blog.Category)
	require.Equal(t, f.jane.ID, blog.Author)
	require.Empty(t, blog.Likes)
	require.Empty(t, blog.Comments)
	require.False(t, blog.CreatedAt.IsZero())

	_, err = f.svc.CreateBlog(ctx, f.jane.ID, CreateBlogRequest{Title: "Hello World", Content: "Some content", Category: "Sports"}, nil)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.svc.CreateBlog(ctx, primitive.NewObjectID(), CreateBlogRequest{Title: "Hello World", Content: "Some content"}, nil)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCreateBlogWithImage(t *testing.T) {
	f := newFixture(t)

	blog, err := f.svc.CreateBlog(context.Background(), f.jane.ID, CreateBlogRequest{
		Title:    "Hello World",
		Content:  "Some content",
		Category: CategoryTravel,
	}, &media.File{Reader: strings.NewReader("img"), Filename: "beach.png"})
	require.NoError(t, err)
	require.Equal(t, media.FolderBlogImages, f.uploader.folder)
	require.Equal(t, "https://cdn.test/blogImages/beach.png", blog.Image)

	f.uploader.err = fmt.Errorf("cdn down")
	_, err = f.svc.CreateBlog(context.Background(), f.jane.ID, CreateBlogRequest{
		Title:   "Hello again",
		Content: "Some content",
	}, &media.File{Reader: strings.NewReader("img"), Filename: "beach.png"})
	require.ErrorIs(t, err, apperrors.ErrInternal)

	n, _ := f.svc.CountByAuthor(context.Background(), f.jane.ID)
	require.Equal(t, int64(1), n)
}

func TestTitleBoundaries(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		length int
		ok     bool
	}{
		{4, false},
		{5, true},
		{100, true},
		{101, false},
	}

	for _, tc := range cases {
		t.Run(fmt.Sprintf("len=%d", tc.length), func(t *testing.T) {
			_, err := f.svc.CreateBlog(context.Background(), f.jane.ID, CreateBlogRequest{
				Title:   strings.Repeat("a", tc.length),
				Content: "Some content here",
			}, nil)
			if tc.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, apperrors.ErrValidation)
			}
		})
	}
}

func TestContentBounds(t *testing.T) {
	_, err := ValidateContent("  abcd  ")
	require.Error(t, err)
	_, err = ValidateContent(strings.Repeat("x", 1000))
	require.NoError(t, err)
	_, err = ValidateContent(strings.Repeat("x", 1001))
	require.Error(t, err)
}

func TestToggleLikeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	blog := f.createBlog(t, f.jane.ID, "Hello World!!", CategoryTech)

	liked, on, err := f.svc.ToggleLike(ctx, blog.ID, f.bob.ID)
	require.NoError(t, err)
	require.True(t, on)
	require.Equal(t, []primitive.ObjectID{f.bob.ID}, liked.Likes)

	unliked, on, err := f.svc.ToggleLike(ctx, blog.ID, f.bob.ID)
	require.NoError(t, err)
	require.False(t, on)
	require.Empty(t, unliked.Likes)

	_, _, err = f.svc.ToggleLike(ctx, primitive.NewObjectID(), f.bob.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestConcurrentTogglesNeverDuplicate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	blog := f.createBlog(t, f.jane.ID, "Hello World!!", CategoryTech)

	const users = 50
	ids := make([]primitive.ObjectID, users)
	for i := range ids {
		ids[i] = primitive.NewObjectID()
	}

	var wg sync.WaitGroup
	errs := make(chan error, users)
	for _, id := range ids {
		wg.Add(1)
		go func(id primitive.ObjectID) {
			defer wg.Done()
			_, _, err := f.svc.ToggleLike(ctx, blog.ID, id)
			errs <- err
		}(id)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := f.svc.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	require.Len(t, got.Likes, users)
	require.ElementsMatch(t, ids, got.Likes)

	// the same user toggling an even number of times ends where it started
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = f.svc.ToggleLike(ctx, blog.ID, f.bob.ID)
		}()
	}
	wg.Wait()

	got, err = f.svc.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	require.False(t, got.LikedBy(f.bob.ID))
	require.Len(t, got.Likes, users)
}

func TestBlogOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	blog := f.createBlog(t, f.jane.ID, "Hello World!!", CategoryTech)

	title := "Stolen title"
	_, err := f.svc.UpdateBlog(ctx, blog.ID, f.bob.ID, UpdateBlogRequest{Title: &title})
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.svc.DeleteBlog(ctx, blog.ID, f.bob.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	got, err := f.svc.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	require.Equal(t, "Hello World!!", got.Title)

	_, err = f.svc.UpdateBlog(ctx, primitive.NewObjectID(), f.jane.ID, UpdateBlogRequest{Title: &title})
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdateBlog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	blog := f.createBlog(t, f.jane.ID, "Hello World!!", CategoryTech)

	title := "  New title  "
	category := CategoryLife
	updated, err := f.svc.UpdateBlog(ctx, blog.ID, f.jane.ID, UpdateBlogRequest{Title: &title, Category: &category})
	require.NoError(t, err)
	require.Equal(t, "New title", updated.Title)
	require.Equal(t, CategoryLife, updated.Category)
	require.Equal(t, blog.Content, updated.Content)

	short := "abc"
	_, err = f.svc.UpdateBlog(ctx, blog.ID, f.jane.ID, UpdateBlogRequest{Content: &short})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	bad := "not a url"
	_, err = f.svc.UpdateBlog(ctx, blog.ID, f.jane.ID, UpdateBlogRequest{Image: &bad})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDeleteBlog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	blog := f.createBlog(t, f.jane.ID, "Hello World!!", CategoryTech)

	deleted, err := f.svc.DeleteBlog(ctx, blog.ID, f.jane.ID)
	require.NoError(t, err)
	require.Equal(t, blog.ID, deleted.ID)

	_, err = f.svc.GetBlog(ctx, blog.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCommentsKeepCallOrder(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	blog := f.createBlog(t, f.jane.ID, "Hello World!!", CategoryTech)

	for i := 0; i < 5; i++ {
		_, err := f.svc.AddComment(ctx, blog.ID, f.bob.ID, fmt.Sprintf("comment %d", i))
		require.NoError(t, err)
	}

	got, err := f.svc.GetBlog(ctx, blog.ID)
	require.NoError(t, err)
	require.Len(t, got.Comments, 5)
	for i, c := range got.Comments {
		require.Equal(t, fmt.Sprintf("comment %d", i), c.Text)
		require.Equal(t, f.bob.ID, c.User)
	}

	_, err = f.svc.AddComment(ctx, blog.ID, f.bob.ID, "   ")
	require.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = f.svc.AddComment(ctx, blog.ID, f.bob.ID, strings.Repeat("x", 1001))
	require.ErrorIs(t, err, apperrors.ErrValidation)
	_, err = f.svc.AddComment(ctx, primitive.NewObjectID(), f.bob.ID, "hello")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestEditComment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	blog := f.createBlog(t, f.jane.ID, "Hello World!!", CategoryTech)

	blog, err := f.svc.AddComment(ctx, blog.ID, f.bob.ID, "first")
	require.NoError(t, err)
	blog, err = f.svc.AddComment(ctx, blog.ID, f.jane.ID, "second")
	require.NoError(t, err)
	first := blog.Comments[0]

	_, err = f.svc.EditComment(ctx, blog.ID, first.ID, f.jane.ID, "hijacked")
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	got, _ := f.svc.GetBlog(ctx, blog.ID)
	require.Equal(t, "first", got.Comments[0].Text)

	comments, err := f.svc.EditComment(ctx, blog.ID, first.ID, f.bob.ID, "  edited  ")
	require.NoError(t, err)
	require.Len(t, comments, 2)
	require.Equal(t, first.ID, comments[0].ID)
	require.Equal(t, "edited", comments[0].Text)
	require.Equal(t, first.CreatedAt, comments[0].CreatedAt)
	require.Equal(t, "second", comments[1].Text)

	_, err = f.svc.EditComment(ctx, blog.ID, primitive.NewObjectID(), f.bob.ID, "x")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = f.svc.EditComment(ctx, primitive.NewObjectID(), first.ID, f.bob.ID, "x")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = f.svc.EditComment(ctx, blog.ID, first.ID, f.bob.ID, " ")
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestDeleteComment(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	blog := f.createBlog(t, f.jane.ID, "Hello World!!", CategoryTech)

	blog, err := f.svc.AddComment(ctx, blog.ID, f.bob.ID, "first")
	require.NoError(t, err)
	id := blog.Comments[0].ID

	_, err = f.svc.DeleteComment(ctx, blog.ID, id, f.jane.ID)
	require.ErrorIs(t, err, apperrors.ErrForbidden)

	comments, err := f.svc.DeleteComment(ctx, blog.ID, id, f.bob.ID)
	require.NoError(t, err)
	require.Empty(t, comments)

	_, err = f.svc.DeleteComment(ctx, blog.ID, id, f.bob.ID)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListByCategory(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	for i := 0; i < 12; i++ {
		f.createBlog(t, f.jane.ID, fmt.Sprintf("Tech post %02d", i), CategoryTech)
	}
	f.createBlog(t, f.bob.ID, "Travel post", CategoryTravel)

	page, total, err := f.svc.ListByCategory(ctx, "", 1, 10)
	require.NoError(t, err)
	require.Equal(t, int64(13), total)
	require.Len(t, page, 10)
	require.Equal(t, "Travel post", page[0].Title)

	page, total, err = f.svc.ListByCategory(ctx, CategoryTech, 2, 10)
	require.NoError(t, err)
	require.Equal(t, int64(12), total)
	require.Len(t, page, 2)
	require.Equal(t, "Tech post 00", page[1].Title)

	page, _, err = f.svc.ListByCategory(ctx, CategoryTech, 0, 1000)
	require.NoError(t, err)
	require.Len(t, page, 12)

	_, _, err = f.svc.ListByCategory(ctx, "Sports", 1, 10)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestListByAuthor(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	blogs, err := f.svc.ListByAuthor(ctx, f.bob.ID)
	require.NoError(t, err)
	require.NotNil(t, blogs)
	require.Empty(t, blogs)

	f.createBlog(t, f.bob.ID, "First post", CategoryLife)
	f.createBlog(t, f.bob.ID, "Second post", CategoryLife)
	f.createBlog(t, f.jane.ID, "Jane's post", CategoryLife)

	blogs, err = f.svc.ListByAuthor(ctx, f.bob.ID)
	require.NoError(t, err)
	require.Len(t, blogs, 2)
	require.Equal(t, "Second post", blogs[0].Title)

	_, err = f.svc.ListByAuthor(ctx, primitive.NewObjectID())
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestPopulate(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	blog := f.createBlog(t, f.jane.ID, "Hello World!!", CategoryTech)
	blog, err := f.svc.AddComment(ctx, blog.ID, f.bob.ID, "nice")
	require.NoError(t, err)
	ghost := primitive.NewObjectID()
	blog, err = f.svc.AddComment(ctx, blog.ID, ghost, "boo")
	require.NoError(t, err)

	res, err := f.svc.PopulateOne(ctx, blog)
	require.NoError(t, err)
	require.Equal(t, "Jane", res.Author.FirstName)
	require.Equal(t, "jane@example.com", res.Author.Email)
	require.Equal(t, "Bob", res.Comments[0].User.FirstName)
	require.Empty(t, res.Comments[0].User.Email)
	require.Equal(t, ghost, res.Comments[1].User.ID)
	require.Empty(t, res.Comments[1].User.FirstName)
	require.NotNil(t, res.Likes)
	require.Zero(t, res.LikeCount)
}
