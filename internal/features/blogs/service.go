package blogs

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"

	"github.com/xyz-asif/bloghunt/internal/features/auth"
	"github.com/xyz-asif/bloghunt/internal/pkg/logger"
	"github.com/xyz-asif/bloghunt/internal/pkg/media"
	"github.com/xyz-asif/bloghunt/internal/pkg/metrics"
	"github.com/xyz-asif/bloghunt/internal/pkg/pagination"
	apperrors "github.com/xyz-asif/bloghunt/pkg/errors"
)

var (
	ErrBlogNotFound    = apperrors.NotFound("Blog not found")
	ErrCommentNotFound = apperrors.NotFound("Comment not found")
	ErrAuthorNotFound  = apperrors.NotFound("User not found")
)

// UserDirectory resolves authors. auth.Store satisfies it.
type UserDirectory interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (*auth.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]auth.User, error)
}

// Service applies every blog mutation under its ownership rules. Callers
// always pass the requesting user explicitly.
type Service struct {
	store    Store
	users    UserDirectory
	uploader media.Uploader
}

func NewService(store Store, users UserDirectory, uploader media.Uploader) *Service {
	if uploader == nil {
		uploader = media.Disabled{}
	}
	return &Service{store: store, users: users, uploader: uploader}
}

// CreateBlog validates req and stores a new blog written by authorID.
// The image, when given, is uploaded before anything is written.
func (s *Service) CreateBlog(ctx context.Context, authorID primitive.ObjectID, req CreateBlogRequest, image *media.File) (*Blog, error) {
	if err := ValidateCreate(&req); err != nil {
		return nil, err
	}

	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, apperrors.Internal("Failed to create blog", err)
	}
	if author == nil {
		return nil, ErrAuthorNotFound
	}

	if image != nil {
		url, err := s.uploader.Upload(ctx, image.Reader, image.Filename, media.FolderBlogImages)
		if err != nil {
			return nil, apperrors.Internal("Failed to upload blog image", err)
		}
		req.Image = url
	}

	blog := &Blog{
		Title:    req.Title,
		Content:  req.Content,
		Image:    req.Image,
		Category: req.Category,
		Author:   authorID,
		Likes:    []primitive.ObjectID{},
		Comments: []Comment{},
	}
	if err := s.store.Create(ctx, blog); err != nil {
		return nil, apperrors.Internal("Failed to create blog", err)
	}

	logger.With("blogId", blog.ID.Hex(), "author", authorID.Hex()).Info("blog created")
	return blog, nil
}

// GetBlog returns one blog or NotFound
func (s *Service) GetBlog(ctx context.Context, id primitive.ObjectID) (*Blog, error) {
	blog, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, apperrors.Internal("Failed to load blog", err)
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}
	return blog, nil
}

// owned loads a blog and checks requesterID wrote it
func (s *Service) owned(ctx context.Context, id, requesterID primitive.ObjectID, action string) (*Blog, error) {
	blog, err := s.GetBlog(ctx, id)
	if err != nil {
		return nil, err
	}
	if blog.Author != requesterID {
		return nil, apperrors.Forbidden("Not authorized to " + action + " this blog")
	}
	return blog, nil
}

// UpdateBlog overwrites the provided fields. Only the author may do so.
func (s *Service) UpdateBlog(ctx context.Context, id, requesterID primitive.ObjectID, req UpdateBlogRequest) (*Blog, error) {
	current, err := s.owned(ctx, id, requesterID, "update")
	if err != nil {
		return nil, err
	}

	update, err := ValidateUpdate(req)
	if err != nil {
		return nil, err
	}
	if update.empty() {
		return current, nil
	}

	blog, err := s.store.UpdateByAuthor(ctx, id, requesterID, update)
	if err != nil {
		return nil, apperrors.Internal("Failed to update blog", err)
	}
	if blog == nil {
		// deleted between the ownership check and the write
		return nil, ErrBlogNotFound
	}
	return blog, nil
}

// DeleteBlog removes the blog and its comments. Only the author may do so.
func (s *Service) DeleteBlog(ctx context.Context, id, requesterID primitive.ObjectID) (*Blog, error) {
	if _, err := s.owned(ctx, id, requesterID, "delete"); err != nil {
		return nil, err
	}

	blog, err := s.store.DeleteByAuthor(ctx, id, requesterID)
	if err != nil {
		return nil, apperrors.Internal("Failed to delete blog", err)
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}

	logger.With("blogId", id.Hex()).Info("blog deleted")
	return blog, nil
}

// ToggleLike adds requesterID to the like set, or removes it when present.
// liked reports the state after the toggle.
func (s *Service) ToggleLike(ctx context.Context, id, requesterID primitive.ObjectID) (*Blog, bool, error) {
	blog, err := s.store.ToggleLike(ctx, id, requesterID)
	if err != nil {
		return nil, false, apperrors.Internal("Failed to update like", err)
	}
	if blog == nil {
		return nil, false, ErrBlogNotFound
	}

	liked := blog.LikedBy(requesterID)
	action := "unliked"
	if liked {
		action = "liked"
	}
	metrics.LikeToggles.WithLabelValues(action).Inc()

	return blog, liked, nil
}

// AddComment appends a comment by requesterID
func (s *Service) AddComment(ctx context.Context, id, requesterID primitive.ObjectID, text string) (*Blog, error) {
	text, err := ValidateCommentText(text)
	if err != nil {
		return nil, err
	}

	comment := Comment{
		ID:        primitive.NewObjectID(),
		User:      requesterID,
		Text:      text,
		CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
	}

	blog, err := s.store.PushComment(ctx, id, comment)
	if err != nil {
		return nil, apperrors.Internal("Failed to add comment", err)
	}
	if blog == nil {
		return nil, ErrBlogNotFound
	}

	metrics.CommentOps.WithLabelValues("add").Inc()
	return blog, nil
}

// EditComment replaces the text of a comment. Only its author may do so.
func (s *Service) EditComment(ctx context.Context, id, commentID, requesterID primitive.ObjectID, text string) ([]Comment, error) {
	text, err := ValidateCommentText(text)
	if err != nil {
		return nil, err
	}

	blog, err := s.store.SetCommentText(ctx, id, commentID, requesterID, text)
	if err != nil {
		return nil, apperrors.Internal("Failed to edit comment", err)
	}
	if blog == nil {
		return nil, s.explainCommentMiss(ctx, id, commentID, "edit")
	}

	metrics.CommentOps.WithLabelValues("edit").Inc()
	return blog.Comments, nil
}

// DeleteComment removes a comment. Only its author may do so.
func (s *Service) DeleteComment(ctx context.Context, id, commentID, requesterID primitive.ObjectID) ([]Comment, error) {
	blog, err := s.store.PullComment(ctx, id, commentID, requesterID)
	if err != nil {
		return nil, apperrors.Internal("Failed to delete comment", err)
	}
	if blog == nil {
		return nil, s.explainCommentMiss(ctx, id, commentID, "delete")
	}

	metrics.CommentOps.WithLabelValues("delete").Inc()
	return blog.Comments, nil
}

// explainCommentMiss tells apart the reasons a conditional comment write
// matched nothing.
func (s *Service) explainCommentMiss(ctx context.Context, id, commentID primitive.ObjectID, action string) error {
	blog, err := s.GetBlog(ctx, id)
	if err != nil {
		return err
	}
	if blog.FindComment(commentID) == nil {
		return ErrCommentNotFound
	}
	return apperrors.Forbidden("Not authorized to " + action + " this comment")
}

// ListByCategory returns one page of blogs, newest first, and the total.
// An empty category lists every blog.
func (s *Service) ListByCategory(ctx context.Context, category string, page, limit int) ([]Blog, int64, error) {
	if category != "" && !IsCategory(category) {
		return nil, 0, apperrors.Validation("Invalid category")
	}

	p := pagination.New(page, limit, 0)
	filter := ListFilter{Category: category}

	var (
		blogs []Blog
		total int64
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		blogs, err = s.store.List(gctx, filter, int64(p.Offset), int64(p.Limit))
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.store.Count(gctx, filter)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, 0, apperrors.Internal("Failed to list blogs", err)
	}

	return blogs, total, nil
}

// ListByAuthor returns every blog by authorID, newest first. An author
// without blogs gets an empty list.
func (s *Service) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]Blog, error) {
	author, err := s.users.FindByID(ctx, authorID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list blogs", err)
	}
	if author == nil {
		return nil, ErrAuthorNotFound
	}

	blogs, err := s.store.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, apperrors.Internal("Failed to list blogs", err)
	}
	return blogs, nil
}

// CountByAuthor is used for profile blog counts
func (s *Service) CountByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	return s.store.CountByAuthor(ctx, authorID)
}

// Populate resolves authors and comment users for responses. Users that no
// longer exist are rendered with their id only.
func (s *Service) Populate(ctx context.Context, blogs ...Blog) ([]BlogResponse, error) {
	seen := make(map[primitive.ObjectID]bool)
	var ids []primitive.ObjectID
	add := func(id primitive.ObjectID) {
		if !id.IsZero() && !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for i := range blogs {
		add(blogs[i].Author)
		for _, c := range blogs[i].Comments {
			add(c.User)
		}
	}

	users := make(map[primitive.ObjectID]*auth.User, len(ids))
	if len(ids) > 0 {
		found, err := s.users.FindByIDs(ctx, ids)
		if err != nil {
			return nil, apperrors.Internal("Failed to load authors", err)
		}
		for i := range found {
			users[found[i].ID] = &found[i]
		}
	}

	out := make([]BlogResponse, 0, len(blogs))
	for i := range blogs {
		b := &blogs[i]
		likes := b.Likes
		if likes == nil {
			likes = []primitive.ObjectID{}
		}

		comments := make([]CommentResponse, 0, len(b.Comments))
		for _, c := range b.Comments {
			comments = append(comments, CommentResponse{
				ID:        c.ID,
				User:      commentUser(c.User, users[c.User]),
				Text:      c.Text,
				CreatedAt: c.CreatedAt,
			})
		}

		out = append(out, BlogResponse{
			ID:        b.ID,
			Title:     b.Title,
			Content:   b.Content,
			Image:     b.Image,
			Category:  b.Category,
			Author:    authorSummary(b.Author, users[b.Author]),
			Likes:     likes,
			LikeCount: len(likes),
			Comments:  comments,
			CreatedAt: b.CreatedAt,
			UpdatedAt: b.UpdatedAt,
		})
	}
	return out, nil
}

// PopulateOne is Populate for a single blog
func (s *Service) PopulateOne(ctx context.Context, blog *Blog) (*BlogResponse, error) {
	out, err := s.Populate(ctx, *blog)
	if err != nil {
		return nil, err
	}
	return &out[0], nil
}

// PopulateComments resolves the users of a comment list
func (s *Service) PopulateComments(ctx context.Context, comments []Comment) ([]CommentResponse, error) {
	out, err := s.Populate(ctx, Blog{Comments: comments})
	if err != nil {
		return nil, err
	}
	return out[0].Comments, nil
}
