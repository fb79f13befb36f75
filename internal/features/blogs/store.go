package blogs

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Store persists blogs. Methods that target one blog return (nil, nil) when
// nothing matched their filter; the service decides what that means.
type Store interface {
	Create(ctx context.Context, blog *Blog) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*Blog, error)

	// UpdateByAuthor and DeleteByAuthor only match when authorID wrote the blog.
	UpdateByAuthor(ctx context.Context, id, authorID primitive.ObjectID, update BlogUpdate) (*Blog, error)
	DeleteByAuthor(ctx context.Context, id, authorID primitive.ObjectID) (*Blog, error)

	// ToggleLike adds userID to the like set or removes it, atomically.
	ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (*Blog, error)

	PushComment(ctx context.Context, id primitive.ObjectID, comment Comment) (*Blog, error)
	// SetCommentText and PullComment only match a comment written by userID.
	SetCommentText(ctx context.Context, id, commentID, userID primitive.ObjectID, text string) (*Blog, error)
	PullComment(ctx context.Context, id, commentID, userID primitive.ObjectID) (*Blog, error)

	List(ctx context.Context, filter ListFilter, skip, limit int64) ([]Blog, error)
	Count(ctx context.Context, filter ListFilter) (int64, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]Blog, error)
	CountByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error)
}
