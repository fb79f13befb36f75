package blogs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Repository handles database interactions for the blogs feature
type Repository struct {
	collection *mongo.Collection
}

// NewRepository initializes the repository
func NewRepository(db *mongo.Database) *Repository {
	return &Repository{collection: db.Collection("blogs")}
}

// EnsureIndexes creates the listing indexes
func (r *Repository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			// Author page, newest first
			Keys: bson.D{
				{Key: "author", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			// Category listing
			Keys: bson.D{
				{Key: "category", Value: 1},
				{Key: "createdAt", Value: -1},
			},
		},
		{
			Keys: bson.D{{Key: "createdAt", Value: -1}},
		},
	})
	return err
}

var returnAfter = options.FindOneAndUpdate().SetReturnDocument(options.After)

// Create inserts a new blog with empty likes and comments
func (r *Repository) Create(ctx context.Context, blog *Blog) error {
	now := time.Now().UTC()
	blog.CreatedAt = now
	blog.UpdatedAt = now
	if blog.Likes == nil {
		blog.Likes = []primitive.ObjectID{}
	}
	if blog.Comments == nil {
		blog.Comments = []Comment{}
	}

	result, err := r.collection.InsertOne(ctx, blog)
	if err != nil {
		return fmt.Errorf("insert blog: %w", err)
	}

	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		blog.ID = oid
	}

	return nil
}

// FindByID finds a blog by its ID
func (r *Repository) FindByID(ctx context.Context, id primitive.ObjectID) (*Blog, error) {
	var blog Blog
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &blog, nil
}

// UpdateByAuthor overwrites the provided fields when authorID owns the blog
func (r *Repository) UpdateByAuthor(ctx context.Context, id, authorID primitive.ObjectID, update BlogUpdate) (*Blog, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Content != nil {
		set["content"] = *update.Content
	}
	if update.Image != nil {
		set["image"] = *update.Image
	}
	if update.Category != nil {
		set["category"] = *update.Category
	}

	filter := bson.M{"_id": id, "author": authorID}
	return r.findOneAndUpdate(ctx, filter, bson.M{"$set": set})
}

// DeleteByAuthor removes the blog when authorID owns it
func (r *Repository) DeleteByAuthor(ctx context.Context, id, authorID primitive.ObjectID) (*Blog, error) {
	var blog Blog
	err := r.collection.FindOneAndDelete(ctx, bson.M{"_id": id, "author": authorID}).Decode(&blog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("delete blog: %w", err)
	}
	return &blog, nil
}

// ToggleLike flips userID's membership in likes with a single pipeline
// update, so concurrent toggles on one blog apply one after another.
func (r *Repository) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (*Blog, error) {
	likes := bson.D{{Key: "$ifNull", Value: bson.A{"$likes", bson.A{}}}}

	toggled := bson.D{{Key: "$cond", Value: bson.A{
		bson.D{{Key: "$in", Value: bson.A{userID, likes}}},
		bson.D{{Key: "$filter", Value: bson.D{
			{Key: "input", Value: likes},
			{Key: "cond", Value: bson.D{{Key: "$ne", Value: bson.A{"$$this", userID}}}},
		}}},
		bson.D{{Key: "$concatArrays", Value: bson.A{likes, bson.A{userID}}}},
	}}}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "likes", Value: toggled},
			{Key: "updatedAt", Value: time.Now().UTC()},
		}}},
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, pipeline)
}

// PushComment appends comment to the blog
func (r *Repository) PushComment(ctx context.Context, id primitive.ObjectID, comment Comment) (*Blog, error) {
	update := bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, bson.M{"_id": id}, update)
}

// SetCommentText replaces the text of a comment written by userID in place
func (r *Repository) SetCommentText(ctx context.Context, id, commentID, userID primitive.ObjectID, text string) (*Blog, error) {
	filter := bson.M{
		"_id":      id,
		"comments": bson.M{"$elemMatch": bson.M{"_id": commentID, "user": userID}},
	}
	update := bson.M{"$set": bson.M{
		"comments.$.text": text,
		"updatedAt":       time.Now().UTC(),
	}}
	return r.findOneAndUpdate(ctx, filter, update)
}

// PullComment removes a comment written by userID
func (r *Repository) PullComment(ctx context.Context, id, commentID, userID primitive.ObjectID) (*Blog, error) {
	filter := bson.M{
		"_id":      id,
		"comments": bson.M{"$elemMatch": bson.M{"_id": commentID, "user": userID}},
	}
	update := bson.M{
		"$pull": bson.M{"comments": bson.M{"_id": commentID, "user": userID}},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	}
	return r.findOneAndUpdate(ctx, filter, update)
}

// List returns one page of blogs, newest first
func (r *Repository) List(ctx context.Context, filter ListFilter, skip, limit int64) ([]Blog, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)

	return r.find(ctx, listQuery(filter), opts)
}

// Count returns the number of blogs matching filter
func (r *Repository) Count(ctx context.Context, filter ListFilter) (int64, error) {
	return r.collection.CountDocuments(ctx, listQuery(filter))
}

// ListByAuthor returns every blog written by authorID, newest first
func (r *Repository) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]Blog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return r.find(ctx, bson.M{"author": authorID}, opts)
}

// CountByAuthor returns how many blogs authorID wrote
func (r *Repository) CountByAuthor(ctx context.Context, authorID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"author": authorID})
}

func (r *Repository) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]Blog, error) {
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	blogs := []Blog{}
	if err := cursor.All(ctx, &blogs); err != nil {
		return nil, err
	}
	return blogs, nil
}

func (r *Repository) findOneAndUpdate(ctx context.Context, filter interface{}, update interface{}) (*Blog, error) {
	var blog Blog
	err := r.collection.FindOneAndUpdate(ctx, filter, update, returnAfter).Decode(&blog)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &blog, nil
}

func listQuery(filter ListFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	return query
}
