package blogs

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/xyz-asif/bloghunt/internal/features/auth"
)

// Category constants
const (
	CategoryTech      = "Tech"
	CategoryLife      = "Life"
	CategoryTravel    = "Travel"
	CategoryEducation = "Education"
	CategoryOther     = "Other"
)

// Categories lists every accepted category in display order
var Categories = []string{CategoryTech, CategoryLife, CategoryTravel, CategoryEducation, CategoryOther}

// Blog is a post with its likes and comments embedded
type Blog struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title     string               `bson:"title" json:"title"`
	Content   string               `bson:"content" json:"content"`
	Image     string               `bson:"image,omitempty" json:"image,omitempty"`
	Category  string               `bson:"category" json:"category"`
	Author    primitive.ObjectID   `bson:"author" json:"author"`
	Likes     []primitive.ObjectID `bson:"likes" json:"likes"`
	Comments  []Comment            `bson:"comments" json:"comments"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Comment is embedded in its blog. User is the comment author.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	User      primitive.ObjectID `bson:"user" json:"user"`
	Text      string             `bson:"text" json:"text"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// LikedBy reports whether userID is in the like set
func (b *Blog) LikedBy(userID primitive.ObjectID) bool {
	for _, id := range b.Likes {
		if id == userID {
			return true
		}
	}
	return false
}

// FindComment returns the comment with the given id, or nil
func (b *Blog) FindComment(id primitive.ObjectID) *Comment {
	for i := range b.Comments {
		if b.Comments[i].ID == id {
			return &b.Comments[i]
		}
	}
	return nil
}

// BlogUpdate lists the blog fields to overwrite. Nil means unchanged.
type BlogUpdate struct {
	Title    *string
	Content  *string
	Image    *string
	Category *string
}

func (u BlogUpdate) empty() bool {
	return u.Title == nil && u.Content == nil && u.Image == nil && u.Category == nil
}

// ListFilter narrows blog listings
type ListFilter struct {
	Category string
}

// Request DTOs

// CreateBlogRequest is the payload for creating a blog
type CreateBlogRequest struct {
	Title    string `json:"title" form:"title" binding:"required"`
	Content  string `json:"content" form:"content" binding:"required"`
	Category string `json:"category" form:"category" binding:"blogcategory"`
	Image    string `json:"image" form:"image"`
}

// UpdateBlogRequest overwrites any subset of the editable fields
type UpdateBlogRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Image    *string `json:"image"`
	Category *string `json:"category" binding:"omitempty,blogcategory"`
}

// CommentRequest carries comment text for add and edit
type CommentRequest struct {
	Text string `json:"text" binding:"required"`
}

// Response DTOs

// AuthorSummary is the blog author as embedded in responses
type AuthorSummary = auth.PublicUser

// CommentUser is the comment author as embedded in responses. Email is
// left empty.
type CommentUser = auth.PublicUser

// CommentResponse is a comment with its author populated
type CommentResponse struct {
	ID        primitive.ObjectID `json:"_id"`
	User      CommentUser        `json:"user"`
	Text      string             `json:"text"`
	CreatedAt time.Time          `json:"createdAt"`
}

// BlogResponse is a blog with author and comment users populated
type BlogResponse struct {
	ID        primitive.ObjectID   `json:"_id"`
	Title     string               `json:"title"`
	Content   string               `json:"content"`
	Image     string               `json:"image,omitempty"`
	Category  string               `json:"category"`
	Author    AuthorSummary        `json:"author"`
	Likes     []primitive.ObjectID `json:"likes"`
	LikeCount int                  `json:"likeCount"`
	Comments  []CommentResponse    `json:"comments"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// LikeResponse is returned by the like toggle
type LikeResponse struct {
	Blog      *BlogResponse `json:"blog"`
	Liked     bool          `json:"liked"`
	LikeCount int           `json:"likeCount"`
}

func authorSummary(id primitive.ObjectID, u *auth.User) AuthorSummary {
	if u == nil {
		return AuthorSummary{ID: id}
	}
	return u.ToPublicUser()
}

func commentUser(id primitive.ObjectID, u *auth.User) CommentUser {
	if u == nil {
		return CommentUser{ID: id}
	}
	user := u.ToPublicUser()
	user.Email = ""
	return user
}
