package blogs

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps blogs in process. Every method holds the lock for its
// whole read-modify-write, which gives the same per-blog atomicity as Mongo.
type MemoryStore struct {
	mu    sync.RWMutex
	blogs map[primitive.ObjectID]*Blog
	now   func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blogs: make(map[primitive.ObjectID]*Blog),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) Create(_ context.Context, blog *Blog) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if blog.ID.IsZero() {
		blog.ID = primitive.NewObjectID()
	}
	blog.CreatedAt = now
	blog.UpdatedAt = now
	if blog.Likes == nil {
		blog.Likes = []primitive.ObjectID{}
	}
	if blog.Comments == nil {
		blog.Comments = []Comment{}
	}

	s.blogs[blog.ID] = clone(blog)
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blog, ok := s.blogs[id]
	if !ok {
		return nil, nil
	}
	return clone(blog), nil
}

func (s *MemoryStore) UpdateByAuthor(_ context.Context, id, authorID primitive.ObjectID, update BlogUpdate) (*Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blog, ok := s.blogs[id]
	if !ok || blog.Author != authorID {
		return nil, nil
	}

	if update.Title != nil {
		blog.Title = *update.Title
	}
	if update.Content != nil {
		blog.Content = *update.Content
	}
	if update.Image != nil {
		blog.Image = *update.Image
	}
	if update.Category != nil {
		blog.Category = *update.Category
	}
	blog.UpdatedAt = s.now()

	return clone(blog), nil
}

func (s *MemoryStore) DeleteByAuthor(_ context.Context, id, authorID primitive.ObjectID) (*Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blog, ok := s.blogs[id]
	if !ok || blog.Author != authorID {
		return nil, nil
	}
	delete(s.blogs, id)
	return blog, nil
}

func (s *MemoryStore) ToggleLike(_ context.Context, id, userID primitive.ObjectID) (*Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blog, ok := s.blogs[id]
	if !ok {
		return nil, nil
	}

	if blog.LikedBy(userID) {
		likes := make([]primitive.ObjectID, 0, len(blog.Likes))
		for _, l := range blog.Likes {
			if l != userID {
				likes = append(likes, l)
			}
		}
		blog.Likes = likes
	} else {
		blog.Likes = append(blog.Likes, userID)
	}
	blog.UpdatedAt = s.now()

	return clone(blog), nil
}

func (s *MemoryStore) PushComment(_ context.Context, id primitive.ObjectID, comment Comment) (*Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blog, ok := s.blogs[id]
	if !ok {
		return nil, nil
	}
	blog.Comments = append(blog.Comments, comment)
	blog.UpdatedAt = s.now()
	return clone(blog), nil
}

func (s *MemoryStore) SetCommentText(_ context.Context, id, commentID, userID primitive.ObjectID, text string) (*Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blog, ok := s.blogs[id]
	if !ok {
		return nil, nil
	}
	comment := blog.FindComment(commentID)
	if comment == nil || comment.User != userID {
		return nil, nil
	}
	comment.Text = text
	blog.UpdatedAt = s.now()
	return clone(blog), nil
}

func (s *MemoryStore) PullComment(_ context.Context, id, commentID, userID primitive.ObjectID) (*Blog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	blog, ok := s.blogs[id]
	if !ok {
		return nil, nil
	}
	comment := blog.FindComment(commentID)
	if comment == nil || comment.User != userID {
		return nil, nil
	}

	comments := make([]Comment, 0, len(blog.Comments)-1)
	for _, c := range blog.Comments {
		if c.ID != commentID {
			comments = append(comments, c)
		}
	}
	blog.Comments = comments
	blog.UpdatedAt = s.now()
	return clone(blog), nil
}

func (s *MemoryStore) List(_ context.Context, filter ListFilter, skip, limit int64) ([]Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.sorted(func(b *Blog) bool {
		return filter.Category == "" || b.Category == filter.Category
	})

	if skip >= int64(len(matched)) {
		return []Blog{}, nil
	}
	end := int64(len(matched))
	if limit > 0 && skip+limit < end {
		end = skip + limit
	}
	return matched[skip:end], nil
}

func (s *MemoryStore) Count(_ context.Context, filter ListFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, b := range s.blogs {
		if filter.Category == "" || b.Category == filter.Category {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) ListByAuthor(_ context.Context, authorID primitive.ObjectID) ([]Blog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.sorted(func(b *Blog) bool { return b.Author == authorID }), nil
}

func (s *MemoryStore) CountByAuthor(_ context.Context, authorID primitive.ObjectID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, b := range s.blogs {
		if b.Author == authorID {
			n++
		}
	}
	return n, nil
}

// sorted returns copies of the matching blogs, newest first. Callers hold the lock.
func (s *MemoryStore) sorted(match func(*Blog) bool) []Blog {
	out := []Blog{}
	for _, b := range s.blogs {
		if match(b) {
			out = append(out, *clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID.Hex() > out[j].ID.Hex()
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func clone(b *Blog) *Blog {
	c := *b
	c.Likes = append([]primitive.ObjectID{}, b.Likes...)
	c.Comments = append([]Comment{}, b.Comments...)
	return &c
}
