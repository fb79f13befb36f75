package auth

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryStore keeps users in process. Used for local runs and tests.
type MemoryStore struct {
	mu      sync.RWMutex
	users   map[primitive.ObjectID]User
	byEmail map[string]primitive.ObjectID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:   make(map[primitive.ObjectID]User),
		byEmail: make(map[string]primitive.ObjectID),
	}
}

func (s *MemoryStore) Create(_ context.Context, user *User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[user.Email]; ok {
		return ErrEmailTaken
	}

	now := time.Now().UTC()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.JoinedAt.IsZero() {
		user.JoinedAt = now
	}
	user.UpdatedAt = now

	s.users[user.ID] = *user
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *MemoryStore) FindByID(_ context.Context, id primitive.ObjectID) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (s *MemoryStore) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]User, 0, len(ids))
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			users = append(users, u)
		}
	}
	return users, nil
}

func (s *MemoryStore) FindByEmail(_ context.Context, email string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, nil
	}
	u := s.users[id]
	return &u, nil
}

func (s *MemoryStore) FindByGoogleID(_ context.Context, googleID string) (*User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if googleID != "" && u.GoogleID == googleID {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) Update(_ context.Context, id primitive.ObjectID, update UserUpdate) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}

	if update.Email != nil && *update.Email != u.Email {
		if _, taken := s.byEmail[*update.Email]; taken {
			return nil, ErrEmailTaken
		}
		delete(s.byEmail, u.Email)
		u.Email = *update.Email
		s.byEmail[u.Email] = id
	}
	if update.FirstName != nil {
		u.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		u.LastName = *update.LastName
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.ProfilePic != nil {
		u.ProfilePic = *update.ProfilePic
	}
	if update.Password != nil {
		u.Password = *update.Password
	}
	if update.GoogleID != nil {
		u.GoogleID = *update.GoogleID
	}
	u.UpdatedAt = time.Now().UTC()

	s.users[id] = u
	return &u, nil
}

func (s *MemoryStore) Count(context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.users)), nil
}
