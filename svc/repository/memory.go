package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// MemoryRepository keeps users and files in process memory.
type MemoryRepository struct {
	mu        sync.RWMutex
	users     map[string]User
	byEmail   map[string]string
	files     map[string]File
	fileOrder []string
	now       func() time.Time
}

// NewMemoryRepository returns an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		users:   make(map[string]User),
		byEmail: make(map[string]string),
		files:   make(map[string]File),
		now:     time.Now,
	}
}

func (r *MemoryRepository) CreateUser(ctx context.Context, email, passwordHash string) (*User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[email]; taken {
		return nil, ErrEmailTaken
	}

	u := User{
		ID:           bson.NewObjectID().Hex(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    r.now(),
	}
	r.users[u.ID] = u
	r.byEmail[email] = u.ID
	return &u, nil
}

func (r *MemoryRepository) FindUserByEmail(ctx context.Context, email string) (*User, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, false, nil
	}
	u := r.users[id]
	return &u, true, nil
}

func (r *MemoryRepository) FindUserByID(ctx context.Context, id string) (*User, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, false, nil
	}
	return &u, true, nil
}

func (r *MemoryRepository) CreateFile(ctx context.Context, f *File) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateFile(f); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f.ID = bson.NewObjectID().Hex()
	f.CreatedAt = r.now()
	r.files[f.ID] = *f
	r.fileOrder = append(r.fileOrder, f.ID)
	return nil
}

func (r *MemoryRepository) FindFileByID(ctx context.Context, id, ownerID string) (*File, bool, error) {
	f, ok, err := r.FindFile(ctx, id)
	if err != nil || !ok || f.UserID != ownerID {
		return nil, false, err
	}
	return f, true, nil
}

func (r *MemoryRepository) FindFile(ctx context.Context, id string) (*File, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	f, ok := r.files[id]
	if !ok {
		return nil, false, nil
	}
	return &f, true, nil
}

func (r *MemoryRepository) ListFiles(ctx context.Context, ownerID, parentID string, page int) ([]File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if parentID == "" {
		parentID = RootParentID
	}
	skip := max(page, 0) * PageSize

	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]File, 0, PageSize)
	for _, id := range r.fileOrder {
		f := r.files[id]
		if f.UserID != ownerID || f.ParentID != parentID {
			continue
		}
		if skip > 0 {
			skip--
			continue
		}
		out = append(out, f)
		if len(out) == PageSize {
			break
		}
	}
	return out, nil
}

func (r *MemoryRepository) SetFilePublic(ctx context.Context, id, ownerID string, public bool) (*File, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	f, ok := r.files[id]
	if !ok || f.UserID != ownerID {
		return nil, false, nil
	}
	f.IsPublic = public
	r.files[id] = f
	return &f, true, nil
}

func (r *MemoryRepository) CountUsers(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.users)), nil
}

func (r *MemoryRepository) CountFiles(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.files)), nil
}

// Ping always succeeds.
func (r *MemoryRepository) Ping(context.Context) error {
	return nil
}
