package application

import (
	"context"
	"io"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/feedwire/feedwire/internal/domain/entity"
	"github.com/feedwire/feedwire/internal/domain/repository"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*entity.User{}}
}

func (r *memUserRepo) Create(ctx context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicateEmail
		}
	}
	u.ID = primitive.NewObjectID()
	if u.Posts == nil {
		u.Posts = []primitive.ObjectID{}
	}
	cp := *u
	r.users[u.ID.Hex()] = &cp
	return nil
}

func (r *memUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *memUserRepo) UpdateStatus(ctx context.Context, id, status string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.Status = status
	return nil
}

func (r *memUserRepo) AddPost(ctx context.Context, userID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	pid, err := primitive.ObjectIDFromHex(postID)
	if err != nil {
		return repository.ErrNotFound
	}
	u.Posts = append(u.Posts, pid)
	return nil
}

func (r *memUserRepo) RemovePost(ctx context.Context, userID, postID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[userID]
	if !ok {
		return repository.ErrNotFound
	}
	out := u.Posts[:0]
	for _, id := range u.Posts {
		if id.Hex() != postID {
			out = append(out, id)
		}
	}
	u.Posts = out
	return nil
}

type memPostRepo struct {
	mu    sync.Mutex
	seq   int
	order map[string]int
	posts map[string]*entity.Post
}

func newMemPostRepo() *memPostRepo {
	return &memPostRepo{order: map[string]int{}, posts: map[string]*entity.Post{}}
}

func (r *memPostRepo) Create(ctx context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	r.seq++
	r.order[p.ID.Hex()] = r.seq
	cp := *p
	r.posts[p.ID.Hex()] = &cp
	return nil
}

func (r *memPostRepo) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *memPostRepo) Find(ctx context.Context, page, pageSize int) ([]*entity.Post, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if page < 1 {
		page = 1
	}
	all := make([]*entity.Post, 0, len(r.posts))
	for _, p := range r.posts {
		cp := *p
		all = append(all, &cp)
	}
	// newest first, mirroring the createdAt desc sort
	sort.Slice(all, func(i, j int) bool {
		return r.order[all[i].ID.Hex()] > r.order[all[j].ID.Hex()]
	})
	total := int64(len(all))
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []*entity.Post{}, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}

func (r *memPostRepo) Update(ctx context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[p.ID.Hex()]
	if !ok {
		return repository.ErrNotFound
	}
	stored.Title = p.Title
	stored.Content = p.Content
	stored.ImageURL = p.ImageURL
	return nil
}

func (r *memPostRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

type recordedEvent struct {
	Event string
	Data  any
}

type recordingBroadcaster struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (b *recordingBroadcaster) Broadcast(event string, data any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, recordedEvent{Event: event, Data: data})
}

func (b *recordingBroadcaster) last() (recordedEvent, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.events) == 0 {
		return recordedEvent{}, false
	}
	return b.events[len(b.events)-1], true
}

type fakeImageStore struct {
	mu      sync.Mutex
	saved   int
	removed []string
}

func (s *fakeImageStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved++
	return "/uploads/images/fake-" + filename, nil
}

func (s *fakeImageStore) Remove(ctx context.Context, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, path)
	return nil
}

// failingUserRepo and failingPostRepo return the same error from every
// method, standing in for an unreachable store.
type failingUserRepo struct{ err error }

func (r *failingUserRepo) Create(ctx context.Context, u *entity.User) error { return r.err }
func (r *failingUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	return nil, r.err
}
func (r *failingUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	return nil, r.err
}
func (r *failingUserRepo) UpdateStatus(ctx context.Context, id, status string) error { return r.err }
func (r *failingUserRepo) AddPost(ctx context.Context, userID, postID string) error  { return r.err }
func (r *failingUserRepo) RemovePost(ctx context.Context, userID, postID string) error {
	return r.err
}

type failingPostRepo struct{ err error }

func (r *failingPostRepo) Create(ctx context.Context, p *entity.Post) error { return r.err }
func (r *failingPostRepo) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	return nil, r.err
}
func (r *failingPostRepo) Find(ctx context.Context, page, pageSize int) ([]*entity.Post, int64, error) {
	return nil, 0, r.err
}
func (r *failingPostRepo) Update(ctx context.Context, p *entity.Post) error { return r.err }
func (r *failingPostRepo) Delete(ctx context.Context, id string) error      { return r.err }
