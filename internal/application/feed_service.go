package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/feedwire/feedwire/internal/domain/entity"
	"github.com/feedwire/feedwire/internal/domain/repository"
	"github.com/feedwire/feedwire/internal/search"
	"github.com/feedwire/feedwire/pkg/storage"
)

// Broadcaster pushes feed events to every connected client. Satisfied by
// realtime.Hub; broadcasts are fire-and-forget.
type Broadcaster interface {
	Broadcast(event string, data any)
}

// PostsEvent is the payload of the "posts" realtime event.
type PostsEvent struct {
	Action string `json:"action"`
	Post   any    `json:"post"`
}

// FeedService holds the post rules shared by the REST controller and the
// GraphQL resolvers: length validation, ownership checks, pagination,
// image bookkeeping, broadcasting, and search indexing.
type FeedService struct {
	Posts    repository.PostRepository
	Users    repository.UserRepository
	Images   storage.ImageStore
	Notifier Broadcaster
	Index    *search.PostIndex
	Logger   *logrus.Logger
	PageSize int
}

func NewFeedService(posts repository.PostRepository, users repository.UserRepository, images storage.ImageStore, notifier Broadcaster, index *search.PostIndex, logger *logrus.Logger, pageSize int) *FeedService {
	if pageSize <= 0 {
		pageSize = 2
	}
	return &FeedService{
		Posts:    posts,
		Users:    users,
		Images:   images,
		Notifier: notifier,
		Index:    index,
		Logger:   logger,
		PageSize: pageSize,
	}
}

func validatePostInput(title, content string) error {
	var fields []FieldError
	if len(strings.TrimSpace(title)) < 5 {
		fields = append(fields, FieldError{Field: "title", Message: "Title is invalid."})
	}
	if len(strings.TrimSpace(content)) < 5 {
		fields = append(fields, FieldError{Field: "content", Message: "Content is invalid."})
	}
	if len(fields) > 0 {
		return newValidationError(fields...)
	}
	return nil
}

// populate resolves the creator reference into the abbreviated owner view.
// A dangling reference leaves Creator nil rather than failing the read.
func (s *FeedService) populate(ctx context.Context, posts ...*entity.Post) {
	cache := map[string]*entity.PublicCreator{}
	for _, p := range posts {
		id := p.CreatorID.Hex()
		if c, ok := cache[id]; ok {
			p.Creator = c
			continue
		}
		u, err := s.Users.GetByID(ctx, id)
		if err != nil || u == nil {
			continue
		}
		pc := u.Public()
		cache[id] = &pc
		p.Creator = &pc
	}
}

// ListPosts returns one page ordered by creation time descending, with
// creators populated, plus the unpaged total count.
func (s *FeedService) ListPosts(ctx context.Context, page int) ([]*entity.Post, int64, error) {
	posts, total, err := s.Posts.Find(ctx, page, s.PageSize)
	if err != nil {
		return nil, 0, err
	}
	s.populate(ctx, posts...)
	return posts, total, nil
}

func (s *FeedService) GetPost(ctx context.Context, id string) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	s.populate(ctx, p)
	return p, nil
}

type PostInput struct {
	Title    string
	Content  string
	ImageURL string
}

// CreatePost validates the input, persists the post, links it to its
// creator, and fans out the create event. Broadcast and index failures do
// not roll back the write.
func (s *FeedService) CreatePost(ctx context.Context, userID string, in PostInput) (*entity.Post, error) {
	if err := validatePostInput(in.Title, in.Content); err != nil {
		return nil, err
	}
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotAuthenticated
	}
	if err != nil {
		return nil, err
	}

	p := &entity.Post{
		Title:     strings.TrimSpace(in.Title),
		Content:   strings.TrimSpace(in.Content),
		ImageURL:  in.ImageURL,
		CreatorID: u.ID,
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	if err := s.Users.AddPost(ctx, u.ID.Hex(), p.ID.Hex()); err != nil {
		s.Logger.WithError(err).WithField("post_id", p.ID.Hex()).Error("linking post to user failed")
	}
	pc := u.Public()
	p.Creator = &pc

	s.broadcast("create", p)
	s.Index.IndexPost(ctx, p)
	return p, nil
}

// UpdatePost enforces ownership, applies the validated input, and removes
// the previously stored image when the path changed. An empty ImageURL
// keeps the stored image.
func (s *FeedService) UpdatePost(ctx context.Context, userID, postID string, in PostInput) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.CreatorID.Hex() != userID {
		return nil, ErrNotAuthorized
	}
	if err := validatePostInput(in.Title, in.Content); err != nil {
		return nil, err
	}

	oldImage := p.ImageURL
	p.Title = strings.TrimSpace(in.Title)
	p.Content = strings.TrimSpace(in.Content)
	if in.ImageURL != "" {
		p.ImageURL = in.ImageURL
	}
	if err := s.Posts.Update(ctx, p); err != nil {
		return nil, err
	}
	if p.ImageURL != oldImage {
		s.removeImage(ctx, oldImage)
	}
	s.populate(ctx, p)

	s.broadcast("update", p)
	s.Index.IndexPost(ctx, p)
	return p, nil
}

// DeletePost enforces ownership, then removes the image file, the post
// document, and the owner's back-reference. The delete event carries only
// the post id.
func (s *FeedService) DeletePost(ctx context.Context, userID, postID string) error {
	p, err := s.Posts.GetByID(ctx, postID)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	if p.CreatorID.Hex() != userID {
		return ErrNotAuthorized
	}

	s.removeImage(ctx, p.ImageURL)
	if err := s.Posts.Delete(ctx, postID); err != nil {
		return err
	}
	if err := s.Users.RemovePost(ctx, userID, postID); err != nil {
		s.Logger.WithError(err).WithField("post_id", postID).Error("unlinking post from user failed")
	}

	s.broadcast("delete", postID)
	s.Index.DeletePost(ctx, postID)
	return nil
}

// SearchPosts queries the search index; hits reference posts by id.
func (s *FeedService) SearchPosts(ctx context.Context, q string, size int) ([]search.Hit, error) {
	return s.Index.Search(ctx, q, size)
}

func (s *FeedService) broadcast(action string, post any) {
	if s.Notifier == nil {
		return
	}
	s.Notifier.Broadcast("posts", PostsEvent{Action: action, Post: post})
}

func (s *FeedService) removeImage(ctx context.Context, path string) {
	if s.Images == nil || path == "" {
		return
	}
	if err := s.Images.Remove(ctx, path); err != nil {
		s.Logger.WithError(err).WithField("image", path).Warn("removing stored image failed")
	}
}
