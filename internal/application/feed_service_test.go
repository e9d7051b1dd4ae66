package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/feedwire/feedwire/internal/domain/entity"
	"github.com/feedwire/feedwire/internal/domain/repository"
)

type feedFixture struct {
	svc      *FeedService
	posts    *memPostRepo
	users    *memUserRepo
	images   *fakeImageStore
	notifier *recordingBroadcaster
}

func newFeedFixture(t *testing.T) *feedFixture {
	t.Helper()
	f := &feedFixture{
		posts:    newMemPostRepo(),
		users:    newMemUserRepo(),
		images:   &fakeImageStore{},
		notifier: &recordingBroadcaster{},
	}
	f.svc = NewFeedService(f.posts, f.users, f.images, f.notifier, nil, testLogger(), 2)
	return f
}

func (f *feedFixture) addUser(t *testing.T, email string) *entity.User {
	t.Helper()
	u := &entity.User{Email: email, Password: "hash", Name: "Max", Status: entity.DefaultStatus}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestCreatePost(t *testing.T) {
	f := newFeedFixture(t)
	u := f.addUser(t, "max@example.com")

	p, err := f.svc.CreatePost(context.Background(), u.ID.Hex(), PostInput{
		Title:    "  First post  ",
		Content:  "Hello feed!",
		ImageURL: "/uploads/images/a.png",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	if p.Title != "First post" {
		t.Fatalf("title not trimmed: %q", p.Title)
	}
	if p.Creator == nil || p.Creator.Name != "Max" {
		t.Fatalf("creator not populated: %+v", p.Creator)
	}

	owner, _ := f.users.GetByID(context.Background(), u.ID.Hex())
	if len(owner.Posts) != 1 || owner.Posts[0] != p.ID {
		t.Fatalf("post not linked to creator: %v", owner.Posts)
	}

	ev, ok := f.notifier.last()
	if !ok || ev.Event != "posts" {
		t.Fatalf("expected a posts broadcast, got %+v", ev)
	}
	pe, ok := ev.Data.(PostsEvent)
	if !ok || pe.Action != "create" {
		t.Fatalf("broadcast payload = %+v", ev.Data)
	}
}

func TestCreatePostValidation(t *testing.T) {
	f := newFeedFixture(t)
	u := f.addUser(t, "max@example.com")

	_, err := f.svc.CreatePost(context.Background(), u.ID.Hex(), PostInput{Title: "hey", Content: "hi"})
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(verr.Fields) != 2 {
		t.Fatalf("expected title and content errors, got %+v", verr.Fields)
	}
	if _, ok := f.notifier.last(); ok {
		t.Fatalf("rejected post must not broadcast")
	}

	_, err = f.svc.CreatePost(context.Background(), "ffffffffffffffffffffffff", PostInput{Title: "valid title", Content: "valid content"})
	if !errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("unknown creator err = %v, want ErrNotAuthenticated", err)
	}
}

func TestUpdatePostOwnership(t *testing.T) {
	f := newFeedFixture(t)
	owner := f.addUser(t, "owner@example.com")
	other := f.addUser(t, "other@example.com")

	p, err := f.svc.CreatePost(context.Background(), owner.ID.Hex(), PostInput{Title: "original title", Content: "original content"})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	_, err = f.svc.UpdatePost(context.Background(), other.ID.Hex(), p.ID.Hex(), PostInput{Title: "hijacked post", Content: "changed content"})
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("non-creator update err = %v, want ErrNotAuthorized", err)
	}
	if HTTPStatus(err) != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", HTTPStatus(err))
	}
	stored, _ := f.posts.GetByID(context.Background(), p.ID.Hex())
	if stored.Title != "original title" || stored.Content != "original content" {
		t.Fatalf("post changed by non-creator: %+v", stored)
	}

	if err := f.svc.DeletePost(context.Background(), other.ID.Hex(), p.ID.Hex()); !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("non-creator delete err = %v, want ErrNotAuthorized", err)
	}
}

func TestUpdatePostImageHandling(t *testing.T) {
	f := newFeedFixture(t)
	u := f.addUser(t, "max@example.com")
	p, err := f.svc.CreatePost(context.Background(), u.ID.Hex(), PostInput{
		Title: "first title", Content: "first content", ImageURL: "/uploads/images/old.png",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	// empty image path keeps the stored image
	up, err := f.svc.UpdatePost(context.Background(), u.ID.Hex(), p.ID.Hex(), PostInput{Title: "newer title", Content: "newer content"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if up.ImageURL != "/uploads/images/old.png" {
		t.Fatalf("image replaced on empty input: %q", up.ImageURL)
	}
	if len(f.images.removed) != 0 {
		t.Fatalf("image removed although unchanged: %v", f.images.removed)
	}

	// replacing the image deletes the previous file
	up, err = f.svc.UpdatePost(context.Background(), u.ID.Hex(), p.ID.Hex(), PostInput{
		Title: "newer title", Content: "newer content", ImageURL: "/uploads/images/new.png",
	})
	if err != nil {
		t.Fatalf("update with image: %v", err)
	}
	if up.ImageURL != "/uploads/images/new.png" {
		t.Fatalf("image not replaced: %q", up.ImageURL)
	}
	if len(f.images.removed) != 1 || f.images.removed[0] != "/uploads/images/old.png" {
		t.Fatalf("old image not removed: %v", f.images.removed)
	}
}

func TestDeletePostCascade(t *testing.T) {
	f := newFeedFixture(t)
	u := f.addUser(t, "max@example.com")
	p, err := f.svc.CreatePost(context.Background(), u.ID.Hex(), PostInput{
		Title: "doomed title", Content: "doomed content", ImageURL: "/uploads/images/gone.png",
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}

	if err := f.svc.DeletePost(context.Background(), u.ID.Hex(), p.ID.Hex()); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.posts.GetByID(context.Background(), p.ID.Hex()); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("post still stored after delete")
	}
	owner, _ := f.users.GetByID(context.Background(), u.ID.Hex())
	if len(owner.Posts) != 0 {
		t.Fatalf("back-reference not removed: %v", owner.Posts)
	}
	if len(f.images.removed) != 1 || f.images.removed[0] != "/uploads/images/gone.png" {
		t.Fatalf("image not removed: %v", f.images.removed)
	}

	ev, _ := f.notifier.last()
	pe, ok := ev.Data.(PostsEvent)
	if !ok || pe.Action != "delete" {
		t.Fatalf("broadcast payload = %+v", ev.Data)
	}
	if id, ok := pe.Post.(string); !ok || id != p.ID.Hex() {
		t.Fatalf("delete event must carry the post id, got %+v", pe.Post)
	}

	if err := f.svc.DeletePost(context.Background(), u.ID.Hex(), p.ID.Hex()); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("second delete err = %v, want ErrPostNotFound", err)
	}
}

func TestListPostsPagination(t *testing.T) {
	f := newFeedFixture(t)
	u := f.addUser(t, "max@example.com")
	for i := 1; i <= 5; i++ {
		if _, err := f.svc.CreatePost(context.Background(), u.ID.Hex(), PostInput{
			Title:   fmt.Sprintf("Post number %d", i),
			Content: fmt.Sprintf("Content number %d", i),
		}); err != nil {
			t.Fatalf("create post %d: %v", i, err)
		}
	}

	page1, total, err := f.svc.ListPosts(context.Background(), 1)
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if total != 5 {
		t.Fatalf("total = %d, want 5", total)
	}
	if len(page1) != 2 || page1[0].Title != "Post number 5" || page1[1].Title != "Post number 4" {
		t.Fatalf("page 1 = %v", titles(page1))
	}
	if page1[0].Creator == nil {
		t.Fatalf("creator not populated on listing")
	}

	page3, total, err := f.svc.ListPosts(context.Background(), 3)
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if total != 5 || len(page3) != 1 || page3[0].Title != "Post number 1" {
		t.Fatalf("page 3 = %v (total %d)", titles(page3), total)
	}

	empty, total, err := f.svc.ListPosts(context.Background(), 4)
	if err != nil {
		t.Fatalf("list page 4: %v", err)
	}
	if total != 5 || len(empty) != 0 {
		t.Fatalf("past-the-end page = %v (total %d)", titles(empty), total)
	}
}

func titles(posts []*entity.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Title
	}
	return out
}

func TestGetPostNotFound(t *testing.T) {
	f := newFeedFixture(t)
	_, err := f.svc.GetPost(context.Background(), "ffffffffffffffffffffffff")
	if !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("err = %v, want ErrPostNotFound", err)
	}
	if HTTPStatus(err) != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", HTTPStatus(err))
	}
}

func TestFeedStoreFailuresStayInternal(t *testing.T) {
	down := errors.New("connection refused")
	posts := &failingPostRepo{err: down}
	users := &failingUserRepo{err: down}
	svc := NewFeedService(posts, users, &fakeImageStore{}, &recordingBroadcaster{}, nil, testLogger(), 2)
	id := primitive.NewObjectID().Hex()

	if _, err := svc.GetPost(context.Background(), id); errors.Is(err, ErrPostNotFound) {
		t.Fatalf("store outage reported as not found")
	} else if HTTPStatus(err) != http.StatusInternalServerError {
		t.Fatalf("GetPost status = %d, want 500 (err %v)", HTTPStatus(err), err)
	}

	_, err := svc.CreatePost(context.Background(), id, PostInput{Title: "valid title", Content: "valid content"})
	if errors.Is(err, ErrNotAuthenticated) {
		t.Fatalf("store outage reported as not authenticated")
	}
	if HTTPStatus(err) != http.StatusInternalServerError {
		t.Fatalf("CreatePost status = %d, want 500 (err %v)", HTTPStatus(err), err)
	}

	if _, err := svc.UpdatePost(context.Background(), id, id, PostInput{Title: "valid title", Content: "valid content"}); HTTPStatus(err) != http.StatusInternalServerError {
		t.Fatalf("UpdatePost status = %d, want 500 (err %v)", HTTPStatus(err), err)
	}
	if err := svc.DeletePost(context.Background(), id, id); HTTPStatus(err) != http.StatusInternalServerError {
		t.Fatalf("DeletePost status = %d, want 500 (err %v)", HTTPStatus(err), err)
	}
	if _, _, err := svc.ListPosts(context.Background(), 1); HTTPStatus(err) != http.StatusInternalServerError {
		t.Fatalf("ListPosts status = %d, want 500 (err %v)", HTTPStatus(err), err)
	}
}
