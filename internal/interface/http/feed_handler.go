package handlers

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/feedwire/feedwire/internal/application"
	"github.com/feedwire/feedwire/internal/interface/middleware"
	"github.com/feedwire/feedwire/pkg/response"
	"github.com/feedwire/feedwire/pkg/storage"
)

type FeedHandler struct {
	Svc    *application.FeedService
	Images storage.ImageStore
	Logger *logrus.Logger
}

func NewFeedHandler(svc *application.FeedService, images storage.ImageStore, logger *logrus.Logger) *FeedHandler {
	return &FeedHandler{Svc: svc, Images: images, Logger: logger}
}

// respondError maps a service error onto the REST taxonomy. Validation
// errors carry their field-message list in the error payload.
func respondError(c *gin.Context, err error) {
	status := application.HTTPStatus(err)
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		response.Error[any](c, status, verr.Error(), verr.Fields)
		return
	}
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal server error"
	}
	response.Error[any](c, status, msg, nil)
}

// GetPosts GET /feed/posts?page=N
func (h *FeedHandler) GetPosts(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	posts, total, err := h.Svc.ListPosts(c.Request.Context(), page)
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"posts":      posts,
		"totalItems": total,
	}, "fetched posts successfully")
}

// GetPost GET /feed/post/:postId
func (h *FeedHandler) GetPost(c *gin.Context) {
	post, err := h.Svc.GetPost(c.Request.Context(), c.Param("postId"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"post": post}, "post fetched successfully")
}

type postForm struct {
	Title   string `form:"title"`
	Content string `form:"content"`
	Image   string `form:"image"` // existing stored path on update
}

// storeUpload saves the uploaded image and returns its stored path.
// Non-image MIME types are silently discarded: the caller observes the
// same empty path a missing file produces.
func (h *FeedHandler) storeUpload(ctx context.Context, fh *multipart.FileHeader) string {
	if fh == nil {
		return ""
	}
	if !storage.ImageAllowed(fh.Header.Get("Content-Type")) {
		return ""
	}
	f, err := fh.Open()
	if err != nil {
		h.Logger.WithError(err).Warn("opening upload failed")
		return ""
	}
	defer func() { _ = f.Close() }()
	path, err := h.Images.Save(ctx, fh.Filename, fh.Header.Get("Content-Type"), f)
	if err != nil {
		h.Logger.WithError(err).Warn("storing upload failed")
		return ""
	}
	return path
}

// discardUpload removes a stored file after the post write failed.
func (h *FeedHandler) discardUpload(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := h.Images.Remove(ctx, path); err != nil {
		h.Logger.WithError(err).WithField("image", path).Warn("removing orphan upload failed")
	}
}

// CreatePost POST /feed/post (multipart: title, content, image)
func (h *FeedHandler) CreatePost(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed. entered data is incorrect", nil)
		return
	}
	fh, _ := c.FormFile("image")
	imagePath := h.storeUpload(c.Request.Context(), fh)
	if imagePath == "" {
		response.Error[any](c, http.StatusUnprocessableEntity, "No image provided.", nil)
		return
	}

	post, err := h.Svc.CreatePost(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.PostInput{
		Title:    form.Title,
		Content:  form.Content,
		ImageURL: imagePath,
	})
	if err != nil {
		h.discardUpload(c.Request.Context(), imagePath)
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"post":    post,
		"creator": post.Creator,
	}, "post created successfully!")
}

// UpdatePost PUT /feed/post/:postId (multipart: title, content, image file or existing path)
func (h *FeedHandler) UpdatePost(c *gin.Context) {
	var form postForm
	if err := c.ShouldBind(&form); err != nil {
		response.Error[any](c, http.StatusUnprocessableEntity, "validation failed. entered data is incorrect", nil)
		return
	}
	imagePath := form.Image
	fh, _ := c.FormFile("image")
	uploaded := h.storeUpload(c.Request.Context(), fh)
	if uploaded != "" {
		imagePath = uploaded
	}
	if imagePath == "" {
		response.Error[any](c, http.StatusUnprocessableEntity, "no file picked!", nil)
		return
	}

	post, err := h.Svc.UpdatePost(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("postId"), application.PostInput{
		Title:    form.Title,
		Content:  form.Content,
		ImageURL: imagePath,
	})
	if err != nil {
		h.discardUpload(c.Request.Context(), uploaded)
		respondError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"post": post}, "post updated successfully!")
}

// DeletePost DELETE /feed/post/:postId
func (h *FeedHandler) DeletePost(c *gin.Context) {
	err := h.Svc.DeletePost(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("postId"))
	if err != nil {
		respondError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, nil, "deleted post successfully!")
}

// Search GET /feed/search?q=
func (h *FeedHandler) Search(c *gin.Context) {
	q := c.Query("q")
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	hits, err := h.Svc.SearchPosts(c.Request.Context(), q, size)
	if err != nil {
		h.Logger.WithError(err).Warn("post search failed")
		response.Error[any](c, http.StatusInternalServerError, "search unavailable", nil)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"hits": hits}, "search results")
}
