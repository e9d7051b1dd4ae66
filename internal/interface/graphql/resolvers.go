package graphql

import (
	"errors"

	"github.com/graphql-go/graphql"

	"github.com/feedwire/feedwire/internal/application"
)

// apiError carries the numeric code and optional field-message list into
// the GraphQL error extensions.
type apiError struct {
	message string
	code    int
	data    []application.FieldError
}

func (e *apiError) Error() string { return e.message }

// Extensions implements gqlerrors.ExtendedError.
func (e *apiError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.code}
	if len(e.data) > 0 {
		ext["data"] = e.data
	}
	return ext
}

func wrap(err error) error {
	var verr *application.ValidationError
	if errors.As(err, &verr) {
		return &apiError{message: verr.Error(), code: application.HTTPStatus(err), data: verr.Fields}
	}
	return &apiError{message: err.Error(), code: application.HTTPStatus(err)}
}

var errNotAuthenticated = &apiError{message: "not authenticated", code: 401}

func stringArg(m map[string]interface{}, key string) string {
	v, _ := m[key].(string)
	return v
}

func (s *Schema) createUser(p graphql.ResolveParams) (interface{}, error) {
	in, _ := p.Args["userInput"].(map[string]interface{})
	if in == nil {
		return nil, wrap(&application.ValidationError{Fields: []application.FieldError{{Field: "userInput", Message: "is required"}}})
	}
	u, err := s.Auth.Signup(p.Context, application.SignupInput{
		Email:    stringArg(in, "email"),
		Password: stringArg(in, "password"),
		Name:     stringArg(in, "name"),
	})
	if err != nil {
		return nil, wrap(err)
	}
	return u, nil
}

func (s *Schema) login(p graphql.ResolveParams) (interface{}, error) {
	res, err := s.Auth.Login(p.Context, p.Args["email"].(string), p.Args["password"].(string))
	if err != nil {
		return nil, wrap(err)
	}
	return map[string]interface{}{"token": res.Token, "userId": res.UserID}, nil
}

func (s *Schema) posts(p graphql.ResolveParams) (interface{}, error) {
	if _, ok := identity(p.Context); !ok {
		return nil, errNotAuthenticated
	}
	page, _ := p.Args["page"].(int)
	if page < 1 {
		page = 1
	}
	posts, total, err := s.Feed.ListPosts(p.Context, page)
	if err != nil {
		return nil, wrap(err)
	}
	return map[string]interface{}{"posts": posts, "totalPosts": int(total)}, nil
}

func (s *Schema) post(p graphql.ResolveParams) (interface{}, error) {
	if _, ok := identity(p.Context); !ok {
		return nil, errNotAuthenticated
	}
	post, err := s.Feed.GetPost(p.Context, p.Args["id"].(string))
	if err != nil {
		return nil, wrap(err)
	}
	return post, nil
}

func (s *Schema) user(p graphql.ResolveParams) (interface{}, error) {
	uid, ok := identity(p.Context)
	if !ok {
		return nil, errNotAuthenticated
	}
	u, err := s.Auth.GetUser(p.Context, uid)
	if err != nil {
		return nil, wrap(err)
	}
	return u, nil
}

func (s *Schema) createPost(p graphql.ResolveParams) (interface{}, error) {
	uid, ok := identity(p.Context)
	if !ok {
		return nil, errNotAuthenticated
	}
	in, _ := p.Args["postInput"].(map[string]interface{})
	if in == nil {
		return nil, wrap(&application.ValidationError{Fields: []application.FieldError{{Field: "postInput", Message: "is required"}}})
	}
	post, err := s.Feed.CreatePost(p.Context, uid, application.PostInput{
		Title:    stringArg(in, "title"),
		Content:  stringArg(in, "content"),
		ImageURL: stringArg(in, "imageUrl"),
	})
	if err != nil {
		return nil, wrap(err)
	}
	return post, nil
}

func (s *Schema) updatePost(p graphql.ResolveParams) (interface{}, error) {
	uid, ok := identity(p.Context)
	if !ok {
		return nil, errNotAuthenticated
	}
	in, _ := p.Args["postInput"].(map[string]interface{})
	if in == nil {
		return nil, wrap(&application.ValidationError{Fields: []application.FieldError{{Field: "postInput", Message: "is required"}}})
	}
	image := stringArg(in, "imageUrl")
	// clients resend "undefined" when the image was untouched
	if image == "undefined" {
		image = ""
	}
	post, err := s.Feed.UpdatePost(p.Context, uid, p.Args["id"].(string), application.PostInput{
		Title:    stringArg(in, "title"),
		Content:  stringArg(in, "content"),
		ImageURL: image,
	})
	if err != nil {
		return nil, wrap(err)
	}
	return post, nil
}

func (s *Schema) deletePost(p graphql.ResolveParams) (interface{}, error) {
	uid, ok := identity(p.Context)
	if !ok {
		return nil, errNotAuthenticated
	}
	if err := s.Feed.DeletePost(p.Context, uid, p.Args["id"].(string)); err != nil {
		return nil, wrap(err)
	}
	return true, nil
}

func (s *Schema) updateStatus(p graphql.ResolveParams) (interface{}, error) {
	uid, ok := identity(p.Context)
	if !ok {
		return nil, errNotAuthenticated
	}
	u, err := s.Auth.UpdateStatus(p.Context, uid, p.Args["status"].(string))
	if err != nil {
		return nil, wrap(err)
	}
	return u, nil
}
