package graphql

import (
	"context"
	"time"

	"github.com/graphql-go/graphql"

	"github.com/feedwire/feedwire/internal/application"
	"github.com/feedwire/feedwire/internal/domain/entity"
)

type ctxKey int

const (
	ctxIsAuth ctxKey = iota
	ctxUserID
)

// WithIdentity attaches the authenticated caller to the resolver context.
func WithIdentity(ctx context.Context, isAuth bool, userID string) context.Context {
	ctx = context.WithValue(ctx, ctxIsAuth, isAuth)
	return context.WithValue(ctx, ctxUserID, userID)
}

func identity(ctx context.Context) (string, bool) {
	isAuth, _ := ctx.Value(ctxIsAuth).(bool)
	uid, _ := ctx.Value(ctxUserID).(string)
	return uid, isAuth && uid != ""
}

// Schema wires the query and mutation fields onto the shared application
// services. The resolvers add no business rules of their own.
type Schema struct {
	Auth *application.AuthService
	Feed *application.FeedService
}

func iso(t time.Time) string { return t.UTC().Format(time.RFC3339Nano) }

// New builds the executable schema.
func New(auth *application.AuthService, feed *application.FeedService) (graphql.Schema, error) {
	s := &Schema{Auth: auth, Feed: feed}

	userType := graphql.NewObject(graphql.ObjectConfig{Name: "User", Fields: graphql.Fields{}})
	postType := graphql.NewObject(graphql.ObjectConfig{Name: "Post", Fields: graphql.Fields{}})

	userType.AddFieldConfig("_id", &graphql.Field{
		Type: graphql.NewNonNull(graphql.ID),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*entity.User).ID.Hex(), nil
		},
	})
	userType.AddFieldConfig("name", &graphql.Field{
		Type: graphql.NewNonNull(graphql.String),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*entity.User).Name, nil
		},
	})
	userType.AddFieldConfig("email", &graphql.Field{
		Type: graphql.String,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*entity.User).Email, nil
		},
	})
	userType.AddFieldConfig("status", &graphql.Field{
		Type: graphql.String,
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*entity.User).Status, nil
		},
	})
	userType.AddFieldConfig("posts", &graphql.Field{
		Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType))),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			u := p.Source.(*entity.User)
			posts := make([]*entity.Post, 0, len(u.Posts))
			for _, id := range u.Posts {
				post, err := s.Feed.GetPost(p.Context, id.Hex())
				if err != nil {
					continue // dangling reference, skip
				}
				posts = append(posts, post)
			}
			return posts, nil
		},
	})

	creatorType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Creator",
		Fields: graphql.Fields{
			"_id":  &graphql.Field{Type: graphql.NewNonNull(graphql.ID)},
			"name": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postType.AddFieldConfig("_id", &graphql.Field{
		Type: graphql.NewNonNull(graphql.ID),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*entity.Post).ID.Hex(), nil
		},
	})
	postType.AddFieldConfig("title", &graphql.Field{Type: graphql.NewNonNull(graphql.String)})
	postType.AddFieldConfig("content", &graphql.Field{Type: graphql.NewNonNull(graphql.String)})
	postType.AddFieldConfig("imageUrl", &graphql.Field{
		Type: graphql.NewNonNull(graphql.String),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return p.Source.(*entity.Post).ImageURL, nil
		},
	})
	postType.AddFieldConfig("creator", &graphql.Field{
		Type: graphql.NewNonNull(creatorType),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			post := p.Source.(*entity.Post)
			if post.Creator != nil {
				return map[string]interface{}{"_id": post.Creator.ID, "name": post.Creator.Name}, nil
			}
			return map[string]interface{}{"_id": post.CreatorID.Hex(), "name": ""}, nil
		},
	})
	postType.AddFieldConfig("createdAt", &graphql.Field{
		Type: graphql.NewNonNull(graphql.String),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return iso(p.Source.(*entity.Post).CreatedAt), nil
		},
	})
	postType.AddFieldConfig("updatedAt", &graphql.Field{
		Type: graphql.NewNonNull(graphql.String),
		Resolve: func(p graphql.ResolveParams) (interface{}, error) {
			return iso(p.Source.(*entity.Post).UpdatedAt), nil
		},
	})

	authDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "AuthData",
		Fields: graphql.Fields{
			"token":  &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"userId": &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postDataType := graphql.NewObject(graphql.ObjectConfig{
		Name: "PostData",
		Fields: graphql.Fields{
			"posts":      &graphql.Field{Type: graphql.NewNonNull(graphql.NewList(graphql.NewNonNull(postType)))},
			"totalPosts": &graphql.Field{Type: graphql.NewNonNull(graphql.Int)},
		},
	})

	userInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "UserInputData",
		Fields: graphql.InputObjectConfigFieldMap{
			"email":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"name":     &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"password": &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
		},
	})

	postInput := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "PostInputData",
		Fields: graphql.InputObjectConfigFieldMap{
			"title":    &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"content":  &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"imageUrl": &graphql.InputObjectFieldConfig{Type: graphql.String},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootQuery",
		Fields: graphql.Fields{
			"login": &graphql.Field{
				Type: graphql.NewNonNull(authDataType),
				Args: graphql.FieldConfigArgument{
					"email":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
					"password": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: s.login,
			},
			"posts": &graphql.Field{
				Type: graphql.NewNonNull(postDataType),
				Args: graphql.FieldConfigArgument{
					"page": &graphql.ArgumentConfig{Type: graphql.Int},
				},
				Resolve: s.posts,
			},
			"post": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: s.post,
			},
			"user": &graphql.Field{
				Type:    graphql.NewNonNull(userType),
				Resolve: s.user,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "RootMutation",
		Fields: graphql.Fields{
			"createUser": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"userInput": &graphql.ArgumentConfig{Type: userInput},
				},
				Resolve: s.createUser,
			},
			"createPost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"postInput": &graphql.ArgumentConfig{Type: postInput},
				},
				Resolve: s.createPost,
			},
			"updatePost": &graphql.Field{
				Type: graphql.NewNonNull(postType),
				Args: graphql.FieldConfigArgument{
					"id":        &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"postInput": &graphql.ArgumentConfig{Type: postInput},
				},
				Resolve: s.updatePost,
			},
			"deletePost": &graphql.Field{
				Type: graphql.Boolean,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: s.deletePost,
			},
			"updateStatus": &graphql.Field{
				Type: graphql.NewNonNull(userType),
				Args: graphql.FieldConfigArgument{
					"status": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: s.updateStatus,
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{Query: query, Mutation: mutation})
}
