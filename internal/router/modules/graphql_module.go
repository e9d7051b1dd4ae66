package modules

import (
	"github.com/gin-gonic/gin"

	gql "github.com/feedwire/feedwire/internal/interface/graphql"
)

// GraphQLModule exposes the whole typed surface on a single POST path.
// Authentication is not demanded here; resolvers decide per field.
type GraphQLModule struct {
	Handler *gql.Handler
}

func NewGraphQLModule(h *gql.Handler) *GraphQLModule {
	return &GraphQLModule{Handler: h}
}

func (m *GraphQLModule) Register(rg *gin.RouterGroup) {
	rg.POST("/graphql", m.Handler.Serve)
}
