package graphql

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/graphql-go/graphql"
	"github.com/sirupsen/logrus"

	"github.com/feedwire/feedwire/internal/interface/middleware"
)

// Handler serves POST /graphql, executing {query, variables} bodies
// against the schema with the caller's identity on the context.
type Handler struct {
	Schema graphql.Schema
	Logger *logrus.Logger
}

func NewHandler(schema graphql.Schema, logger *logrus.Logger) *Handler {
	return &Handler{Schema: schema, Logger: logger}
}

type request struct {
	Query         string                 `json:"query"`
	Variables     map[string]interface{} `json:"variables"`
	OperationName string                 `json:"operationName"`
}

func (h *Handler) Serve(c *gin.Context) {
	var req request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": []gin.H{{"message": "invalid request body"}}})
		return
	}

	ctx := WithIdentity(c.Request.Context(),
		c.GetBool(middleware.CtxIsAuthKey),
		c.GetString(middleware.CtxUserIDKey),
	)

	result := graphql.Do(graphql.Params{
		Schema:         h.Schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
	if len(result.Errors) > 0 {
		h.Logger.WithField("errors", result.Errors).Debug("graphql execution errors")
	}
	c.JSON(http.StatusOK, result)
}
