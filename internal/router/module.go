package router

import "github.com/gin-gonic/gin"

// Module is one mounted feature surface (auth, feed, graphql, realtime,
// static uploads). Each hangs its routes off the shared root group.
type Module interface {
	Register(rg *gin.RouterGroup)
}
