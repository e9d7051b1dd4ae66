package modules

import (
	"github.com/gin-gonic/gin"
)

// StaticModule serves locally stored upload files under their URL prefix.
type StaticModule struct {
	URLPrefix string
	Dir       string
}

func NewStaticModule(urlPrefix, dir string) *StaticModule {
	return &StaticModule{URLPrefix: urlPrefix, Dir: dir}
}

func (m *StaticModule) Register(rg *gin.RouterGroup) {
	rg.Static(m.URLPrefix, m.Dir)
}
