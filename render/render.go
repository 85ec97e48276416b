// Package render is the seam between handlers and page rendering. Handlers
// build a view context and hand it to a Renderer; templating itself is a
// collaborator outside the core.
package render

import (
	"github.com/gin-gonic/gin"
)

// Renderer consumes a view context for a named page.
type Renderer interface {
	HTML(c *gin.Context, code int, name string, data gin.H)
}

// HTMLRenderer renders through gin's template engine. The engine must have
// templates loaded (see main).
type HTMLRenderer struct{}

func (HTMLRenderer) HTML(c *gin.Context, code int, name string, data gin.H) {
	c.HTML(code, name+".html", data)
}
