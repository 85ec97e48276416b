// Package controllers wires requests to the feed, policy, forms and storage
// layers and emits view contexts for the renderer. No business logic lives
// here beyond orchestration.
package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"inkwell/render"
)

func notFound(r render.Renderer, c *gin.Context) {
	r.HTML(c, http.StatusNotFound, "404", gin.H{})
}

func serverError(r render.Renderer, c *gin.Context, err error) {
	log.Printf("request failed: %v", err)
	r.HTML(c, http.StatusInternalServerError, "500", gin.H{})
}
