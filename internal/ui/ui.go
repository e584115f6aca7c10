// Package ui sirve la página de chat del buscador.
package ui

import (
	_ "embed"
	"net/http"

	"github.com/gin-gonic/gin"
)

//go:embed static/index.html
var indexHTML []byte

// Register monta la página en "/"
func Register(router gin.IRoutes) {
	router.GET("/", Index)
}

func Index(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", indexHTML)
}
