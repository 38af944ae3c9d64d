// Package webui serves a plain HTML page for inspecting the running service.
package webui

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"metrolive.dev/internal/app"
)

type WebUI struct {
	*app.Application
}

func (webUI *WebUI) SetWebUIRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/debug/", webUI.debugIndexHandler)
}
