package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/store-service/internal/render"
	apperrors "github.com/spec-kit/store-service/pkg/util/errorutil"
)

// RootHandler answers the API index and unmatched routes.
type RootHandler struct {
	version string
}

// NewRootHandler returns a new handler instance.
func NewRootHandler(version string) *RootHandler {
	return &RootHandler{version: version}
}

type indexResponse struct {
	Success string `json:"success"`
	Message string `json:"message"`
	Version string `json:"version"`
}

// Index handles GET /api.
func (h *RootHandler) Index(c *fiber.Ctx) error {
	return render.Send(c, http.StatusOK, render.Success(render.RootResponse, indexResponse{
		Success: "true",
		Message: "Run testing app",
		Version: h.version,
	}))
}

// NotFound answers any route nothing else matched.
func (h *RootHandler) NotFound(c *fiber.Ctx) error {
	return apperrors.NewNotFound("404 - resource not found " + c.BaseURL() + c.OriginalURL())
}
