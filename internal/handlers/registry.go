package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/denote/internal/domain"
	"github.com/nfrund/denote/internal/middleware"
	"github.com/nfrund/denote/internal/registry"
)

// RegistryHandler serves the profile registry API and the rendered pages.
type RegistryHandler struct {
	svc *registry.Service
}

// NewRegistryHandler creates a new RegistryHandler.
func NewRegistryHandler(svc *registry.Service) *RegistryHandler {
	return &RegistryHandler{svc: svc}
}

// Usage handles GET /.
func (h *RegistryHandler) Usage(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: MsgUsage})
}

// Claim handles POST /: create a profile or update one the token owns.
func (h *RegistryHandler) Claim(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	var req ClaimRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: MsgBadRequest})
	}
	if resp, ok := validationResponse(c.Validate(&req)); ok {
		return resp.send(c)
	}
	rawConfig, err := req.ConfigJSON()
	if err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: MsgBadRequest})
	}

	result, err := h.svc.Claim(ctx, req.Name, req.Token, rawConfig)
	var verr *registry.ValidationError
	switch {
	case err == nil:
		logger.Info("Profile claimed", slog.String("name", req.Name), slog.Bool("created", result == registry.Created))
		return c.JSON(http.StatusOK, ClaimResponse{Message: MsgSaved, Name: req.Name, Token: req.Token})
	case errors.As(err, &verr):
		return c.JSON(http.StatusOK, MessageResponse{Message: verr.Message})
	case errors.Is(err, domain.ErrConflict):
		logger.Warn("Claim rejected, token mismatch", slog.String("name", req.Name))
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: MsgClaimConflict})
	default:
		logger.Error("Failed to save profile", slog.String("name", req.Name), slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, MessageResponse{Message: MsgServerError})
	}
}

// Remove handles DELETE /.
func (h *RegistryHandler) Remove(c echo.Context) error {
	ctx := c.Request().Context()
	logger := middleware.FromContext(ctx)

	var req RemoveRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, MessageResponse{Message: MsgBadRequest})
	}
	if resp, ok := validationResponse(c.Validate(&req)); ok {
		return resp.send(c)
	}

	err := h.svc.Remove(ctx, req.Name, req.Token)
	var verr *registry.ValidationError
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, MessageResponse{Message: fmt.Sprintf(msgDeletedFmt, req.Name)})
	case errors.As(err, &verr):
		return c.JSON(http.StatusOK, MessageResponse{Message: verr.Message})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(http.StatusNotFound, MessageResponse{Message: fmt.Sprintf(msgNotExistFmt, req.Name)})
	case errors.Is(err, domain.ErrUnauthorized):
		logger.Warn("Delete rejected, token mismatch", slog.String("name", req.Name))
		return c.JSON(http.StatusUnauthorized, MessageResponse{Message: fmt.Sprintf(msgDeleteDeniedFmt, req.Name)})
	default:
		logger.Error("Failed to delete profile", slog.String("name", req.Name), slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, MessageResponse{Message: MsgServerError})
	}
}

// Page handles GET /:name and GET /:name/*.
func (h *RegistryHandler) Page(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")
	if !registry.ValidateName(name) {
		return c.JSON(http.StatusNotFound, MessageResponse{Message: MsgNotFound})
	}

	html, err := h.svc.Page(ctx, name)
	if errors.Is(err, domain.ErrNotFound) {
		return c.JSON(http.StatusNotFound, MessageResponse{Message: MsgNotFound})
	}
	if err != nil {
		middleware.FromContext(ctx).Error("Failed to render profile", slog.String("name", name), slog.String("error", err.Error()))
		return c.JSON(http.StatusInternalServerError, MessageResponse{Message: MsgServerError})
	}
	return c.HTML(http.StatusOK, html)
}

type errorResponse struct {
	status  int
	message string
}

func (r errorResponse) send(c echo.Context) error {
	return c.JSON(r.status, MessageResponse{Message: r.message})
}

// validationResponse maps the first failed field to a response: missing fields
// are a 400, pattern mismatches a 200 carrying the reason.
func validationResponse(err error) (errorResponse, bool) {
	if err == nil {
		return errorResponse{}, false
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return errorResponse{http.StatusBadRequest, MsgBadRequest}, true
	}
	switch fe := verrs[0]; fe.Tag() {
	case "profilename":
		return errorResponse{http.StatusOK, registry.MsgInvalidName}, true
	case "ownertoken":
		return errorResponse{http.StatusOK, registry.MsgInvalidToken}, true
	default:
		return errorResponse{http.StatusBadRequest, MsgBadRequest}, true
	}
}

// ErrorHandler renders every unhandled error as JSON. Unknown routes and
// methods become 404 so the API exposes a single not-found shape.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := MsgServerError
	var he *echo.HTTPError
	if errors.As(err, &he) {
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			status, message = http.StatusNotFound, MsgNotFound
		case http.StatusInternalServerError:
		default:
			status = he.Code
			if m, ok := he.Message.(string); ok {
				message = m
			} else {
				message = http.StatusText(he.Code)
			}
		}
	}
	if status == http.StatusInternalServerError {
		middleware.FromContext(c.Request().Context()).Error("Unhandled error", slog.String("error", err.Error()))
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(status)
		return
	}
	_ = c.JSON(status, MessageResponse{Message: message})
}
