package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"donorlink/internal/donation/models"
	dErrors "donorlink/pkg/domain-errors"
	"donorlink/pkg/platform/httputil"
	strs "donorlink/pkg/platform/strings"
	"donorlink/pkg/requestcontext"
)

// Invalidator drops cached donation collections.
type Invalidator interface {
	Invalidate(ctx context.Context, categories ...models.Category) error
}

// Handler exposes catalog maintenance endpoints. Mount it behind the
// operator token guard.
type Handler struct {
	cache  Invalidator
	logger *slog.Logger
}

// New builds the handler. A nil cache means no cache is configured and
// invalidation reports the service as unavailable.
func New(cache Invalidator, logger *slog.Logger) *Handler {
	return &Handler{cache: cache, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/admin/catalog/invalidate", h.HandleInvalidate)
}

// HandleInvalidate handles POST /admin/catalog/invalidate.
func (h *Handler) HandleInvalidate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[InvalidateRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if h.cache == nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeUnavailable, "donation cache is not configured"))
		return
	}

	categories := req.ParsedCategories()
	if err := h.cache.Invalidate(ctx, categories...); err != nil {
		h.logger.ErrorContext(ctx, "catalog invalidation failed",
			"error", err,
			"request_id", requestID,
		)
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeUnavailable, "failed to invalidate donation cache"))
		return
	}

	h.logger.InfoContext(ctx, "catalog cache invalidated",
		"categories", categories,
		"request_id", requestID,
	)
	resp := InvalidateResponse{Invalidated: make([]string, len(categories))}
	for i, c := range categories {
		resp.Invalidated[i] = c.String()
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// InvalidateRequest names the categories to drop. An empty list means all;
// names are case-insensitive and deduplicated.
type InvalidateRequest struct {
	Categories []string `json:"categories"`

	parsed []models.Category
}

func (r *InvalidateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	names := strs.DedupeFold(r.Categories)
	if len(names) == 0 {
		r.parsed = append([]models.Category(nil), models.Categories...)
		return nil
	}
	for _, name := range names {
		c, err := models.ParseCategory(name)
		if err != nil {
			return err
		}
		r.parsed = append(r.parsed, c)
	}
	return nil
}

func (r *InvalidateRequest) ParsedCategories() []models.Category {
	return r.parsed
}

type InvalidateResponse struct {
	Invalidated []string `json:"invalidated"`
}
