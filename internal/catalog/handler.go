package catalog

import (
	"log/slog"
	"net/http"

	catalogDatamodel "github.com/cigarcraft/cigar-commerce/internal/core/datamodel/catalog"
	"github.com/cigarcraft/cigar-commerce/internal/transport"
)

type Handler struct {
	transport.BaseHandler
	Service *Service
	Logger  *slog.Logger
}

func NewHandler(service *Service, logger *slog.Logger) *Handler {
	return &Handler{
		BaseHandler: transport.BaseHandler{Logger: logger},
		Service:     service,
		Logger:      logger,
	}
}

// ComponentView hides catalog bookkeeping columns from the storefront.
type ComponentView struct {
	ID                int64   `json:"id"`
	Kind              string  `json:"kind"`
	Name              string  `json:"name"`
	Description       *string `json:"description,omitempty"`
	PriceContribution float64 `json:"price_contribution"`
}

// ListComponents handles GET /api/v1/components?kind=size
func (h *Handler) ListComponents(w http.ResponseWriter, r *http.Request) {
	kind := catalogDatamodel.Kind(r.URL.Query().Get("kind"))

	components, err := h.Service.ListComponents(kind)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	views := make([]ComponentView, 0, len(components))
	for _, c := range components {
		views = append(views, ComponentView{
			ID:                c.ID,
			Kind:              string(c.Kind),
			Name:              c.Name,
			Description:       c.Description,
			PriceContribution: c.PriceContribution,
		})
	}

	h.WriteJSON(w, http.StatusOK, views)
}
