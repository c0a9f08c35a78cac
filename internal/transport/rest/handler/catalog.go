package handler

import (
	"bemestar/internal/service"
	"net/http"
)

// CatalogHandler serves the active questionnaire and the stored ones.
type CatalogHandler struct {
	wizardSvc  *service.WizardService
	catalogSvc *service.CatalogService
}

func NewCatalogHandler(wizardSvc *service.WizardService, catalogSvc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{wizardSvc: wizardSvc, catalogSvc: catalogSvc}
}

// Get handles GET /v1/catalog
func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.wizardSvc.Catalog().Document())
}

// List handles GET /v1/catalogs
func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.catalogSvc == nil {
		writeServiceError(w, service.ErrNoCatalogStore, nil)
		return
	}
	catalogs, err := h.catalogSvc.List(r.Context())
	if err != nil {
		writeServiceError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, catalogs)
}
