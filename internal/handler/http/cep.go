package http

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/gifting-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/gifting-backend-go/internal/pkg/cep"
	"github.com/go-chi/chi/v5"
)

// CEPLookup resolves postal codes; *cep.Client satisfies it
type CEPLookup interface {
	Lookup(ctx context.Context, code string) (cep.Address, error)
}

type CEPHandler interface {
	Lookup(w http.ResponseWriter, r *http.Request)
}

type cepHandlerImpl struct {
	lookup CEPLookup
}

func NewCEPHandler(lookup CEPLookup) CEPHandler {
	return &cepHandlerImpl{lookup: lookup}
}

// Lookup implements CEPHandler
func (h *cepHandlerImpl) Lookup(w http.ResponseWriter, r *http.Request) {
	addr, err := h.lookup.Lookup(r.Context(), chi.URLParam(r, "cep"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, addr)
}
