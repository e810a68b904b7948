package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/storeapp/store-server/internal/domain"
	"github.com/storeapp/store-server/internal/http/response"
	"github.com/storeapp/store-server/internal/service"
)

// entityPtr constrains T to a pointer to an entity struct so handlers can
// allocate fresh values for decoding.
type entityPtr[E any] interface {
	*E
	domain.Entity
}

// resourceHandler serves the five CRUD routes for one resource kind.
type resourceHandler[E any, T entityPtr[E]] struct {
	kind string
	svc  *service.Resource[T]
	s    *Server
}

// mountResource registers the routes for one resource kind:
//
//	GET    /{kind}s      list
//	PUT    /{kind}       create
//	GET    /{kind}/{id}  get
//	POST   /{kind}/{id}  update
//	DELETE /{kind}/{id}  delete
func mountResource[E any, T entityPtr[E]](r chi.Router, kind string, svc *service.Resource[T], s *Server) {
	h := &resourceHandler[E, T]{kind: kind, svc: svc, s: s}

	r.Get("/"+kind+"s", h.list)
	r.Put("/"+kind, h.create)
	r.Get("/"+kind+"/{id}", h.get)
	r.Post("/"+kind+"/{id}", h.update)
	r.Delete("/"+kind+"/{id}", h.delete)
}

// pathID parses the {id} path parameter. Non-numeric ids are rejected with
// a 400 before any service call.
func (h *resourceHandler[E, T]) pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		response.BadRequest(w, h.kind+" id must be a number", h.s.logger.Logger)
		return 0, false
	}
	return id, true
}

// decodeBody decodes and validates a resource payload.
func (h *resourceHandler[E, T]) decodeBody(w http.ResponseWriter, r *http.Request) (T, bool) {
	var zero T
	v := T(new(E))
	if err := decodeJSON(r, v); err != nil {
		response.BadRequest(w, "invalid request body", h.s.logger.Logger)
		return zero, false
	}
	if err := h.s.validator.Validate(v); err != nil {
		response.HandleError(w, err, h.s.logger.Logger)
		return zero, false
	}
	return v, true
}

func (h *resourceHandler[E, T]) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.List(r.Context())
	if err != nil {
		response.HandleError(w, err, h.s.logger.Logger)
		return
	}
	if items == nil {
		items = []T{}
	}
	response.OK(w, items, h.s.logger.Logger)
}

func (h *resourceHandler[E, T]) get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	v, err := h.svc.Get(r.Context(), id)
	if err != nil {
		response.HandleError(w, err, h.s.logger.Logger)
		return
	}
	response.OK(w, v, h.s.logger.Logger)
}

func (h *resourceHandler[E, T]) create(w http.ResponseWriter, r *http.Request) {
	v, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	id, err := h.svc.Create(r.Context(), v)
	if err != nil {
		response.HandleError(w, err, h.s.logger.Logger)
		return
	}
	response.Created(w, map[string]int64{h.kind + "_id": id}, h.s.logger.Logger)
}

func (h *resourceHandler[E, T]) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	v, ok := h.decodeBody(w, r)
	if !ok {
		return
	}

	if err := h.svc.Update(r.Context(), id, v); err != nil {
		response.HandleError(w, err, h.s.logger.Logger)
		return
	}
	response.Empty(w)
}

func (h *resourceHandler[E, T]) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err, h.s.logger.Logger)
		return
	}
	response.Empty(w)
}
