package usuarios

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/primer-backend-go/apperror"
	"github.com/user/primer-backend-go/respond"
)

// Handlers exposes the usuarios service over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates new usuarios handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes mounts the CRUD routes on the given router.
func (h *Handlers) RegisterRoutes(r chi.Router) {
	r.Get("/", h.HandleTodos())
	r.Get("/{id}", h.HandleUno())
	r.Post("/", h.HandleGuardar())
	r.Delete("/{id}", h.HandleEliminar())
}

// HandleTodos godoc
// @Summary Listar usuarios
// @Tags Usuarios
// @Produce json
// @Success 200 {object} respond.Envelope
// @Router /api/usuarios [get]
func (h *Handlers) HandleTodos() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.service.Todos(r.Context())
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.Success(w, http.StatusOK, users)
	}
}

// HandleUno godoc
// @Summary Obtener un usuario
// @Tags Usuarios
// @Produce json
// @Param id path int true "ID del usuario"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.Envelope "Usuario no encontrado"
// @Router /api/usuarios/{id} [get]
func (h *Handlers) HandleUno() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		user, err := h.service.Uno(r.Context(), id)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.Success(w, http.StatusOK, user)
	}
}

// HandleGuardar godoc
// @Summary Crear o actualizar un usuario
// @Tags Usuarios
// @Accept json
// @Produce json
// @Param body body usuarios.GuardarRequest true "Datos del usuario"
// @Success 200 {object} respond.Envelope
// @Failure 400 {object} respond.Envelope
// @Failure 409 {object} respond.Envelope "El usuario ya existe"
// @Router /api/usuarios [post]
func (h *Handlers) HandleGuardar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req GuardarRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, r, apperror.NewBadRequestError("Cuerpo de la petición inválido", err))
			return
		}
		defer r.Body.Close()

		user, err := h.service.Guardar(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.Success(w, http.StatusOK, user)
	}
}

// HandleEliminar godoc
// @Summary Eliminar un usuario
// @Tags Usuarios
// @Produce json
// @Param id path int true "ID del usuario"
// @Success 200 {object} respond.Envelope
// @Failure 404 {object} respond.Envelope "Usuario no encontrado"
// @Router /api/usuarios/{id} [delete]
func (h *Handlers) HandleEliminar() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r)
		if err != nil {
			respond.Error(w, r, err)
			return
		}
		if err := h.service.Eliminar(r.Context(), id); err != nil {
			respond.Error(w, r, err)
			return
		}
		respond.Success(w, http.StatusOK, "Usuario eliminado")
	}
}

func pathID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		return 0, apperror.NewBadRequestError("El parámetro id debe ser un entero positivo", err)
	}
	return id, nil
}
