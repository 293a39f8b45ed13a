package auth

import (
	"encoding/json"
	"net/http"

	"github.com/user/primer-backend-go/apperror"
	"github.com/user/primer-backend-go/respond"
)

// Handlers exposes the auth service over HTTP.
type Handlers struct {
	service *Service
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleRegister godoc
// @Summary Registrar nuevo usuario
// @Description Crea un nuevo usuario en el sistema con autenticación
// @Tags Auth
// @Accept json
// @Produce json
// @Param registerBody body auth.RegisterRequest true "Datos de registro"
// @Success 201 {object} respond.Envelope "Usuario registrado exitosamente"
// @Failure 400 {object} respond.Envelope "Datos incompletos o contraseña inválida"
// @Failure 409 {object} respond.Envelope "El usuario ya existe"
// @Router /api/auth/register [post]
func (h *Handlers) HandleRegister() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req RegisterRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, r, apperror.NewBadRequestError("Cuerpo de la petición inválido", err))
			return
		}
		defer r.Body.Close()

		usuario, err := h.service.Registrar(r.Context(), req)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.Success(w, http.StatusCreated, RegisterResponse{
			Message: "Usuario registrado exitosamente",
			Usuario: *usuario,
		})
	}
}

// HandleLogin godoc
// @Summary Iniciar sesión
// @Description Autentica un usuario y retorna un token JWT
// @Tags Auth
// @Accept json
// @Produce json
// @Param loginBody body auth.LoginRequest true "Credenciales"
// @Success 200 {object} respond.Envelope "Login exitoso"
// @Failure 400 {object} respond.Envelope "Usuario y contraseña son requeridos"
// @Failure 401 {object} respond.Envelope "Credenciales inválidas"
// @Router /api/auth/login [post]
func (h *Handlers) HandleLogin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LoginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respond.Error(w, r, apperror.NewBadRequestError("Cuerpo de la petición inválido", err))
			return
		}
		defer r.Body.Close()

		if err := ValidateLoginRequest(req); err != nil {
			respond.Error(w, r, err)
			return
		}

		result, err := h.service.Login(r.Context(), req)
		if err != nil {
			// User-not-found, missing credential row and wrong password are
			// deliberately indistinguishable to the caller.
			if apperror.IsAuthError(err) {
				respond.ErrorMessage(w, http.StatusUnauthorized, "Credenciales inválidas")
				return
			}
			respond.Error(w, r, err)
			return
		}

		respond.Success(w, http.StatusOK, LoginResponse{
			Message: "Login exitoso",
			Token:   result.Token,
			Usuario: result.Usuario,
		})
	}
}

// HandleMe godoc
// @Summary Obtener usuario actual
// @Description Retorna la información del usuario autenticado mediante el token JWT
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} respond.Envelope "Información del usuario"
// @Failure 401 {object} respond.Envelope "Token no proporcionado, inválido o expirado"
// @Router /api/auth/me [get]
func (h *Handlers) HandleMe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			respond.ErrorMessage(w, http.StatusUnauthorized, msgTokenMissing)
			return
		}

		usuario, err := h.service.ObtenerUsuario(r.Context(), claims.ID)
		if err != nil {
			respond.Error(w, r, err)
			return
		}

		respond.Success(w, http.StatusOK, usuario)
	}
}
