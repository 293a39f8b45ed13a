package auth

// RegisterRequest is the registration payload.
type RegisterRequest struct {
	Nombre   string `json:"nombre" example:"Juan Pérez"`
	Usuario  string `json:"usuario" example:"juanperez"`
	Password string `json:"password" example:"password123"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Usuario  string `json:"usuario" example:"juanperez"`
	Password string `json:"password" example:"password123"`
}

// LoginResult is what the domain returns on a successful login.
type LoginResult struct {
	Token   string
	Usuario PublicUser
}

// RegisterResponse is the body of a successful registration.
type RegisterResponse struct {
	Message string     `json:"message" example:"Usuario registrado exitosamente"`
	Usuario PublicUser `json:"usuario"`
}

// LoginResponse is the body of a successful login.
type LoginResponse struct {
	Message string     `json:"message" example:"Login exitoso"`
	Token   string     `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Usuario PublicUser `json:"usuario"`
}
