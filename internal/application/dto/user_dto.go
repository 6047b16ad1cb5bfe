package dto

import "time"

// CreateUserRequest entrada para alta de usuario (password en texto, se hashea en use case).
type CreateUserRequest struct {
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// CreateUserResult resultado del alta: Created=false si el username ya existía.
type CreateUserResult struct {
	Username string `json:"username"`
	Created  bool   `json:"created"`
}

// LoginRequest credenciales del formulario de login (form o JSON).
type LoginRequest struct {
	Username string `json:"username" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// LoginResponse token de sesión emitido tras un login correcto.
type LoginResponse struct {
	Token     string    `json:"token"`
	Username  string    `json:"username"`
	ExpiresAt time.Time `json:"expires_at"`
}
