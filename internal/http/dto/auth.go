package dto

import "encoding/json"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Роль по умолчанию — member.
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone,omitempty"`
	Role      string `json:"role,omitempty" validate:"omitempty,oneof=member trainer physio admin"`
}

// Ответ после входа/регистрации. Токен в тело не попадает, только в cookie.
type SessionResponse struct {
	User      json.RawMessage `json:"user"`
	ExpiresAt string          `json:"expiresAt"`
}

// Ошибка маршрутов аутентификации: {"error": "..."}.
type AuthError struct {
	Error string `json:"error"`
}

type SessionStatus struct {
	LoggedIn bool `json:"logged_in"`
}
