package auth

import "travelhub/internal/domain"

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string        `json:"token"`
	ExpiresIn int64         `json:"expires_in"`
	User      domain.User   `json:"user"`
	Agent     *domain.Agent `json:"agent,omitempty"`
}

type MeResponse struct {
	User  domain.User   `json:"user"`
	Agent *domain.Agent `json:"agent,omitempty"`
}
