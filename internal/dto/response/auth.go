package response

import (
	"time"

	"ecommerce-backend/internal/data/entity"
)

type SignupResponse struct {
	UserID  string      `json:"user_id"`
	Message string      `json:"message"`
	Role    entity.Role `json:"role"`
}

type LoginResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	Email        string      `json:"email"`
	Role         entity.Role `json:"role"`
}

type UserResponse struct {
	ID        string      `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      entity.Role `json:"role"`
	CreatedAt time.Time   `json:"created_at"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt,
	}
}
