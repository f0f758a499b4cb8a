package transfer

import "github.com/golang-jwt/jwt/v5"

type UserCreation struct {
	Email          string `json:"email" validate:"required,email"`
	Name           string `json:"name" validate:"required"`
	ProfilePicture string `json:"profilePicture" validate:"omitempty,url"`
}

type CustomClaims struct {
	UserID string `json:"user_id"`
	jwt.RegisteredClaims
}

type MediaUpload struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}
