package contract

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"omitempty,min=2,max=80"`
	Password string `json:"password" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=64"`
}

type GoogleLoginRequest struct {
	Token string `json:"token" validate:"required"`
}

type AuthResponse struct {
	Token          string `json:"token"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture,omitempty"`
}
