package contract

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=64,hasspecial,hasdigit,hasupper,haslower"`
}

type ProfilePictureResponse struct {
	URL string `json:"url"`
}
