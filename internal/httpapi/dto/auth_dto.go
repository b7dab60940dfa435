package dto

// SignUpRequest is the sign-up payload. Field rules (username charset,
// reserved "me" prefix, email shape) are enforced by the mutation
// validator so every problem is reported at once, not by gin bindings.
type SignUpRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// SignUpResponse echoes the accepted pair back to the caller.
type SignUpResponse struct {
	Email    string `json:"email"`
	Username string `json:"username"`
}

// TokenRequest exchanges a confirmation code for an access token.
type TokenRequest struct {
	Username    string `json:"username"`
	ConfirmCode string `json:"confirm_code"`
}

// TokenResponse carries the issued JWT.
type TokenResponse struct {
	Access string `json:"access"`
}
