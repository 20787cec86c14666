package domain

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenClaims is the subset of access token claims the client reads
type TokenClaims struct {
	Subject  string
	Username string
	Expiry   int64
}
