package config

type RefreshMode string

const (
	RefreshModeJSON   RefreshMode = "json"
	RefreshModeOAuth2 RefreshMode = "oauth2"
)

type AuthConfig struct {
	RefreshMode  RefreshMode
	ClientID     string
	ClientSecret string
	TokenURL     string
}

func NewAuthConfig() *AuthConfig {
	mode := RefreshMode(getEnv("AUTH_REFRESH_MODE", string(RefreshModeJSON)))
	if mode != RefreshModeOAuth2 {
		mode = RefreshModeJSON
	}
	return &AuthConfig{
		RefreshMode:  mode,
		ClientID:     getEnv("OAUTH_CLIENT_ID", ""),
		ClientSecret: getEnv("OAUTH_CLIENT_SECRET", ""),
		TokenURL:     getEnv("OAUTH_TOKEN_URL", ""),
	}
}
