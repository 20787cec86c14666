package crypto

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"gitlab.com/codebadge.net/internal/core/ports/primary"
	"gitlab.com/codebadge.net/internal/domain"
)

var _ primary.TokenDecoder = (*ClaimsDecoder)(nil)

var (
	ErrInvalidToken = fmt.Errorf("invalid token")
)

// ClaimsDecoder reads access token claims without verifying the signature.
// The identity service verifies tokens; the client only needs expiry and subject.
type ClaimsDecoder struct {
	parser *jwt.Parser
}

func NewClaimsDecoder() *ClaimsDecoder {
	return &ClaimsDecoder{parser: jwt.NewParser()}
}

// DecodeClaims extracts subject, username and expiry from a JWT
func (d *ClaimsDecoder) DecodeClaims(token string) (domain.TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(token, claims); err != nil {
		return domain.TokenClaims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	var out domain.TokenClaims
	if sub, err := claims.GetSubject(); err == nil {
		out.Subject = sub
	}
	if username, ok := claims["username"].(string); ok {
		out.Username = username
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		out.Expiry = exp.Unix()
	}
	return out, nil
}

// NewToken builds a token pair, taking the expiry from the access token's exp
// claim when it carries one. Opaque tokens are stored without expiry.
func NewToken(decoder primary.TokenDecoder, accessToken, refreshToken string) *oauth2.Token {
	tok := &oauth2.Token{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
	}
	if decoder == nil {
		return tok
	}
	if claims, err := decoder.DecodeClaims(accessToken); err == nil && claims.Expiry > 0 {
		tok.Expiry = time.Unix(claims.Expiry, 0)
	}
	return tok
}
