package authenticator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClaims_Email(t *testing.T) {
	assert.Equal(t, "a@example.com", Claims{"email": "a@example.com"}.Email())
	assert.Equal(t, "a@example.com", Claims{"email": "a@example.com", "email_verified": true}.Email())
	assert.Empty(t, Claims{"email": "a@example.com", "email_verified": false}.Email())
	assert.Empty(t, Claims{"sub": "123"}.Email())
}

func TestNewOpenIDProvider_RequiresConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  OpenIDConfig
		want string
	}{
		{"issuer", OpenIDConfig{ClientID: "c", ClientSecret: "s", CallbackURL: "u"}, "issuer URL is required"},
		{"client id", OpenIDConfig{IssuerURL: "https://id", ClientSecret: "s", CallbackURL: "u"}, "client ID is required"},
		{"secret", OpenIDConfig{IssuerURL: "https://id", ClientID: "c", CallbackURL: "u"}, "client secret is required"},
		{"callback", OpenIDConfig{IssuerURL: "https://id", ClientID: "c", ClientSecret: "s"}, "callback URL is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewOpenIDProvider(context.Background(), tt.cfg)
			assert.EqualError(t, err, tt.want)
		})
	}
}
