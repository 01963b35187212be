// Package site declares the option catalog of a captive portal site node.
package site

import (
	"crypto/rand"
	"fmt"
	"math/big"

	opts "github.com/goliatone/go-siteopts"
)

const secretAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SecretLength is the length of a generated SECRET_KEY.
const SecretLength = 64

// Settings holds values the catalog needs at construction time.
type Settings struct {
	// SecretKey becomes the SECRET_KEY default. Empty means generate one.
	SecretKey string
}

// GenerateSecret returns SecretLength random alphanumeric characters.
func GenerateSecret() (string, error) {
	max := big.NewInt(int64(len(secretAlphabet)))
	out := make([]byte, SecretLength)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", fmt.Errorf("site: generate secret: %w", err)
		}
		out[i] = secretAlphabet[n.Int64()]
	}
	return string(out), nil
}

// NewRegistry builds the site catalog.
func NewRegistry(settings Settings) (*opts.Registry, error) {
	secret := settings.SecretKey
	if secret == "" {
		generated, err := GenerateSecret()
		if err != nil {
			return nil, err
		}
		secret = generated
	}

	builder := opts.NewRegistryBuilder()
	groups := [][]opts.Descriptor{
		generalOptions(),
		agentOptions(),
		postgresqlOptions(),
		portalOptions(),
		authOptions(),
		unauthOptions(),
		radiusOptions(),
		vrrpOptions(),
		portalAppOptions(secret),
		celeryOptions(),
	}
	for _, group := range groups {
		for _, d := range group {
			if err := builder.Register(d); err != nil {
				return nil, err
			}
		}
	}
	return builder.Build(), nil
}

// RequiredOptions lists the options without any default, which every site
// must supply.
func RequiredOptions(registry *opts.Registry) []string {
	var names []string
	for d := range registry.All() {
		if !d.HasDefault() {
			names = append(names, d.Name)
		}
	}
	return names
}
