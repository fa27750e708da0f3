package maasclient

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// apiKey holds the three parts of a MAAS API key.
type apiKey struct {
	consumerKey string
	token       string
	secret      string
}

// parseAPIKey splits a "consumer:token:secret" MAAS API key. An empty key
// is accepted and yields unauthenticated requests (useful against mocks).
func parseAPIKey(key string) (*apiKey, error) {
	if key == "" {
		return nil, nil
	}
	parts := strings.Split(key, ":")
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid MAAS API key: expected consumer:token:secret")
	}
	return &apiKey{
		consumerKey: parts[0],
		token:       parts[1],
		secret:      parts[2],
	}, nil
}

// authorizationHeader builds the OAuth 1.0 PLAINTEXT header MAAS expects.
func (k *apiKey) authorizationHeader() string {
	return fmt.Sprintf(
		`OAuth oauth_version="1.0", oauth_signature_method="PLAINTEXT", `+
			`oauth_consumer_key="%s", oauth_token="%s", oauth_signature="&%s", `+
			`oauth_nonce="%s", oauth_timestamp="%d"`,
		k.consumerKey, k.token, k.secret, uuid.NewString(), time.Now().Unix(),
	)
}
