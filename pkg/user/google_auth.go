package user

import (
	"SimpleMacro-Backend/domain"
	"SimpleMacro-Backend/internal/utils"
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

const defaultTokenInfoURL = "https://oauth2.googleapis.com/tokeninfo"

type (
	// ExternalIdentity is the opaque identity the auth provider resolves a
	// federated token to. The core never inspects the token itself.
	ExternalIdentity struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}

	AuthProvider interface {
		VerifyIDToken(ctx context.Context, idToken string) (ExternalIdentity, error)
	}

	googleAuthProvider struct {
		httpClient *http.Client
	}
)

func NewGoogleAuthProvider() AuthProvider {
	return &googleAuthProvider{
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *googleAuthProvider) VerifyIDToken(ctx context.Context, idToken string) (ExternalIdentity, error) {
	endpoint := utils.GetConfig("GOOGLE_TOKENINFO_URL")
	if endpoint == "" {
		endpoint = defaultTokenInfoURL
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodGet,
		endpoint+"?id_token="+url.QueryEscape(idToken),
		nil,
	)
	if err != nil {
		return ExternalIdentity{}, err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return ExternalIdentity{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return ExternalIdentity{}, domain.ErrFederatedTokenDenied
	}

	var identity ExternalIdentity
	if err := json.NewDecoder(resp.Body).Decode(&identity); err != nil {
		return ExternalIdentity{}, err
	}
	if identity.Email == "" {
		return ExternalIdentity{}, domain.ErrFederatedTokenDenied
	}

	return identity, nil
}
