package domain

// AuthSession is the reduced identity kept server-side for a logged-in caller.
// It lives only in the session store and is never written to the resource stores.
type AuthSession struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
}

// ProviderProfile is the identity returned by the external OAuth provider.
type ProviderProfile struct {
	ID        string
	Login     string
	Name      string
	Email     string
	AvatarURL string
}

// ToSession projects a provider profile onto an AuthSession. The display name
// falls back to the login when the provider has none.
func (p ProviderProfile) ToSession() *AuthSession {
	display := p.Name
	if display == "" {
		display = p.Login
	}
	return &AuthSession{
		ID:          p.ID,
		Username:    p.Login,
		DisplayName: display,
		Email:       p.Email,
		Avatar:      p.AvatarURL,
	}
}

// LoginState is a step of the OAuth login flow.
type LoginState string

const (
	StateUnauthenticated         LoginState = "unauthenticated"
	StatePendingProviderRedirect LoginState = "pending_provider_redirect"
	StateAuthenticated           LoginState = "authenticated"
)
