package authsdk

import "context"

// SignUp creates a new account and returns its first session tokens.
func (c *SDKClient) SignUp(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.postJSON(ctx, "/v1/auth/signup", SignUpRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Login authenticates with email and password.
func (c *SDKClient) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.postJSON(ctx, "/v1/auth/login", LoginRequest{Email: email, Password: password}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh exchanges a refresh token for a fresh session. The previous
// refresh token stops working after a successful call.
func (c *SDKClient) Refresh(ctx context.Context, refreshToken string) (*TokenResponse, error) {
	var out TokenResponse
	err := c.postJSON(ctx, "/v1/auth/refresh", RefreshRequest{RefreshToken: refreshToken}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the current session. The session cookies set by Login or
// SignUp identify the session to end.
func (c *SDKClient) Logout(ctx context.Context) error {
	return c.postJSON(ctx, "/v1/auth/logout", nil, nil)
}

// ServiceToken authenticates a backend service and returns an internal API
// token.
func (c *SDKClient) ServiceToken(ctx context.Context, clientID, clientSecret string) (*ServiceTokenResponse, error) {
	var out ServiceTokenResponse
	err := c.postJSON(ctx, "/v1/auth/internal",
		ServiceTokenRequest{ClientID: clientID, ClientSecret: clientSecret}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Me returns the account behind an access token.
func (c *SDKClient) Me(ctx context.Context, accessToken string) (*UserResponse, error) {
	var out UserResponse
	if err := c.getJSON(ctx, "/v1/users/me", accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
