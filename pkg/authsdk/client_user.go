package authsdk

import (
	"context"
	"net/http"
	"net/url"
)

// User fetches an account by id. Regular sessions may only fetch their own
// account; service tokens may fetch any.
func (c *SDKClient) User(ctx context.Context, id, accessToken string) (*UserResponse, error) {
	var out UserResponse
	if err := c.getJSON(ctx, "/v1/users/"+url.PathEscape(id), accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UserByEmail looks an account up by email address.
func (c *SDKClient) UserByEmail(ctx context.Context, email, accessToken string) (*UserResponse, error) {
	var out UserResponse
	path := "/v1/users?email=" + url.QueryEscape(email)
	if err := c.getJSON(ctx, path, accessToken, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account and revokes its refresh token.
func (c *SDKClient) DeleteUser(ctx context.Context, id, accessToken string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.BaseURL+"/v1/users/"+url.PathEscape(id), nil)
	if err != nil {
		return err
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	return nil
}
