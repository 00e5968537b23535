/*
Package authsdk provides a client SDK for the warden authentication service.

The shared request/response types and API errors in this package are also
used by the service's own HTTP handlers, so server and clients agree on the
wire format by construction.

Create an SDKClient to talk to a warden instance:

	client := authsdk.NewSDKClient("https://auth.example.com")

	// Check service health
	err := client.Livez(ctx)

	// Create an account and a session
	tokens, err := client.SignUp(ctx, "alice", "s3cret")

	// Log in later
	tokens, err = client.Login(ctx, "alice", "s3cret")

	// Rotate the session
	tokens, err = client.Refresh(ctx, tokens.RefreshToken)

Session tokens are also delivered as HttpOnly cookies; browser clients never
need to touch the response body. The SDK works from the JSON body so
non-browser services can hold tokens explicitly.
*/
package authsdk
