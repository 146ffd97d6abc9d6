// Package client is the Soul Protocol Go SDK.
//
// It wraps the Soul registry's REST API with typed operations for
// registering, resolving, claiming, verifying, and listing agent
// identities ("Souls"). The client is a stateless façade: it holds only
// its configuration, is safe for concurrent use, and performs no retries,
// caching, or background work.
//
// # Creating a client
//
// Pass an empty registry URL to use the public registry:
//
//	c, err := client.New("", client.WithTimeout(10*time.Second))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Registering a Soul
//
//	result, err := c.Register(ctx, client.RegisterRequest{
//	    Name:      "aria",
//	    BaseModel: "gpt-5",
//	    Platform:  "openclaw",
//	    Purpose:   "customer support",
//	})
//	// result.DID, result.ClaimURL, result.VerificationCode
//	// result.PrivateKey is set when the registry generated the keypair —
//	// store it securely, the registry does not keep it.
//
// # Resolving
//
// Absence is a normal outcome, not an error:
//
//	s, err := c.Resolve(ctx, "did:soul:7f3a9c1b")
//	if err != nil {
//	    // transport failure or registry rejection
//	}
//	if s == nil {
//	    // no such Soul
//	}
//
// # Error handling
//
// Failures come in two kinds, and callers branch with errors.As:
//
//	var transportErr *client.TransportError // registry unreachable
//	var registryErr *client.RegistryError   // registry said no
//	_, err := c.Claim(ctx, soulDID, "")
//	switch {
//	case errors.As(err, &registryErr):
//	    log.Printf("rejected with HTTP %d: %s", registryErr.StatusCode, registryErr.Body)
//	case errors.As(err, &transportErr):
//	    log.Printf("registry unreachable: %v", transportErr)
//	}
//
// Retry policy is deliberately left to the caller.
package client
