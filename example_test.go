package gateToken_test

import (
	"context"
	"errors"
	"fmt"

	gateToken "github.com/MrEthical07/gateToken"
	"github.com/MrEthical07/gateToken/jwt"
)

const exampleSecret = "your-super-secure-jwt-secret-key-must-be-at-least-32-characters-long"

// ExampleNew builds an engine from the gateway preset and round-trips a token.
func ExampleNew() {
	engine, err := gateToken.New().
		WithConfig(gateToken.GatewayPreset([]byte(exampleSecret))).
		Build()
	if err != nil {
		fmt.Println(err)
		return
	}
	defer engine.Close()

	ctx := context.Background()
	token, err := engine.IssueDefault(ctx, "testuser123", map[string]any{
		"user_id": "testuser123",
		"role":    "user",
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	claims, err := engine.Verify(ctx, token)
	if err != nil {
		fmt.Println(err)
		return
	}
	iat, _ := claims.IssuedAt()
	role, _ := claims.StringClaim("role")
	fmt.Println(claims.Subject(), role, claims.Issuer(), claims.Audience())
	fmt.Println(claims.ExpiresAt().Sub(iat))
	// Output:
	// testuser123 user kairos-gateway [api-clients]
	// 24h0m0s
}

// ExampleKind shows switch-based branching on verification failures.
func ExampleKind() {
	engine, _ := gateToken.New().
		WithConfig(gateToken.GatewayPreset([]byte(exampleSecret))).
		Build()
	defer engine.Close()

	ctx := context.Background()
	_, issueErr := engine.Issue(ctx, "testuser123", 0, nil)

	_, err := engine.Verify(ctx, "not-a-token")
	switch jwt.Kind(err) {
	case jwt.KindMalformedToken:
		fmt.Println("malformed")
	case jwt.KindInvalidSignature, jwt.KindTokenExpired:
		fmt.Println("reject")
	}

	fmt.Println(errors.Is(issueErr, jwt.ErrInvalidTTL), jwt.Kind(issueErr))
	// Output:
	// malformed
	// true other
}

// ExampleEngine_MetricsSnapshot shows how to read in-process metrics counters.
func ExampleEngine_MetricsSnapshot() {
	engine, _ := gateToken.New().
		WithConfig(gateToken.GatewayPreset([]byte(exampleSecret))).
		Build()
	defer engine.Close()

	_, _ = engine.Verify(context.Background(), "a.b")
	snapshot := engine.MetricsSnapshot()
	fmt.Println(snapshot.Counters[gateToken.MetricVerifyMalformed])
	// Output:
	// 1
}
