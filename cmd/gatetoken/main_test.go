package main

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "your-super-secure-jwt-secret-key-must-be-at-least-32-characters-long"

func testEnv() map[string]string {
	return map[string]string{
		"GATETOKEN_JWT_SECRET": testSecret,
		"GATETOKEN_LOG_LEVEL":  "error",
	}
}

func runCmd(t *testing.T, environ map[string]string, stdin string, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, environ, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestIssueThenVerify(t *testing.T) {
	t.Parallel()
	environ := testEnv()

	code, out, errOut := runCmd(t, environ, "", "issue", "-claim", "tier=3")
	require.Equal(t, exitOK, code, errOut)
	token := strings.TrimSpace(out)
	require.Equal(t, 2, strings.Count(token, "."), "expected compact token")

	code, out, errOut = runCmd(t, environ, "", "verify", token)
	require.Equal(t, exitOK, code, errOut)

	var claims map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &claims))

	assert.Equal(t, "testuser123", claims["sub"])
	assert.Equal(t, "testuser123", claims["user_id"])
	assert.Equal(t, "user", claims["role"])
	assert.Equal(t, "kairos-gateway", claims["iss"])
	assert.Equal(t, "api-clients", claims["aud"])
	assert.Equal(t, float64(3), claims["tier"], "extra claim keeps its JSON type")

	exp, _ := claims["exp"].(float64)
	iat, _ := claims["iat"].(float64)
	assert.Equal(t, float64(86400), exp-iat)
}

func TestVerifyReadsStdin(t *testing.T) {
	t.Parallel()
	environ := testEnv()
	_, out, _ := runCmd(t, environ, "", "issue", "-sub", "alice")

	code, _, errOut := runCmd(t, environ, "Bearer "+out, "verify")
	assert.Equal(t, exitOK, code, errOut)
}

func TestVerifyRejectsForeignSecret(t *testing.T) {
	t.Parallel()
	_, out, _ := runCmd(t, testEnv(), "", "issue")

	other := testEnv()
	other["GATETOKEN_JWT_SECRET"] = strings.Repeat("k", 40)
	other["GATETOKEN_LOG_LEVEL"] = "info"
	code, _, errOut := runCmd(t, other, "", "verify", strings.TrimSpace(out))

	assert.Equal(t, exitRejected, code)
	assert.Contains(t, errOut, "kind=invalid_signature")
}

func TestIssueRejectsReservedClaim(t *testing.T) {
	t.Parallel()
	code, _, _ := runCmd(t, testEnv(), "", "issue", "-claim", "exp=1")
	assert.Equal(t, exitRejected, code)
}

func TestMissingSecretIsUsageError(t *testing.T) {
	t.Parallel()
	code, _, errOut := runCmd(t, map[string]string{}, "", "issue")
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, errOut, "JWT_SECRET")
}

func TestShortSecretFailsEngineSetup(t *testing.T) {
	t.Parallel()
	environ := testEnv()
	environ["GATETOKEN_JWT_SECRET"] = "short"
	code, _, _ := runCmd(t, environ, "", "issue")
	assert.Equal(t, exitUsage, code)
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()
	code, _, _ := runCmd(t, testEnv(), "", "rotate")
	assert.Equal(t, exitUsage, code)
}

func TestIssueLimitWithRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	environ := testEnv()
	environ["GATETOKEN_REDIS_ADDR"] = mr.Addr()
	environ["GATETOKEN_ISSUE_LIMIT"] = "1"

	code, _, errOut := runCmd(t, environ, "", "issue")
	require.Equal(t, exitOK, code, errOut)

	code, _, _ = runCmd(t, environ, "", "issue")
	assert.Equal(t, exitRejected, code, "second issue should be rate limited")
}

func TestLint(t *testing.T) {
	t.Parallel()
	environ := testEnv()
	code, out, _ := runCmd(t, environ, "", "lint")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "issue_limit_disabled")

	environ["GATETOKEN_JWT_SECRET"] = strings.Repeat("a", 32)
	code, _, _ = runCmd(t, environ, "", "lint")
	assert.Equal(t, exitRejected, code, "low-entropy secret must fail lint")
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg, err := loadConfig(testEnv())
	require.NoError(t, err)

	ec := cfg.engineConfig()
	assert.Empty(t, ec.JWT.RequiredClaims, "only sub and exp are required by default")
	assert.False(t, ec.IssueLimit.Enabled, "limit needs a redis address")
	assert.NoError(t, ec.Validate())
}
