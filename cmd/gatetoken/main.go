// Command gatetoken issues and verifies gateway tokens from the command line.
//
//	gatetoken issue [-sub testuser123] [-ttl 24h] [-role user] [-claim k=v]...
//	gatetoken verify TOKEN
//	gatetoken lint
//
// Settings come from GATETOKEN_* environment variables; a .env file in the
// working directory is loaded first when present.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	gateToken "github.com/MrEthical07/gateToken"
	"github.com/MrEthical07/gateToken/jwt"
)

const (
	exitOK       = 0
	exitRejected = 1
	exitUsage    = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "gatetoken: load .env: %v\n", err)
		os.Exit(exitUsage)
	}

	os.Exit(run(ctx, os.Args[1:], env.ToMap(os.Environ()), os.Stdin, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, environ map[string]string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		usage(stderr)
		return exitUsage
	}

	cfg, err := loadConfig(environ)
	if err != nil {
		fmt.Fprintf(stderr, "gatetoken: %v\n", err)
		return exitUsage
	}
	log := newLogger(cfg, stderr)

	switch args[0] {
	case "lint":
		return runLint(cfg, log, stdout)
	case "issue", "verify":
	case "-h", "-help", "--help", "help":
		usage(stdout)
		return exitOK
	default:
		fmt.Fprintf(stderr, "gatetoken: unknown command %q\n", args[0])
		usage(stderr)
		return exitUsage
	}

	engine, cleanup, err := buildEngine(cfg)
	if err != nil {
		log.Error("engine setup failed", "error", err)
		return exitUsage
	}
	defer cleanup()

	if args[0] == "issue" {
		return runIssue(ctx, engine, cfg, log, args[1:], stdout, stderr)
	}
	return runVerify(ctx, engine, log, args[1:], stdin, stdout, stderr)
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: gatetoken <issue|verify|lint> [flags]")
}

func newLogger(cfg cliConfig, w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.level()}
	if strings.EqualFold(cfg.LogFormat, "json") {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func buildEngine(cfg cliConfig) (*gateToken.Engine, func(), error) {
	builder := gateToken.New().WithConfig(cfg.engineConfig())

	var rdb redis.UniversalClient
	if cfg.RedisAddr != "" {
		rdb = redis.NewUniversalClient(&redis.UniversalOptions{Addrs: []string{cfg.RedisAddr}})
		builder = builder.WithRedis(rdb)
	}

	engine, err := builder.Build()
	if err != nil {
		if rdb != nil {
			_ = rdb.Close()
		}
		return nil, nil, err
	}
	return engine, func() {
		engine.Close()
		if rdb != nil {
			_ = rdb.Close()
		}
	}, nil
}

/*
====================================
ISSUE
====================================
*/

// claimFlags collects repeated -claim key=value pairs. Values that parse as
// JSON keep their JSON type; anything else is a string.
type claimFlags map[string]any

func (c claimFlags) String() string {
	parts := make([]string, 0, len(c))
	for k, v := range c {
		parts = append(parts, fmt.Sprintf("%s=%v", k, v))
	}
	return strings.Join(parts, ",")
}

func (c claimFlags) Set(raw string) error {
	key, value, ok := strings.Cut(raw, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("claim %q must be key=value", raw)
	}
	var decoded any
	if err := json.Unmarshal([]byte(value), &decoded); err == nil {
		c[key] = decoded
		return nil
	}
	c[key] = value
	return nil
}

func runIssue(ctx context.Context, engine *gateToken.Engine, cfg cliConfig, log *slog.Logger, args []string, stdout, stderr io.Writer) int {
	fset := flag.NewFlagSet("issue", flag.ContinueOnError)
	fset.SetOutput(stderr)

	extra := claimFlags{}
	sub := fset.String("sub", "testuser123", "token subject")
	ttl := fset.Duration("ttl", cfg.TTL, "token lifetime")
	role := fset.String("role", "user", "role claim (empty to omit)")
	userID := fset.String("user-id", "", "user_id claim (defaults to -sub)")
	fset.Var(extra, "claim", "extra claim as key=value (repeatable)")
	if err := fset.Parse(args); err != nil {
		return exitUsage
	}

	claims := map[string]any{}
	if *role != "" {
		claims["role"] = *role
	}
	if *userID != "" {
		claims["user_id"] = *userID
	} else {
		claims["user_id"] = *sub
	}
	for k, v := range extra {
		claims[k] = v
	}

	token, set, err := engine.IssueWithClaims(ctx, *sub, *ttl, claims)
	if err != nil {
		log.Error("issue failed", "subject", *sub, "kind", jwt.Kind(err).String(), "error", err)
		return exitRejected
	}

	log.Info("token issued",
		"subject", set.Subject(),
		"expires_at", set.ExpiresAt().Format(time.RFC3339),
		"jti", set.TokenID(),
	)
	fmt.Fprintln(stdout, token)
	return exitOK
}

/*
====================================
VERIFY
====================================
*/

func runVerify(ctx context.Context, engine *gateToken.Engine, log *slog.Logger, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fset := flag.NewFlagSet("verify", flag.ContinueOnError)
	fset.SetOutput(stderr)
	if err := fset.Parse(args); err != nil {
		return exitUsage
	}

	var token string
	switch fset.NArg() {
	case 0:
		raw, err := io.ReadAll(io.LimitReader(stdin, 64<<10))
		if err != nil {
			log.Error("read token", "error", err)
			return exitUsage
		}
		token = strings.TrimSpace(string(raw))
	case 1:
		token = strings.TrimSpace(fset.Arg(0))
	default:
		fmt.Fprintln(stderr, "gatetoken: verify takes at most one token")
		return exitUsage
	}
	token = strings.TrimPrefix(token, "Bearer ")

	claims, err := engine.Verify(ctx, token)
	if err != nil {
		log.Warn("token rejected", "kind", jwt.Kind(err).String(), "error", err)
		return exitRejected
	}

	out, err := json.MarshalIndent(claims.Map(), "", "  ")
	if err != nil {
		log.Error("encode claims", "error", err)
		return exitRejected
	}
	log.Info("token valid", "subject", claims.Subject())
	fmt.Fprintln(stdout, string(out))
	return exitOK
}

/*
====================================
LINT
====================================
*/

func runLint(cfg cliConfig, log *slog.Logger, stdout io.Writer) int {
	ec := cfg.engineConfig()
	if err := ec.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		return exitRejected
	}
	result := ec.Lint()
	for _, w := range result {
		fmt.Fprintf(stdout, "%s\t%s\t%s\n", w.Severity, w.Code, w.Message)
	}
	if result.AsError(gateToken.LintHigh) != nil {
		return exitRejected
	}
	return exitOK
}
