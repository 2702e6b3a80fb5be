/*
Mzpserver starts the marzipan build service and begins listening for HTTP
connections.

Usage:

	mzpserver [flags]

By default it listens on localhost:8080. The flags are:

	-l, --listen LISTEN_ADDRESS
		Listen on the given address (HOST:PORT or :PORT). Defaults to the
		value of environment variable MARZIPAN_LISTEN_ADDRESS, and if that is
		unset, to "localhost:8080".

	-s, --secret TOKEN_SECRET
		Secret used to sign bearer tokens minted by POST /tokens. If fewer
		than 32 bytes are given, the secret is repeated until it reaches that
		length; it is rejected if it exceeds 64 bytes. Defaults to the value
		of environment variable MARZIPAN_TOKEN_SECRET; if neither is given, a
		random secret is generated and a warning is logged (tokens will stop
		validating at the next restart).

	--db PATH
		Path to the SQLite build-history database file. Defaults to the
		value of environment variable MARZIPAN_DATABASE, and if that is
		unset, to "./marzipan-builds.db".

	--api-key KEY
		The API key POST /tokens accepts in exchange for a bearer token. Its
		bcrypt hash is computed at startup and never written back to disk.
		Defaults to the value of environment variable MARZIPAN_API_KEY. If no
		key is configured, a random one is generated and logged once at
		startup, mirroring the teacher's generated-secret warning.

	-c, --config FILE
		Load reserved-name and code-page overrides from a TOML config (see
		internal/mzconfig), the same file format accepted by mzpc --config.
		Its server settings also supply the listen address, token secret and
		database path, each used only when neither the flag nor its
		environment variable is set.
*/
package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/marzipan/internal/buildserver"
	"github.com/dekarrin/marzipan/internal/buildstore"
	"github.com/dekarrin/marzipan/internal/codepage"
	"github.com/dekarrin/marzipan/internal/mzconfig"
)

const (
	envListen = "MARZIPAN_LISTEN_ADDRESS"
	envSecret = "MARZIPAN_TOKEN_SECRET"
	envDB     = "MARZIPAN_DATABASE"
	envAPIKey = "MARZIPAN_API_KEY"
)

var (
	flagListen  = pflag.StringP("listen", "l", "", "Listen on the given address.")
	flagSecret  = pflag.StringP("secret", "s", "", "Secret used to sign bearer tokens.")
	flagDB      = pflag.String("db", "", "Path to the SQLite build-history database file.")
	flagAPIKey  = pflag.String("api-key", "", "API key accepted by POST /tokens.")
	flagConfig  = pflag.StringP("config", "c", "", "Path to a TOML config file.")
)

func main() {
	pflag.Parse()

	if len(pflag.Args()) > 0 {
		fmt.Fprintln(os.Stderr, "too many arguments\ndo -h for help.")
		os.Exit(1)
	}

	var cfg mzconfig.Config
	if *flagConfig != "" {
		var err error
		cfg, err = mzconfig.Load(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			os.Exit(1)
		}
	}

	listenAddr := valueOrEnvOrDefault(*flagListen, "listen", envListen, cfg.Server.ListenAddress)
	if listenAddr == "" {
		listenAddr = "localhost:8080"
	}

	dbPath := valueOrEnvOrDefault(*flagDB, "db", envDB, cfg.Server.Database)
	if dbPath == "" {
		dbPath = "./marzipan-builds.db"
	}

	secret := resolveSecret(valueOrEnvOrDefault(*flagSecret, "secret", envSecret, cfg.Server.TokenSecret))

	apiKey := valueOrEnvOrDefault(*flagAPIKey, "api-key", envAPIKey, "")
	if apiKey == "" {
		apiKey = randomHex(16)
		log.Printf("WARN  no API key configured; generated one for this run: %s", apiKey)
	}
	apiKeyHash, err := bcrypt.GenerateFromPassword([]byte(apiKey), bcrypt.DefaultCost)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: hashing API key: %s\n", err.Error())
		os.Exit(1)
	}

	store, err := buildstore.Open(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: opening build store: %s\n", err.Error())
		os.Exit(1)
	}
	defer store.Close()

	var table *codepage.Table
	if cfg.Codepage.TablePath != "" {
		table, err = codepage.LoadTable(cfg.Codepage.TablePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			os.Exit(1)
		}
	}

	srv := buildserver.New(buildserver.Config{
		Secret:        secret,
		APIKeyHash:    apiKeyHash,
		Table:         table,
		ReservedNames: cfg.ReservedNameList(),
	}, store)

	log.Printf("INFO  starting marzipan build service on %s...", listenAddr)
	if err := http.ListenAndServe(listenAddr, srv.Router()); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		os.Exit(1)
	}
}

// valueOrEnvOrDefault returns flagVal if the named flag was explicitly set
// on the command line, else the named environment variable if set, else def.
func valueOrEnvOrDefault(flagVal string, flagName string, envName string, def string) string {
	if pflag.Lookup(flagName).Changed {
		return flagVal
	}
	if v := os.Getenv(envName); v != "" {
		return v
	}
	return def
}

// resolveSecret pads s to at least 32 bytes by doubling, rejects anything
// over 64 bytes, and generates a random secret if s is empty — the same
// scheme cmd/tqserver uses for its JWT signing secret.
func resolveSecret(s string) []byte {
	if s == "" {
		secret := make([]byte, 64)
		if _, err := rand.Read(secret); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: could not generate token secret: %s\n", err.Error())
			os.Exit(1)
		}
		log.Printf("WARN  using generated token secret; all tokens issued will become invalid at shutdown")
		return secret
	}

	secret := []byte(s)
	for len(secret) < 32 {
		doubled := make([]byte, len(secret)*2)
		copy(doubled, secret)
		copy(doubled[len(secret):], secret)
		secret = doubled
	}
	if len(secret) > 64 {
		fmt.Fprintf(os.Stderr, "ERROR: token secret is %d bytes, but it must be <= 64 bytes\n", len(secret))
		os.Exit(1)
	}
	return secret
}

func randomHex(n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return strings.Repeat("0", n*2)
	}
	return hex.EncodeToString(b)
}
