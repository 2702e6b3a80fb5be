// Package buildserver exposes internal/driver's compiler as an HTTP service:
// a bearer-token exchange, a build endpoint that runs the driver in-process
// against an uploaded world file, and a lookup endpoint for a previously
// recorded build's diagnostics. Grounded on the teacher's server/api (the
// EndpointFunc/chi.URLParam wrapper shape), server/token.go (the bearer-JWT
// scheme), and server/tunas/auth.go (bcrypt-hashed credential checking) —
// generalized from "logged-in user" to "one configured build-service API
// key", since this service has no user table.
package buildserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dekarrin/marzipan/internal/buildstore"
	"github.com/dekarrin/marzipan/internal/codepage"
	"github.com/dekarrin/marzipan/internal/driver"
	"github.com/dekarrin/marzipan/internal/mzerrors"
)

// Config holds the settings a Server needs to run.
type Config struct {
	// Secret signs and verifies bearer tokens minted by POST /tokens.
	Secret []byte

	// APIKeyHash is the bcrypt hash of the one API key POST /tokens accepts
	// in exchange for a bearer token.
	APIKeyHash []byte

	// UnauthDelay is how long an unauthorized/forbidden/server-error
	// response is delayed before being sent, per the teacher's
	// anti-flood measure.
	UnauthDelay time.Duration

	// Table is the code page used to decode/encode uploaded world files.
	// A nil Table means codepage.DefaultTable().
	Table *codepage.Table

	// ReservedNames is passed through to every driver.Build call.
	ReservedNames []string
}

// Server is the build service's HTTP front end.
type Server struct {
	cfg   Config
	store *buildstore.Store
}

// New returns a Server backed by store.
func New(cfg Config, store *buildstore.Store) *Server {
	if cfg.UnauthDelay == 0 {
		cfg.UnauthDelay = time.Second
	}
	return &Server{cfg: cfg, store: store}
}

// Router builds the chi router for the service: POST /tokens is open,
// POST /builds and GET /builds/{id} require a bearer token.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/tokens", s.endpoint(s.postTokens))

	r.Group(func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return requireAuth(s.cfg.Secret, s.cfg.UnauthDelay, next)
		})
		r.Post("/builds", s.endpoint(s.postBuilds))
		r.Get("/builds/{id}", s.endpoint(s.getBuildByID))
	})

	return r
}

// endpointFunc is the signature every handler below is written against,
// mirroring the teacher's api.EndpointFunc — a handler returns a result
// instead of writing to the ResponseWriter itself, so every response goes
// through one panic-safe, timing-consistent path.
type endpointFunc func(req *http.Request) result

func (s *Server) endpoint(ep endpointFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer s.panicTo500(w, req)

		r := ep(req)
		if r.status == http.StatusUnauthorized || r.status == http.StatusForbidden || r.status == http.StatusInternalServerError {
			time.Sleep(s.cfg.UnauthDelay)
		}
		r.writeResponse(w)
	}
}

func (s *Server) panicTo500(w http.ResponseWriter, req *http.Request) {
	if panicErr := recover(); panicErr != nil {
		r := internalServerError(fmt.Sprintf("panic: %v", panicErr))
		r.writeResponse(w)
	}
}

type tokenRequest struct {
	APIKey string `json:"api_key"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

func (s *Server) postTokens(req *http.Request) result {
	var body tokenRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		return badRequest("malformed JSON in request", "decode token request: %s", err.Error())
	}

	if err := bcrypt.CompareHashAndPassword(s.cfg.APIKeyHash, []byte(body.APIKey)); err != nil {
		return unauthorized("the supplied API key is incorrect", "token exchange: %s", err.Error())
	}

	tok, err := mintToken(s.cfg.Secret)
	if err != nil {
		return internalServerError("minting token: %s", err.Error())
	}

	return created(tokenResponse{Token: tok}, "issued a build-service token")
}

type buildResponse struct {
	BuildID     uuid.UUID   `json:"build_id"`
	World       string      `json:"world"`
	Diagnostics interface{} `json:"diagnostics"`
}

func (s *Server) postBuilds(req *http.Request) result {
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return badRequest("could not read request body", "reading upload: %s", err.Error())
	}

	rec, worldBytes, err := s.runBuild(req.Context(), body)
	if err != nil {
		if cat, ok := mzerrors.CategoryOf(err); ok {
			return badRequest(fmt.Sprintf("%s error: %s", cat, err.Error()), "build failed: %s", err.Error())
		}
		return internalServerError("build failed: %s", err.Error())
	}

	return created(buildResponse{
		BuildID:     rec.ID,
		World:       base64.StdEncoding.EncodeToString(worldBytes),
		Diagnostics: rec.Diagnostics,
	}, "build %s recorded, %d diagnostic(s)", rec.ID, len(rec.Diagnostics))
}

// runBuild copies the uploaded world into a temp file, compiles it via
// internal/driver, records the result in the store, and returns both the
// stored record and the rewritten world's raw bytes.
func (s *Server) runBuild(ctx context.Context, uploaded []byte) (buildstore.Record, []byte, error) {
	dir, err := os.MkdirTemp("", "marzipan-build-*")
	if err != nil {
		return buildstore.Record{}, nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "input.zzt")
	outPath := filepath.Join(dir, "output.zzt")
	if err := os.WriteFile(inPath, uploaded, 0o600); err != nil {
		return buildstore.Record{}, nil, fmt.Errorf("write uploaded world: %w", err)
	}

	buildResult, err := driver.Build(inPath, outPath, driver.Options{
		Table:         s.cfg.Table,
		ReservedNames: s.cfg.ReservedNames,
	})
	if err != nil {
		return buildstore.Record{}, nil, err
	}

	worldBytes, err := os.ReadFile(outPath)
	if err != nil {
		return buildstore.Record{}, nil, fmt.Errorf("read compiled world: %w", err)
	}

	rec, err := s.store.Create(ctx, buildstore.Record{
		WorldName:   buildResult.World.Header.Name,
		ErrorCount:  buildResult.Diag.ErrorCount(),
		AnyErrors:   buildResult.Diag.AnyErrors(),
		Diagnostics: buildResult.Diag.Messages(),
	})
	if err != nil {
		return buildstore.Record{}, nil, fmt.Errorf("recording build: %w", err)
	}

	return rec, worldBytes, nil
}

func (s *Server) getBuildByID(req *http.Request) result {
	idStr := chi.URLParam(req, "id")
	id, err := uuid.Parse(idStr)
	if err != nil {
		return badRequest("build ID is not a valid UUID", "parse build ID %q: %s", idStr, err.Error())
	}

	rec, err := s.store.GetByID(req.Context(), id)
	if err != nil {
		if err == buildstore.ErrNotFound {
			return notFound("build %s: %s", id, err.Error())
		}
		return internalServerError("fetching build %s: %s", id, err.Error())
	}

	return ok(buildResponse{
		BuildID:     rec.ID,
		Diagnostics: rec.Diagnostics,
	}, "fetched build %s", id)
}
