package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/parcattraction/internal/api"
	"github.com/mmynk/parcattraction/internal/auth"
	"github.com/mmynk/parcattraction/internal/middleware"
	"github.com/mmynk/parcattraction/internal/service"
	"github.com/mmynk/parcattraction/internal/storage/sqlite"
)

const (
	adminName     = "admin"
	adminPassword = "admin123"
)

type testServer struct {
	handler http.Handler
	jwt     *auth.JWTManager
	store   *sqlite.SQLiteStore
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "parc.db"), sqlite.Options{})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	jwtManager := auth.NewJWTManager("test-secret-0123456789", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store).WithCost(bcrypt.MinCost)
	authService := service.NewAuthService(authenticator, jwtManager, logger)
	require.NoError(t, authService.EnsureAdmin(context.Background(), adminName, "admin@parcattraction.com", adminPassword))

	reg := prometheus.NewRegistry()
	h := api.NewHandler(service.NewAttractionService(store, logger), authService, logger)
	router := api.NewRouter(h, api.RouterConfig{
		Verifier:           authService,
		Metrics:            middleware.NewMetrics(reg),
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: []string{"*"},
		Logger:             logger,
	})
	return &testServer{handler: router, jwt: jwtManager, store: store}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		buf, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(buf)
	}

	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *testServer) login(t *testing.T) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/login", "", map[string]string{"name": adminName, "password": adminPassword})
	require.Equal(t, http.StatusOK, rec.Code)

	var res service.LoginResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&res))
	require.NotEmpty(t, res.Token)
	return res.Token
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), rec.Body.String())
	return v
}

func TestHello(t *testing.T) {
	srv := newTestServer(t)

	rec := srv.do(t, http.MethodGet, "/", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello, Parc!", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestLogin(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		body   any
		status int
	}{
		{"valid credentials", map[string]string{"name": adminName, "password": adminPassword}, http.StatusOK},
		{"wrong password", map[string]string{"name": adminName, "password": "nope"}, http.StatusUnauthorized},
		{"unknown user", map[string]string{"name": "ghost", "password": adminPassword}, http.StatusUnauthorized},
		{"quoted name", map[string]string{"name": "admin' OR '1'='1", "password": adminPassword}, http.StatusUnauthorized},
		{"missing password", map[string]string{"name": adminName}, http.StatusBadRequest},
		{"malformed body", "{", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/login", "", tt.body)
			require.Equal(t, tt.status, rec.Code)

			switch tt.status {
			case http.StatusOK:
				res := decode[service.LoginResult](t, rec)
				assert.Equal(t, adminName, res.Name)
				v, err := srv.jwt.Validate(res.Token)
				require.NoError(t, err)
				assert.Equal(t, adminName, v.Claims.Name)
			case http.StatusUnauthorized:
				body := decode[map[string]string](t, rec)
				assert.Equal(t, "Identifiants incorrects", body["message"])
			case http.StatusBadRequest:
				body := decode[api.LoginErrorResponse](t, rec)
				assert.Equal(t, []string{"Nom ou/et mot de passe incorrect"}, body.Messages)
			}
		})
	}
}

func TestCreateAttractionRequiresToken(t *testing.T) {
	srv := newTestServer(t)
	payload := map[string]any{"nom": "Tornado", "description": "Vrille", "difficulte": 3, "visible": true}

	rec := srv.do(t, http.MethodPost, "/attraction", "", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token manquant", decode[map[string]string](t, rec)["message"])

	rec = srv.do(t, http.MethodPost, "/attraction", "not-a-jwt", payload)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Token invalide", decode[map[string]string](t, rec)["message"])

	rec = srv.do(t, http.MethodGet, "/attraction", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decode[[]map[string]any](t, rec), "nothing may be written without a token")
}

func TestCreateAttractionValidation(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t)

	for name, payload := range map[string]map[string]any{
		"missing name":       {"description": "x", "difficulte": 3},
		"difficulty too low": {"nom": "A", "description": "x", "difficulte": 0},
		"difficulty too big": {"nom": "A", "description": "x", "difficulte": 6},
	} {
		t.Run(name, func(t *testing.T) {
			rec := srv.do(t, http.MethodPost, "/attraction", token, payload)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			body := decode[api.AttractionCreatedResponse](t, rec)
			assert.Equal(t, "Erreur lors de l'ajout.", body.Message)
			assert.Equal(t, false, body.Result)
		})
	}
}

func TestAttractionRoutes(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t)

	rec := srv.do(t, http.MethodPost, "/attraction", token, map[string]any{
		"nom": "Grand Huit", "description": "Rapide", "difficulte": 4, "visible": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	created := decode[api.AttractionCreatedResponse](t, rec)
	assert.Equal(t, "Element ajouté.", created.Message)
	id := int64(created.Result.(float64))

	t.Run("get by id", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/attraction/"+itoa(id), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[map[string]any](t, rec)
		assert.Equal(t, "Grand Huit", body["nom"])
		assert.Equal(t, float64(4), body["difficulte"])
		assert.Equal(t, true, body["visible"])
	})

	t.Run("unknown id yields empty object", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/attraction/9999", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[map[string]any](t, rec))
	})

	t.Run("non numeric id is not found", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/attraction/abc", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("update keeps id", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/attraction", token, map[string]any{
			"attraction_id": id, "nom": "Grand Huit", "description": "Plus rapide", "difficulte": 5, "visible": false,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, float64(id), decode[api.AttractionCreatedResponse](t, rec).Result)

		rec = srv.do(t, http.MethodGet, "/attraction/visible", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]map[string]any](t, rec))
	})

	t.Run("delete requires token", func(t *testing.T) {
		rec := srv.do(t, http.MethodDelete, "/attraction/"+itoa(id), "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		rec = srv.do(t, http.MethodDelete, "/attraction/"+itoa(id), token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Element supprimé.", decode[map[string]string](t, rec)["message"])

		rec = srv.do(t, http.MethodGet, "/attraction", "", nil)
		assert.Empty(t, decode[[]map[string]any](t, rec))
	})

	t.Run("delete id zero fails", func(t *testing.T) {
		rec := srv.do(t, http.MethodDelete, "/attraction/0", token, nil)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestReviewRoutes(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t)

	rec := srv.do(t, http.MethodPost, "/attraction", token, map[string]any{
		"nom": "Manège", "description": "Calme", "difficulte": 1,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	id := int64(decode[api.AttractionCreatedResponse](t, rec).Result.(float64))

	t.Run("anonymous review without name", func(t *testing.T) {
		rec := srv.do(t, http.MethodPost, "/critique", "", map[string]any{
			"attraction_id": id, "note": 4, "commentaire": "Sympa", "est_anonyme": 1,
		})
		require.Equal(t, http.StatusOK, rec.Code)
		body := decode[api.ReviewCreatedResponse](t, rec)
		assert.Equal(t, "Critique ajoutée", body.Message)
		assert.Positive(t, body.ReviewID)
	})

	t.Run("invalid reviews are rejected", func(t *testing.T) {
		for name, payload := range map[string]map[string]any{
			"rating out of range": {"attraction_id": id, "note": 7},
			"fractional rating":   {"attraction_id": id, "note": 4.5},
			"missing attraction":  {"note": 3},
			"unknown attraction":  {"attraction_id": 424242, "note": 3},
		} {
			rec := srv.do(t, http.MethodPost, "/critique", "", payload)
			assert.Equal(t, http.StatusBadRequest, rec.Code, name)
			assert.Equal(t, "Erreur lors de l'ajout de la critique", decode[map[string]string](t, rec)["message"], name)
		}
	})

	t.Run("list for attraction", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/critique/attraction/"+itoa(id), "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		reviews := decode[[]map[string]any](t, rec)
		require.Len(t, reviews, 1)
		assert.Equal(t, "Anonyme", reviews[0]["nom"])
		assert.Equal(t, true, reviews[0]["est_anonyme"])
	})

	t.Run("list for unknown attraction is empty", func(t *testing.T) {
		rec := srv.do(t, http.MethodGet, "/critique/attraction/9999", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, decode[[]map[string]any](t, rec))
	})
}

func TestCreateGetReviewContract(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t)

	rec := srv.do(t, http.MethodPost, "/attraction", token, `{"nom":"Test","description":"D","difficulte":3}`)
	require.Equal(t, http.StatusOK, rec.Code)
	id := int64(decode[api.AttractionCreatedResponse](t, rec).Result.(float64))
	require.Positive(t, id)

	rec = srv.do(t, http.MethodGet, "/attraction/"+itoa(id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[map[string]any](t, rec)
	assert.Equal(t, "Test", got["nom"])
	assert.Equal(t, "D", got["description"])
	assert.Equal(t, float64(3), got["difficulte"])
	assert.Equal(t, true, got["visible"], "visible defaults to true")

	rec = srv.do(t, http.MethodPost, "/critique", "", `{"attraction_id":`+itoa(id)+`,"note":5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	reviewID := decode[api.ReviewCreatedResponse](t, rec).ReviewID

	rec = srv.do(t, http.MethodGet, "/critique/attraction/"+itoa(id), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	reviews := decode[[]map[string]any](t, rec)
	require.Len(t, reviews, 1)
	assert.Equal(t, float64(reviewID), reviews[0]["critique_id"])
	assert.Equal(t, float64(5), reviews[0]["note"])
}

func TestStorageFailureIsGeneric500(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t)
	require.NoError(t, srv.store.Close())

	tests := []struct {
		name    string
		method  string
		path    string
		token   string
		body    any
		message string
	}{
		{"list attractions", http.MethodGet, "/attraction", "", nil, "Erreur interne du serveur"},
		{"get attraction", http.MethodGet, "/attraction/1", "", nil, "Erreur interne du serveur"},
		{"visible attractions", http.MethodGet, "/attraction/visible", "", nil, "Erreur interne du serveur"},
		{"add review", http.MethodPost, "/critique", "", map[string]any{"attraction_id": 1, "note": 4}, "Erreur interne du serveur"},
		{"login", http.MethodPost, "/login", "", map[string]string{"name": adminName, "password": adminPassword}, "Erreur interne du serveur"},
		{"create attraction", http.MethodPost, "/attraction", token, map[string]any{"nom": "A", "description": "B", "difficulte": 2}, "Erreur lors de l'ajout."},
		{"delete attraction", http.MethodDelete, "/attraction/1", token, nil, "Erreur lors de la suppression."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := srv.do(t, tt.method, tt.path, tt.token, tt.body)
			require.Equal(t, http.StatusInternalServerError, rec.Code)

			raw := rec.Body.String()
			assert.NotContains(t, raw, "sql")
			assert.NotContains(t, raw, "closed")

			body := decode[map[string]any](t, rec)
			assert.Equal(t, tt.message, body["message"])
		})
	}
}

// TestParkScenario walks the admin and visitor flow end to end.
func TestParkScenario(t *testing.T) {
	srv := newTestServer(t)
	token := srv.login(t)

	rec := srv.do(t, http.MethodPost, "/attraction", token, map[string]any{
		"nom": "Silver Star", "description": "Loopings", "difficulte": 5, "visible": true,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	shown := int64(decode[api.AttractionCreatedResponse](t, rec).Result.(float64))

	rec = srv.do(t, http.MethodPost, "/attraction", token, map[string]any{
		"nom": "En travaux", "description": "Fermée", "difficulte": 2, "visible": false,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	for _, review := range []map[string]any{
		{"attraction_id": shown, "nom": "Martin", "prenom": "Léa", "note": 5, "commentaire": "Génial"},
		{"attraction_id": shown, "note": 3, "est_anonyme": true},
	} {
		rec = srv.do(t, http.MethodPost, "/critique", "", review)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec = srv.do(t, http.MethodGet, "/attraction/visible/critiques", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	visible := decode[[]map[string]any](t, rec)
	require.Len(t, visible, 1)
	assert.Equal(t, "Silver Star", visible[0]["nom"])

	reviews, ok := visible[0]["critiques"].([]any)
	require.True(t, ok, "critiques must be embedded")
	require.Len(t, reviews, 2)
	assert.Equal(t, "Anonyme", reviews[0].(map[string]any)["nom"], "newest review comes first")
	assert.Equal(t, "Martin", reviews[1].(map[string]any)["nom"])

	rec = srv.do(t, http.MethodGet, "/attraction", "", nil)
	assert.Len(t, decode[[]map[string]any](t, rec), 2)

	rec = srv.do(t, http.MethodDelete, "/attraction/"+itoa(shown), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/critique/attraction/"+itoa(shown), "", nil)
	assert.Empty(t, decode[[]map[string]any](t, rec), "reviews go with their attraction")

	rec = srv.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `parc_http_requests_total{method="POST",route="POST /critique",status="200"} 2`)
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
