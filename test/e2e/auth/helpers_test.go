package auth_test

import (
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/wardenauth/warden/internal/auth/events"
	authhttp "github.com/wardenauth/warden/internal/auth/http"
	"github.com/wardenauth/warden/internal/auth/service"
	redisstore "github.com/wardenauth/warden/internal/auth/store/drivers/redis"
	sqlitedir "github.com/wardenauth/warden/internal/auth/userdir/drivers/sqlite"
	"github.com/wardenauth/warden/pkg/cryptox"
	"github.com/wardenauth/warden/pkg/jwtx"
)

/*
 * Common constants and helpers for the end-to-end tests. The whole service
 * runs in-process: real router, real services, miniredis for the token
 * store and an in-memory SQLite user directory.
 */

const (
	testEmail    = "alice@example.com"
	testPassword = "correct horse battery"

	testClientID     = "billing-client"
	testClientSecret = "billing-secret"
	testServiceName  = "billing"
)

func TestMain(m *testing.M) {
	pepperPath := filepath.Join(os.TempDir(), "warden-e2e-test-pepper")
	cryptox.SetPepperPath(pepperPath)
	code := m.Run()
	os.Remove(pepperPath)
	os.Exit(code)
}

// testServer is one live service instance plus handles into its internals
// for the few scenarios HTTP alone cannot set up.
type testServer struct {
	URL    string
	Tokens *service.TokenService
	Redis  *miniredis.Miniredis
}

// startServer boots a fully wired service on an ephemeral port.
func startServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	tokenStore := redisstore.NewStoreFromClient(rdb)

	users, err := sqlitedir.NewStore("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	require.NoError(t, users.ApplyMigrations())
	t.Cleanup(func() { users.Close() })

	key, err := cryptox.GenerateRSAKey(2048)
	require.NoError(t, err)
	keys, err := jwtx.NewKeyManager(key, "warden", []string{"warden-clients"})
	require.NoError(t, err)

	tokens := service.NewTokenService(keys, tokenStore, time.Hour, 7*24*time.Hour)
	dispatcher := events.NewDispatcher(&events.LogPublisher{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	router := authhttp.NewRouter(keys, "e2e", false, tokenStore, users, logger)
	router.AuthService = service.NewAuthService(users, tokens, dispatcher)
	router.TokenService = tokens
	router.InternalService = service.NewInternalAuthService(tokens, []service.ServiceClient{
		{ClientID: testClientID, ClientSecret: testClientSecret, ServiceName: testServiceName},
	})
	router.ApplyRoutes()

	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return &testServer{URL: srv.URL, Tokens: tokens, Redis: mr}
}
