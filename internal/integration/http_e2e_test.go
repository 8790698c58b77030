//go:build integration

package integration

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	_ "github.com/go-sql-driver/mysql"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	server "barzinhos/internal/adapters/http_server"
	redisad "barzinhos/internal/adapters/redis"
	"barzinhos/internal/adapters/security"
	"barzinhos/internal/adapters/whatsapp"
	"barzinhos/internal/app"
	mysqlrepo "barzinhos/internal/storage/mysql"
	"barzinhos/migrations"
)

// ---------- helpers ----------

func startMySQL(t *testing.T) *sql.DB {
	t.Helper()
	pool, err := dockertest.NewPool("")
	if err != nil {
		t.Fatalf("dockertest: %v", err)
	}
	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mysql",
		Tag:        "8.0.36",
		Env:        []string{"MYSQL_ROOT_PASSWORD=root", "MYSQL_DATABASE=barzinhos"},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		t.Fatalf("run mysql: %v", err)
	}
	t.Cleanup(func() { _ = pool.Purge(resource) })

	dsn := fmt.Sprintf("root:root@tcp(127.0.0.1:%s)/barzinhos?parseTime=true&charset=utf8mb4&loc=UTC",
		resource.GetPort("3306/tcp"))
	var db *sql.DB
	if err := pool.Retry(func() error {
		var e error
		if db, e = sql.Open("mysql", dsn); e != nil {
			return e
		}
		return db.Ping()
	}); err != nil {
		t.Fatalf("connect mysql: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := migrations.Apply(context.Background(), db); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return db
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Code    string          `json:"code"`
}

func call(t *testing.T, base, method, path, token string, body any) (int, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, base+path, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer res.Body.Close()
	var env envelope
	_ = json.NewDecoder(res.Body).Decode(&env)
	return res.StatusCode, env
}

// ---------- test ----------

func TestHTTP_RegisterApproveReviewDelete(t *testing.T) {
	db := startMySQL(t)
	mr := miniredis.RunT(t)
	rc := redisad.NewClient(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = rc.Close() })

	repo := mysqlrepo.New(db)
	cache := redisad.New(rc)
	notify := app.NewNotificationService(whatsapp.NewLogSender(zerolog.Nop()), redisad.NewNotificationLog(rc, 50))
	hasher := security.NewHasher(bcrypt.MinCost)
	auth := app.NewAuthService(repo, hasher, security.NewTokens("it-secret", time.Hour), notify, cache)

	srv := server.New(server.Options{Logger: zerolog.Nop()})
	srv.MountHandlers(&server.Handlers{
		Q:      app.NewQueryService(repo, cache, time.Minute),
		Cmd:    app.NewEstablishmentService(repo, cache, notify),
		Auth:   auth,
		Notify: notify,
		Users:  app.NewUserService(repo, hasher, cache),
	})
	ts := httptest.NewServer(srv.Mux())
	defer ts.Close()

	ctx := context.Background()
	if _, err := auth.CreateAdmin(ctx, "admin", "admin@barzinhos.com", "admin123"); err != nil {
		t.Fatalf("CreateAdmin: %v", err)
	}
	_, loginEnv := call(t, ts.URL, http.MethodPost, "/auth/login", "", map[string]string{"email": "admin@barzinhos.com", "password": "admin123"})
	var login struct {
		AccessToken string `json:"access_token"`
	}
	_ = json.Unmarshal(loginEnv.Data, &login)
	if login.AccessToken == "" {
		t.Fatalf("admin login failed: %+v", loginEnv)
	}
	admin := login.AccessToken

	// owner self-registration: pending, welcome logged
	status, env := call(t, ts.URL, http.MethodPost, "/auth/register-establishment", "", map[string]any{
		"name": "Boteco Central", "type": "Boteco", "address": "Rua 1", "neighborhood": "Centro",
		"whatsapp": "5511999999999", "email": "dono@bar.com", "password": "segredo",
	})
	if status != http.StatusCreated {
		t.Fatalf("register-establishment: %d %+v", status, env)
	}
	var est struct {
		ID         int64 `json:"id"`
		IsApproved bool  `json:"is_approved"`
	}
	_ = json.Unmarshal(env.Data, &est)
	if est.IsApproved {
		t.Fatalf("self-registered establishment must be pending")
	}

	// neighborhoods are cached; approval must invalidate stats
	if s, _ := call(t, ts.URL, http.MethodGet, "/establishments/stats", "", nil); s != http.StatusOK {
		t.Fatalf("stats: %d", s)
	}
	if !mr.Exists("establishments:stats") {
		t.Fatalf("stats should be cached")
	}

	path := fmt.Sprintf("/establishments/%d", est.ID)
	if s, e := call(t, ts.URL, http.MethodPut, path+"/approval", admin, map[string]bool{"approved": true}); s != http.StatusOK {
		t.Fatalf("approve: %d %+v", s, e)
	}
	if mr.Exists("establishments:stats") {
		t.Fatalf("approval should invalidate cached stats")
	}

	for _, r := range []int{5, 4, 4} {
		if s, e := call(t, ts.URL, http.MethodPost, path+"/reviews", "", map[string]any{"user_name": "Ana", "rating": r}); s != http.StatusCreated {
			t.Fatalf("review: %d %+v", s, e)
		}
	}
	if s, _ := call(t, ts.URL, http.MethodPost, path+"/reviews", "", map[string]any{"user_name": "Ana", "rating": 6}); s != http.StatusBadRequest {
		t.Fatalf("rating 6: want 400, got %d", s)
	}

	_, env = call(t, ts.URL, http.MethodGet, "/establishments?neighborhood=Centro", "", nil)
	var rows []struct {
		ID          int64   `json:"id"`
		Rating      float64 `json:"rating"`
		ReviewCount int     `json:"review_count"`
	}
	_ = json.Unmarshal(env.Data, &rows)
	if len(rows) != 1 || rows[0].ReviewCount != 3 || rows[0].Rating < 4.33 || rows[0].Rating > 4.34 {
		t.Fatalf("listing: %+v", rows)
	}

	_, env = call(t, ts.URL, http.MethodGet, "/automation/logs", admin, nil)
	var logs []struct {
		Type string `json:"type"`
	}
	_ = json.Unmarshal(env.Data, &logs)
	if len(logs) != 2 || logs[0].Type != "approval" || logs[1].Type != "welcome" {
		t.Fatalf("automation logs: %+v", logs)
	}

	if s, e := call(t, ts.URL, http.MethodDelete, path, admin, nil); s != http.StatusOK {
		t.Fatalf("delete: %d %+v", s, e)
	}
	reviews, err := repo.ListReviews(ctx, est.ID)
	if err != nil || len(reviews) != 0 {
		t.Fatalf("reviews after delete: %d %v", len(reviews), err)
	}
	if s, _ := call(t, ts.URL, http.MethodGet, path, "", nil); s != http.StatusNotFound {
		t.Fatalf("get after delete: want 404, got %d", s)
	}

	// deleting an owner through /users removes what they own
	_, env = call(t, ts.URL, http.MethodPost, "/auth/register-establishment", "", map[string]any{
		"name": "Bar da Vila", "type": "Bar", "address": "Rua 2", "neighborhood": "Vila Madalena",
		"whatsapp": "5511988888888", "email": "vila@bar.com", "password": "segredo",
	})
	_ = json.Unmarshal(env.Data, &est)
	_, env = call(t, ts.URL, http.MethodGet, "/users", admin, nil)
	var users []struct {
		ID    int64  `json:"id"`
		Email string `json:"email"`
	}
	_ = json.Unmarshal(env.Data, &users)
	var ownerID int64
	for _, u := range users {
		if u.Email == "vila@bar.com" {
			ownerID = u.ID
		}
	}
	if ownerID == 0 {
		t.Fatalf("owner not listed: %+v", users)
	}
	if s, e := call(t, ts.URL, http.MethodDelete, fmt.Sprintf("/users/%d", ownerID), admin, nil); s != http.StatusNoContent {
		t.Fatalf("delete user: %d %+v", s, e)
	}
	if _, err := repo.GetEstablishment(ctx, est.ID); err == nil {
		t.Fatalf("establishment %d should be gone with its owner", est.ID)
	}
}
