package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"devcamper/internal/cache"
	"devcamper/internal/config"
	"devcamper/internal/geocoder"
	"devcamper/internal/mailer"
	"devcamper/internal/models"
	"devcamper/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key-12345678901234567890123456789012"

type outbox struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (o *outbox) Send(_ context.Context, msg mailer.Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.sent = append(o.sent, msg)
	return nil
}

func (o *outbox) last() mailer.Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sent[len(o.sent)-1]
}

type testServer struct {
	srv     *Server
	app     *fiber.App
	redis   *miniredis.Miniredis
	photos  *testutil.PhotoStoreStub
	events  *testutil.RecordingPublisher
	retries *testutil.EnqueuerStub
	mail    *outbox
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	cache.SetClient(rdb)
	t.Cleanup(func() { _ = cache.Close() })

	ts := &testServer{
		redis:   mr,
		photos:  testutil.NewPhotoStoreStub(),
		events:  &testutil.RecordingPublisher{},
		retries: &testutil.EnqueuerStub{},
		mail:    &outbox{},
	}

	cfg := &config.Config{
		JWTSecret:           testSecret,
		JWTExpireHours:      1,
		JWTCookieExpireDays: 30,
		Port:                "0",
		Env:                 "test",
		MaxFileUpload:       1000000,
		RedisURL:            mr.Addr(),
	}
	srv, err := NewServerWithDeps(cfg, testutil.NewSQLiteDBWithForeignKeys(t), rdb, Deps{
		Geocoder:   geocoder.NewStatic(testutil.StaticLocations, true),
		PhotoStore: ts.photos,
		Mailer:     ts.mail,
		Publisher:  ts.events,
		RetryQueue: ts.retries,
	})
	require.NoError(t, err)

	ts.srv = srv
	ts.app = srv.App()
	return ts
}

func (ts *testServer) do(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return ts.send(t, req)
}

func (ts *testServer) send(t *testing.T, req *http.Request) (*http.Response, map[string]any) {
	t.Helper()
	resp, err := ts.app.Test(req, -1)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var out map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	}
	return resp, out
}

// register creates an account and returns its token.
func (ts *testServer) register(t *testing.T, name, email, role string) string {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name":     name,
		"email":    email,
		"password": "123456",
		"role":     role,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	return body["token"].(string)
}

// admin stores an admin account directly and logs it in.
func (ts *testServer) admin(t *testing.T) string {
	t.Helper()
	hashed, err := ts.srv.authService.HashPassword("123456")
	require.NoError(t, err)
	require.NoError(t, ts.srv.userRepo.Create(context.Background(), &models.User{
		Name:     "Admin Account",
		Email:    "admin@gmail.com",
		Role:     models.RoleAdmin,
		Password: hashed,
	}))
	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email":    "admin@gmail.com",
		"password": "123456",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	return body["token"].(string)
}

func (ts *testServer) createBootcamp(t *testing.T, token, name string) uint {
	t.Helper()
	resp, body := ts.do(t, http.MethodPost, "/api/v1/bootcamps", token, map[string]any{
		"name":        name,
		"description": "Full stack web development",
		"address":     "02118",
		"careers":     []string{models.CareerWebDevelopment, models.CareerUIUX},
		"housing":     true,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	return uint(data(body)["id"].(float64))
}

func uintText(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func data(body map[string]any) map[string]any {
	return body["data"].(map[string]any)
}

func TestHealthChecks(t *testing.T) {
	ts := newTestServer(t)

	resp, _ := ts.do(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := ts.do(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	checks := body["checks"].(map[string]any)
	assert.Equal(t, "healthy", checks["database"])
	assert.Equal(t, "healthy", checks["redis"])
}

func TestAuthFlow(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/register",
		strings.NewReader(`{"name":"John Doe","email":"john@gmail.com","password":"123456","role":"publisher"}`))
	req.Header.Set("Content-Type", "application/json")
	resp, body := ts.send(t, req)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, true, body["success"])
	token := body["token"].(string)

	var cookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "token" {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, token, cookie.Value)
	assert.True(t, cookie.HttpOnly)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "john@gmail.com", data(body)["email"])
	assert.Equal(t, models.RolePublisher, data(body)["role"])
	assert.NotContains(t, data(body), "password")

	// the cookie alone authenticates too
	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: "token", Value: token})
	resp, _ = ts.send(t, req)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "john@gmail.com", "password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Invalid credentials", body["error"])

	resp, body = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "john@gmail.com"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please provide an email and password", body["error"])

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Not authorized to access this route", body["error"])
}

func TestRegister_RejectsAdminRole(t *testing.T) {
	ts := newTestServer(t)

	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"name": "Mallory", "email": "mallory@gmail.com", "password": "123456", "role": "admin",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeValidation, body["code"])
}

func TestUpdateDetailsAndPassword(t *testing.T) {
	ts := newTestServer(t)
	token := ts.register(t, "Jane Doe", "jane@gmail.com", models.RoleUser)

	resp, body := ts.do(t, http.MethodPut, "/api/v1/auth/updatedetails", token, map[string]string{"name": "Jane Smith"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "Jane Smith", data(body)["name"])
	assert.Equal(t, "jane@gmail.com", data(body)["email"])

	resp, body = ts.do(t, http.MethodPut, "/api/v1/auth/updatepassword", token, map[string]string{
		"currentPassword": "nope", "newPassword": "654321",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "Password is incorrect", body["error"])

	resp, body = ts.do(t, http.MethodPut, "/api/v1/auth/updatepassword", token, map[string]string{
		"currentPassword": "123456", "newPassword": "654321",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.NotEmpty(t, body["token"])

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "jane@gmail.com", "password": "654321",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestForgotAndResetPassword(t *testing.T) {
	ts := newTestServer(t)
	ts.register(t, "Jane Doe", "jane@gmail.com", models.RoleUser)

	resp, body := ts.do(t, http.MethodPost, "/api/v1/auth/forgotpassword", "", map[string]string{"email": "nobody@gmail.com"})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "There is no user with that email", body["error"])

	resp, body = ts.do(t, http.MethodPost, "/api/v1/auth/forgotpassword", "", map[string]string{"email": "jane@gmail.com"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "Email sent", body["data"])

	msg := ts.mail.last()
	assert.Equal(t, "jane@gmail.com", msg.To)
	idx := strings.Index(msg.Text, "/api/v1/auth/resetpassword/")
	require.GreaterOrEqual(t, idx, 0)
	resetToken := strings.TrimSpace(msg.Text[idx+len("/api/v1/auth/resetpassword/"):])
	require.NotEmpty(t, resetToken)

	resp, body = ts.do(t, http.MethodPut, "/api/v1/auth/resetpassword/not-a-token", "", map[string]string{"password": "abcdef1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Invalid token", body["error"])

	resp, body = ts.do(t, http.MethodPut, "/api/v1/auth/resetpassword/"+resetToken, "", map[string]string{"password": "abcdef1"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.NotEmpty(t, body["token"])

	// the token is single use
	resp, _ = ts.do(t, http.MethodPut, "/api/v1/auth/resetpassword/"+resetToken, "", map[string]string{"password": "abcdef2"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": "jane@gmail.com", "password": "abcdef1",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBootcampRoutes(t *testing.T) {
	ts := newTestServer(t)
	publisher := ts.register(t, "Pub One", "pub1@gmail.com", models.RolePublisher)
	user := ts.register(t, "Plain User", "user@gmail.com", models.RoleUser)

	resp, body := ts.do(t, http.MethodPost, "/api/v1/bootcamps", "", map[string]any{"name": "x"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = ts.do(t, http.MethodPost, "/api/v1/bootcamps", user, map[string]any{"name": "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "User role user is unauthorized to access this route", body["error"])

	id := ts.createBootcamp(t, publisher, "Devworks Bootcamp")

	resp, body = ts.do(t, http.MethodGet, "/api/v1/bootcamps/"+uintText(id), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	bc := data(body)
	assert.Equal(t, "devworks-bootcamp", bc["slug"])
	assert.Equal(t, models.DefaultPhoto, bc["photo"])
	assert.Nil(t, bc["average_cost"])
	assert.Equal(t, "Boston", bc["location"].(map[string]any)["city"])

	// one bootcamp per publisher
	resp, body = ts.do(t, http.MethodPost, "/api/v1/bootcamps", publisher, map[string]any{
		"name": "Second Camp", "description": "More", "address": "02118", "careers": []string{models.CareerOther},
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Contains(t, body["error"], "has already published a bootcamp")

	resp, body = ts.do(t, http.MethodGet, "/api/v1/bootcamps?housing=true&careers=UI/UX", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(1), body["count"])
	assert.Equal(t, float64(1), body["pagination"].(map[string]any)["total"])

	resp, body = ts.do(t, http.MethodGet, "/api/v1/bootcamps?careers=Cooking", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = ts.do(t, http.MethodPut, "/api/v1/bootcamps/"+uintText(id), publisher, map[string]any{"name": "Devworks Academy"})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, "devworks-academy", data(body)["slug"])

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/bootcamps/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/bootcamps/999", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, models.CodeNotFound, body["code"])
}

func TestBootcampOwnership(t *testing.T) {
	ts := newTestServer(t)
	owner := ts.register(t, "Owner", "owner@gmail.com", models.RolePublisher)
	other := ts.register(t, "Other", "other@gmail.com", models.RolePublisher)
	admin := ts.admin(t)

	id := ts.createBootcamp(t, owner, "Owned Camp")

	resp, _ := ts.do(t, http.MethodPut, "/api/v1/bootcamps/"+uintText(id), other, map[string]any{"housing": false})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodDelete, "/api/v1/bootcamps/"+uintText(id), other, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := ts.do(t, http.MethodPut, "/api/v1/bootcamps/"+uintText(id), admin, map[string]any{"housing": false})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, false, data(body)["housing"])
}

func TestAggregatesAndCascadeOverHTTP(t *testing.T) {
	ts := newTestServer(t)
	publisher := ts.register(t, "Pub", "pub@gmail.com", models.RolePublisher)
	reviewer := ts.register(t, "Rev", "rev@gmail.com", models.RoleUser)
	reviewer2 := ts.register(t, "Rev Two", "rev2@gmail.com", models.RoleUser)

	id := ts.createBootcamp(t, publisher, "Aggregate Camp")
	base := "/api/v1/bootcamps/" + uintText(id)

	for _, tuition := range []float64{1000, 500} {
		resp, body := ts.do(t, http.MethodPost, base+"/courses", publisher, map[string]any{
			"title": "Course", "description": "Learn", "weeks": "8",
			"tuition": tuition, "minimum_skill": models.SkillBeginner,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	}

	resp, body := ts.do(t, http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(750), data(body)["average_cost"])

	resp, body = ts.do(t, http.MethodGet, base+"/courses", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])
	courseID := body["data"].([]any)[0].(map[string]any)["id"].(float64)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/courses/"+uintText(uint(courseID)), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Aggregate Camp", data(body)["bootcamp"].(map[string]any)["name"])

	// publishers cannot review
	resp, _ = ts.do(t, http.MethodPost, base+"/reviews", publisher, map[string]any{"title": "t", "text": "t", "rating": 5})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	for token, rating := range map[string]int{reviewer: 8, reviewer2: 5} {
		resp, body = ts.do(t, http.MethodPost, base+"/reviews", token, map[string]any{
			"title": "Great", "text": "Learned a lot", "rating": rating,
		})
		require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	}

	resp, body = ts.do(t, http.MethodPost, base+"/reviews", reviewer, map[string]any{
		"title": "Again", "text": "Second review", "rating": 1,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, models.CodeDuplicate, body["code"])

	resp, body = ts.do(t, http.MethodGet, base, "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 6.5, data(body)["average_rating"])

	resp, body = ts.do(t, http.MethodGet, "/api/v1/reviews", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(2), body["count"])

	resp, _ = ts.do(t, http.MethodDelete, base, publisher, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = ts.do(t, http.MethodGet, base+"/courses", "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, body = ts.do(t, http.MethodGet, "/api/v1/reviews", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["count"])
	resp, body = ts.do(t, http.MethodGet, "/api/v1/courses", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["count"])

	assert.Contains(t, ts.events.Types(), "bootcamp.deleted")
	assert.Empty(t, ts.retries.Recorded())
}

func TestBootcampsInRadius(t *testing.T) {
	ts := newTestServer(t)
	publisher := ts.register(t, "Pub", "pub@gmail.com", models.RolePublisher)
	ts.createBootcamp(t, publisher, "Boston Camp")

	resp, body := ts.do(t, http.MethodGet, "/api/v1/bootcamps/radius/02118/10", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, float64(1), body["count"])

	resp, body = ts.do(t, http.MethodGet, "/api/v1/bootcamps/radius/10001/10", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, float64(0), body["count"])

	resp, body = ts.do(t, http.MethodGet, "/api/v1/bootcamps/radius/02118/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Distance must be a non-negative number", body["error"])

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/bootcamps/radius/02118/-5", "", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func multipartPhoto(t *testing.T, path, token, filename, contentType string, content []byte) *http.Request {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	h := make(map[string][]string)
	h["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	h["Content-Type"] = []string{contentType}
	part, err := w.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPut, path, buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}

func TestUploadBootcampPhoto(t *testing.T) {
	ts := newTestServer(t)
	publisher := ts.register(t, "Pub", "pub@gmail.com", models.RolePublisher)
	id := ts.createBootcamp(t, publisher, "Photo Camp")
	path := "/api/v1/bootcamps/" + uintText(id) + "/photo"

	resp, body := ts.send(t, multipartPhoto(t, path, publisher, "camp.png", "image/png", testutil.TinyPNG(t, 40, 30)))
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	name := "photo_" + uintText(id) + ".jpg"
	assert.Equal(t, name, body["data"])
	assert.Contains(t, ts.photos.Files, name)
	assert.Contains(t, ts.photos.Files, "photo_"+uintText(id)+".webp")

	resp, body = ts.do(t, http.MethodGet, "/api/v1/bootcamps/"+uintText(id), "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, name, data(body)["photo"])

	resp, body = ts.send(t, multipartPhoto(t, path, publisher, "notes.txt", "text/plain", []byte("hello")))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please upload an image file", body["error"])

	req := httptest.NewRequest(http.MethodPut, path, nil)
	req.Header.Set("Authorization", "Bearer "+publisher)
	resp, body = ts.send(t, req)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "Please upload a file", body["error"])
}

func TestUserAdminRoutes(t *testing.T) {
	ts := newTestServer(t)
	user := ts.register(t, "Plain", "plain@gmail.com", models.RoleUser)
	admin := ts.admin(t)

	resp, _ := ts.do(t, http.MethodGet, "/api/v1/users", user, nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := ts.do(t, http.MethodPost, "/api/v1/users", admin, map[string]string{
		"name": "Created", "email": "created@gmail.com", "password": "123456", "role": models.RolePublisher,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)
	createdID := uint(data(body)["id"].(float64))

	resp, body = ts.do(t, http.MethodGet, "/api/v1/users", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(3), body["count"])

	resp, body = ts.do(t, http.MethodPut, "/api/v1/users/"+uintText(createdID), admin, map[string]string{"role": models.RoleUser})
	require.Equal(t, http.StatusOK, resp.StatusCode, body)
	assert.Equal(t, models.RoleUser, data(body)["role"])

	resp, _ = ts.do(t, http.MethodDelete, "/api/v1/users/"+uintText(createdID), admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp, _ = ts.do(t, http.MethodGet, "/api/v1/users/"+uintText(createdID), admin, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteUserOwningBootcamp(t *testing.T) {
	ts := newTestServer(t)
	publisher := ts.register(t, "Owner", "owner@gmail.com", models.RolePublisher)
	admin := ts.admin(t)
	bootcampID := ts.createBootcamp(t, publisher, "Owned Camp")

	resp, body := ts.do(t, http.MethodPost, "/api/v1/bootcamps/"+uintText(bootcampID)+"/courses", publisher, map[string]any{
		"title": "Go", "description": "Backend", "weeks": "8", "tuition": 1200, "minimum_skill": models.SkillBeginner,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode, body)

	resp, body = ts.do(t, http.MethodGet, "/api/v1/auth/me", publisher, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	ownerID := uint(data(body)["id"].(float64))

	resp, body = ts.do(t, http.MethodDelete, "/api/v1/users/"+uintText(ownerID), admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, body)

	resp, _ = ts.do(t, http.MethodGet, "/api/v1/bootcamps/"+uintText(bootcampID), "", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp, body = ts.do(t, http.MethodGet, "/api/v1/courses", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, float64(0), body["count"])
	assert.Contains(t, ts.events.Types(), "bootcamp.deleted")
}

func TestRoleChangeAppliesBeforeTokenExpiry(t *testing.T) {
	ts := newTestServer(t)
	publisher := ts.register(t, "Pub", "pub@gmail.com", models.RolePublisher)
	admin := ts.admin(t)

	resp, body := ts.do(t, http.MethodGet, "/api/v1/auth/me", publisher, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	id := uint(data(body)["id"].(float64))

	resp, _ = ts.do(t, http.MethodPut, "/api/v1/users/"+uintText(id), admin, map[string]string{"role": models.RoleUser})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = ts.do(t, http.MethodPost, "/api/v1/bootcamps", publisher, map[string]any{"name": "x"})
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "User role user is unauthorized to access this route", body["error"])
}

func TestFeatureFlagsRoute(t *testing.T) {
	ts := newTestServer(t)
	admin := ts.admin(t)

	resp, body := ts.do(t, http.MethodGet, "/api/v1/admin/feature-flags", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	evaluated := data(body)["evaluated"].(map[string]any)
	assert.Equal(t, true, evaluated["geocode_cache"])
	assert.Equal(t, true, evaluated["aggregate_retry"])
}
