package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/nmorales89/accounthub/internal/accounts"
	"github.com/nmorales89/accounthub/internal/domain/user"
	"github.com/nmorales89/accounthub/internal/http/handlers"
	"github.com/nmorales89/accounthub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

// Make sure Gin does not spam the console during the test

func init() {
	gin.SetMode(gin.TestMode)
}

// Fake implementation of the handlers.AccountService interface

type fakeAccounts struct {
	registerFn func(ctx context.Context, req user.RegisterRequest) (user.User, error)
	loginFn    func(ctx context.Context, email, password string) (string, error)
	getFn      func(ctx context.Context, userID string) (user.User, error)
	updateFn   func(ctx context.Context, userID string, req user.UpdateRequest) (user.User, error)
	refreshFn  func(ctx context.Context, userID string) (string, error)
	deleteFn   func(ctx context.Context, userID string) error
}

func (f *fakeAccounts) Register(ctx context.Context, req user.RegisterRequest) (user.User, error) {
	if f.registerFn != nil {
		return f.registerFn(ctx, req)
	}
	return user.User{}, nil
}

func (f *fakeAccounts) Login(ctx context.Context, email, password string) (string, error) {
	if f.loginFn != nil {
		return f.loginFn(ctx, email, password)
	}
	return "", nil
}

func (f *fakeAccounts) Get(ctx context.Context, userID string) (user.User, error) {
	if f.getFn != nil {
		return f.getFn(ctx, userID)
	}
	return user.User{}, nil
}

func (f *fakeAccounts) Update(ctx context.Context, userID string, req user.UpdateRequest) (user.User, error) {
	if f.updateFn != nil {
		return f.updateFn(ctx, userID, req)
	}
	return user.User{}, nil
}

func (f *fakeAccounts) Refresh(ctx context.Context, userID string) (string, error) {
	if f.refreshFn != nil {
		return f.refreshFn(ctx, userID)
	}
	return "", nil
}

func (f *fakeAccounts) Delete(ctx context.Context, userID string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, userID)
	}
	return nil
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func testContext(req *http.Request, principal string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	if principal != "" {
		c.Set(middlewares.CtxPrincipal, principal)
	}

	return c, w
}

func mustReadJSON[T any](t *testing.T, w *httptest.ResponseRecorder, out *T) {
	t.Helper()
	err := json.Unmarshal(w.Body.Bytes(), out)
	if err != nil {
		t.Fatalf("failed to unmarshal json: %v, body=%s", err, w.Body.String())
	}
}

func TestRegisterCreated(t *testing.T) {
	fake := &fakeAccounts{
		registerFn: func(ctx context.Context, req user.RegisterRequest) (user.User, error) {
			return user.User{ID: "u1", FirstName: req.FirstName, Email: "jane@x.com", Level: user.LevelStandard}, nil
		},
	}

	h := handlers.NewUsersHandler(fake)

	c, w := testContext(jsonRequest(http.MethodPost, "/register",
		`{"firstName":"Jane","lastName":"Doe","email":"jane@x.com","password":"pw1secret"}`), "")

	h.Register(c)

	if w.Code != http.StatusCreated {
		t.Fatalf("status: %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Message string `json:"message"`
		Data    struct {
			User map[string]any `json:"user"`
		} `json:"data"`
	}

	mustReadJSON(t, w, &resp)

	if resp.Data.User["id"] != "u1" {
		t.Fatalf("user payload: %+v", resp.Data.User)
	}

	if _, leaked := resp.Data.User["password"]; leaked {
		t.Fatalf("password must never appear in a response")
	}
}

func TestRegisterValidation(t *testing.T) {
	h := handlers.NewUsersHandler(&fakeAccounts{})

	// missing password, malformed email
	c, w := testContext(jsonRequest(http.MethodPost, "/register",
		`{"firstName":"Jane","lastName":"Doe","email":"not-an-email"}`), "")

	h.Register(c)

	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: %d body=%s", w.Code, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "violations") {
		t.Fatalf("expected violation list, body=%s", w.Body.String())
	}
}

func TestRegisterConflict(t *testing.T) {
	fake := &fakeAccounts{
		registerFn: func(ctx context.Context, req user.RegisterRequest) (user.User, error) {
			return user.User{}, accounts.ErrEmailTaken
		},
	}

	h := handlers.NewUsersHandler(fake)

	c, w := testContext(jsonRequest(http.MethodPost, "/register",
		`{"firstName":"Jane","lastName":"Doe","email":"jane@x.com","password":"pw1secret"}`), "")

	h.Register(c)

	if w.Code != http.StatusConflict {
		t.Fatalf("status: %d body=%s", w.Code, w.Body.String())
	}
}

func TestLoginOKAndFailure(t *testing.T) {
	fake := &fakeAccounts{
		loginFn: func(ctx context.Context, email, password string) (string, error) {
			if password == "right" {
				return "tok-1", nil
			}
			return "", accounts.ErrInvalidCredentials
		},
	}

	h := handlers.NewUsersHandler(fake)

	c, w := testContext(jsonRequest(http.MethodPost, "/login",
		`{"email":"jane@x.com","password":"right"}`), "")
	h.Login(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", w.Code, w.Body.String())
	}

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}

	mustReadJSON(t, w, &resp)

	if resp.Data.Token != "tok-1" {
		t.Fatalf("token: %q", resp.Data.Token)
	}

	// bad credentials respond 404, not 401, to avoid confirming the account
	c, w = testContext(jsonRequest(http.MethodPost, "/login",
		`{"email":"jane@x.com","password":"wrong"}`), "")
	h.Login(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status: %d body=%s", w.Code, w.Body.String())
	}
}

func TestGetRequiresPrincipal(t *testing.T) {
	h := handlers.NewUsersHandler(&fakeAccounts{})

	c, w := testContext(httptest.NewRequest(http.MethodGet, "/user", nil), "")
	h.Get(c)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestGetNotFound(t *testing.T) {
	fake := &fakeAccounts{
		getFn: func(ctx context.Context, userID string) (user.User, error) {
			return user.User{}, accounts.ErrNotFound
		},
	}

	h := handlers.NewUsersHandler(fake)

	c, w := testContext(httptest.NewRequest(http.MethodGet, "/user", nil), "u1")
	h.Get(c)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status: %d", w.Code)
	}
}

func TestUpdateStatusMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"no fields", accounts.ErrNoFields, http.StatusBadRequest},
		{"email taken", accounts.ErrEmailTaken, http.StatusConflict},
		{"missing", accounts.ErrNotFound, http.StatusNotFound},
		{"internal", accounts.ErrInternal, http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fake := &fakeAccounts{
				updateFn: func(ctx context.Context, userID string, req user.UpdateRequest) (user.User, error) {
					return user.User{}, tc.err
				},
			}

			h := handlers.NewUsersHandler(fake)

			c, w := testContext(jsonRequest(http.MethodPut, "/user", `{"firstName":"J"}`), "u1")
			h.Update(c)

			if w.Code != tc.want {
				t.Fatalf("status: got %d want %d", w.Code, tc.want)
			}
		})
	}
}

func TestDeleteOK(t *testing.T) {
	deleted := ""

	fake := &fakeAccounts{
		deleteFn: func(ctx context.Context, userID string) error {
			deleted = userID
			return nil
		},
	}

	h := handlers.NewUsersHandler(fake)

	c, w := testContext(httptest.NewRequest(http.MethodDelete, "/user", nil), "u1")
	h.Delete(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d", w.Code)
	}

	if deleted != "u1" {
		t.Fatalf("deleted principal: %q", deleted)
	}
}

func TestRefreshTokenOK(t *testing.T) {
	fake := &fakeAccounts{
		refreshFn: func(ctx context.Context, userID string) (string, error) {
			return "tok-2", nil
		},
	}

	h := handlers.NewUsersHandler(fake)

	c, w := testContext(httptest.NewRequest(http.MethodPost, "/user/refreshtoken", nil), "u1")
	h.RefreshToken(c)

	if w.Code != http.StatusOK {
		t.Fatalf("status: %d body=%s", w.Code, w.Body.String())
	}

	if !strings.Contains(w.Body.String(), "tok-2") {
		t.Fatalf("expected new token in body: %s", w.Body.String())
	}
}
