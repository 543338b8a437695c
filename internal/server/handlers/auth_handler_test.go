package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func doAuth(h *Handler, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	switch path {
	case "/auth/register":
		h.Register(rec, req)
	case "/auth/login":
		h.Login(rec, req)
	}
	return rec
}

func TestRegister(t *testing.T) {
	h, _ := newTestHandler(&fakeGenerator{})

	rec := doAuth(h, "/auth/register", `{"name":"Aki","email":"aki@example.com","password":"longenough"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
	}

	var resp sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Token == "" || resp.User.ID == "" {
		t.Errorf("resp = %+v", resp)
	}
	// パスワードハッシュはレスポンスに含まれないこと
	if strings.Contains(rec.Body.String(), "password") {
		t.Errorf("password material leaked: %s", rec.Body.String())
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	h, _ := newTestHandler(&fakeGenerator{})
	body := `{"name":"Aki","email":"aki@example.com","password":"longenough"}`

	if rec := doAuth(h, "/auth/register", body); rec.Code != http.StatusCreated {
		t.Fatalf("first register failed: %d", rec.Code)
	}
	if rec := doAuth(h, "/auth/register", body); rec.Code != http.StatusConflict {
		t.Fatalf("code = %d, want 409", rec.Code)
	}
}

func TestRegisterValidation(t *testing.T) {
	h, _ := newTestHandler(&fakeGenerator{})

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"name":`},
		{"missing name", `{"email":"a@example.com","password":"longenough"}`},
		{"bad email", `{"name":"Aki","email":"not-an-email","password":"longenough"}`},
		{"short password", `{"name":"Aki","email":"a@example.com","password":"short"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if rec := doAuth(h, "/auth/register", tt.body); rec.Code != http.StatusBadRequest {
				t.Errorf("code = %d, want 400", rec.Code)
			}
		})
	}
}

func TestLogin(t *testing.T) {
	h, _ := newTestHandler(&fakeGenerator{})
	register := `{"name":"Aki","email":"aki@example.com","password":"longenough"}`
	if rec := doAuth(h, "/auth/register", register); rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d", rec.Code)
	}

	rec := doAuth(h, "/auth/login", `{"email":"aki@example.com","password":"longenough"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("code = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp sessionResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.Token == "" {
		t.Error("token missing")
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	h, _ := newTestHandler(&fakeGenerator{})
	register := `{"name":"Aki","email":"aki@example.com","password":"longenough"}`
	if rec := doAuth(h, "/auth/register", register); rec.Code != http.StatusCreated {
		t.Fatalf("register failed: %d", rec.Code)
	}

	// 未登録メールとパスワード不一致は同じ 401 を返すこと
	for _, body := range []string{
		`{"email":"aki@example.com","password":"wrongpassword"}`,
		`{"email":"nobody@example.com","password":"longenough"}`,
	} {
		if rec := doAuth(h, "/auth/login", body); rec.Code != http.StatusUnauthorized {
			t.Errorf("code = %d, want 401 for %s", rec.Code, body)
		}
	}
}
