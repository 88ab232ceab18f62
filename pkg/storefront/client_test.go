package storefront

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)
	return NewClient(DefaultConfig().WithBaseURL(ts.URL), nil)
}

func TestRequest_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		w.WriteHeader(http.StatusNoContent)
	})
	c.SetTokenSource(TokenSourceFunc(func() string { return "tok-123" }))

	if err := c.Get(context.Background(), "/api/games", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer tok-123")
	}
	if gotRequestID == "" {
		t.Error("X-Request-ID header missing")
	}
}

func TestRequest_NoTokenNoHeader(t *testing.T) {
	var gotAuth string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	})

	if err := c.Get(context.Background(), "/", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if gotAuth != "" {
		t.Errorf("Authorization = %q, want empty", gotAuth)
	}
}

func TestRequest_UnauthorizedInvokesHandler(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	cleared := false
	c.SetUnauthorizedHandler(func() { cleared = true })

	err := c.Get(context.Background(), "/api/cart", nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("error = %v, want ErrUnauthorized", err)
	}
	if !cleared {
		t.Error("unauthorized handler was not invoked")
	}
}

func TestRequest_ErrorMessageFromBody(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"message":"Game not found"}`))
	})

	err := c.Get(context.Background(), "/api/games/99", nil)
	if err == nil {
		t.Fatal("expected error")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T, want *StatusError", err)
	}
	if se.StatusCode != http.StatusNotFound || se.Message != "Game not found" {
		t.Errorf("StatusError = %+v", se)
	}
	if !IsNotFound(err) {
		t.Error("IsNotFound() = false, want true")
	}
}

func TestRequest_ErrorFallbackMessage(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("<html>boom</html>"))
	})

	err := c.Get(context.Background(), "/", nil)
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T, want *StatusError", err)
	}
	if se.Message != "request failed with status 500" {
		t.Errorf("Message = %q", se.Message)
	}
}

func TestRequest_EmptyBodyIsNullResult(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK) // 200 with zero-length body
	})

	var out map[string]any
	if err := c.Get(context.Background(), "/", &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if out != nil {
		t.Errorf("out = %v, want untouched nil", out)
	}
}

func TestRequest_JSONDecoded(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"title":"Portal"}`))
	})

	var out struct {
		Title string `json:"title"`
	}
	if err := c.Get(context.Background(), "/", &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if out.Title != "Portal" {
		t.Errorf("Title = %q, want Portal", out.Title)
	}
}

func TestRequest_NonJSONBodyAsText(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("pong"))
	})

	var out string
	if err := c.Get(context.Background(), "/ping", &out); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if out != "pong" {
		t.Errorf("out = %q, want pong", out)
	}
}

func TestRequest_MethodAndBody(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody []byte
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody = make([]byte, r.ContentLength)
		r.Body.Read(gotBody)
		w.WriteHeader(http.StatusNoContent)
	})

	err := c.Post(context.Background(), "/api/cart/items", map[string]int{"gameId": 7, "quantity": 1}, nil)
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	if gotMethod != http.MethodPost {
		t.Errorf("method = %s", gotMethod)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type = %s", gotContentType)
	}
	if string(gotBody) != `{"gameId":7,"quantity":1}` {
		t.Errorf("body = %s", gotBody)
	}
}

func TestCheckout_EmptyCart(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Cart is empty"}`))
	})

	_, err := c.Checkout(context.Background())
	if !errors.Is(err, ErrEmptyCart) {
		t.Errorf("error = %v, want ErrEmptyCart", err)
	}
}

func TestLogin_RequiresToken(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1,"username":"alice"}`)) // no token field
	})

	_, err := c.Login(context.Background(), "alice", "pw")
	if !errors.Is(err, ErrNoToken) {
		t.Errorf("error = %v, want ErrNoToken", err)
	}
}
