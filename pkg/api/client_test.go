package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, StaticToken("test-token"), 5*time.Second)
}

func TestBearerHeaderAttached(t *testing.T) {
	var gotAuth, gotType string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotType = r.Header.Get("Content-Type")
		w.Write([]byte(`{"success":true,"users":[],"pagination":{}}`))
	})

	_, err := c.GetUsers(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Equal(t, "Bearer test-token", gotAuth)
	assert.Equal(t, "application/json", gotType)
}

func TestEmptyTokenOmitsHeader(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true,"users":[]}`))
	}))
	defer srv.Close()

	c := New(srv.URL, StaticToken(""), 5*time.Second)
	_, err := c.GetUsers(context.Background(), ListParams{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuccessFalseIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"message":"user not found"}`))
	})

	_, err := c.GetUser(context.Background(), "u1")
	require.Error(t, err)
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "user not found", ae.Message)
	assert.Equal(t, http.StatusBadRequest, ae.Status)
}

func TestNonOKStatusIsError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"boom"}`))
	})

	_, err := c.GetUserStats(context.Background())
	var ae *APIError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, http.StatusInternalServerError, ae.Status)
	assert.Equal(t, "boom", ae.Message)
}

func TestUnauthorizedDetection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	})

	_, err := c.GetUsers(context.Background(), ListParams{})
	assert.True(t, IsUnauthorized(err))

	assert.False(t, IsUnauthorized(nil))
	assert.False(t, IsUnauthorized(context.Canceled))
}

func TestTopLevelPayloadShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"users":[{"id":"u1","name":"Asha"}],"pagination":{"current":1,"pages":1,"total":1}}`))
	})

	list, err := c.GetUsers(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Len(t, list.Users, 1)
	assert.Equal(t, "Asha", list.Users[0].Name)
	assert.Equal(t, 1, list.Pagination.Total)
}

func TestDataNestedPayloadShape(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"users":[{"id":"u2","name":"Bina"}],"pagination":{"current":2,"pages":3,"total":25}}}`))
	})

	list, err := c.GetUsers(context.Background(), ListParams{})
	require.NoError(t, err)
	require.Len(t, list.Users, 1)
	assert.Equal(t, "Bina", list.Users[0].Name)
	assert.Equal(t, 25, list.Pagination.Total)
}

func TestListParamsQueryBuilding(t *testing.T) {
	var got string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.RawQuery
		w.Write([]byte(`{"success":true,"users":[]}`))
	})

	_, err := c.GetUsers(context.Background(), ListParams{Page: 2, Limit: 10, Status: "active"})
	require.NoError(t, err)
	assert.Contains(t, got, "page=2")
	assert.Contains(t, got, "limit=10")
	assert.Contains(t, got, "status=active")
	// Undefined params never appear.
	assert.NotContains(t, got, "search")
	assert.NotContains(t, got, "kycStatus")
}

func TestRejectSendsReasonBody(t *testing.T) {
	var body []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"success":true}`))
	})

	require.NoError(t, c.RejectKYC(context.Background(), "k1", "document unreadable"))
	assert.Contains(t, string(body), "document unreadable")
}

func TestUploadUsesMultipart(t *testing.T) {
	var ct string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		ct = r.Header.Get("Content-Type")
		w.Write([]byte(`{"success":true,"qrImageUrl":"/uploads/qr.png"}`))
	})

	url, err := c.UploadPaymentQR(context.Background(), "qr.png", nil)
	require.NoError(t, err)
	assert.Contains(t, ct, "multipart/form-data; boundary=")
	assert.Equal(t, "/uploads/qr.png", url)
}

func TestFileTokenRereadsPerRequest(t *testing.T) {
	path := t.TempDir() + "/token"
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o600))
	src := FileToken{Path: path}
	assert.Equal(t, "first", src.Token())

	require.NoError(t, os.WriteFile(path, []byte("second\n"), 0o600))
	assert.Equal(t, "second", src.Token())
}

func TestCreateUserPostsDraft(t *testing.T) {
	var method, path string
	var body []byte
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		method, path = r.Method, r.URL.Path
		body, _ = io.ReadAll(r.Body)
		w.Write([]byte(`{"success":true,"user":{"id":"u9","name":"Asha","email":"asha@example.com"}}`))
	})

	u, err := c.CreateUser(context.Background(), UserDraft{
		Name: "Asha", Email: "asha@example.com", Phone: "9876543210",
	})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPost, method)
	assert.Equal(t, "/users", path)
	assert.Contains(t, string(body), `"asha@example.com"`)
	assert.Contains(t, string(body), `"9876543210"`)
	require.NotNil(t, u)
	assert.Equal(t, "u9", u.ID)
}

func TestCreateUserToleratesMissingEcho(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true}`))
	})

	u, err := c.CreateUser(context.Background(), UserDraft{Name: "Asha", Email: "a@b.c"})
	require.NoError(t, err)
	assert.Nil(t, u)
}
