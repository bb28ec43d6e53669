package ez

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"admin-dashboard/internal/core/kv"
	"admin-dashboard/internal/domain"
	"admin-dashboard/internal/service"
	resp "admin-dashboard/internal/transport/http/response"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func do(t *testing.T, h http.Handler, method, path, body string) envelope {
	t.Helper()
	var r *http.Request
	if body != "" {
		r = httptest.NewRequest(method, path, strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
	} else {
		r = httptest.NewRequest(method, path, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	require.Equal(t, http.StatusOK, w.Code, "status is always 200")
	var e envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e), w.Body.String())
	return e
}

func TestCodeOf(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{BadRequest("bad"), resp.CodeBadRequest},
		{fmt.Errorf("wrap: %w", Forbidden("no")), resp.CodeForbidden},
		{fmt.Errorf("%w: invoice", domain.ErrNotFound), resp.CodeNotFound},
		{fmt.Errorf("%w: dup", domain.ErrConflict), resp.CodeConflict},
		{kv.ErrContention, resp.CodeConflict},
		{fmt.Errorf("%w: x", domain.ErrInvalid), resp.CodeBadRequest},
		{domain.ErrForbidden, resp.CodeForbidden},
		{domain.ErrUnauthorized, resp.CodeUnauthorized},
		{context.DeadlineExceeded, resp.CodeTimeout},
		{errors.New("disk on fire"), resp.CodeServerError},
	}
	for _, tc := range cases {
		code, _ := CodeOf(tc.err)
		assert.Equal(t, tc.code, code, tc.err.Error())
	}

	_, msg := CodeOf(errors.New("secret detail"))
	assert.Equal(t, "internal error", msg)
}

func TestPaginate(t *testing.T) {
	list := []int{1, 2, 3, 4, 5}

	p := Paginate(list, 2, 2)
	assert.Equal(t, []int{3, 4}, p.List)
	assert.Equal(t, 5, p.Total)

	p = Paginate(list, 9, 2)
	assert.Empty(t, p.List)
	assert.NotNil(t, p.List)

	p = Paginate(list, 0, 500)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 20, p.Size)
	assert.Len(t, p.List, 5)
}

func newCrudEngine(t *testing.T) (*gin.Engine, *int) {
	t.Helper()
	svc := service.NewNotificationsService(service.Deps{Store: kv.NewMemory()})
	changes := 0
	r := gin.New()
	Crud(CrudConfig[*domain.Notification, service.NotificationInput, service.NotificationPatch, domain.NotificationStats]{
		Group:    r.Group("/api"),
		Path:     "/notifications",
		Store:    svc,
		Create:   svc.Create,
		Update:   svc.Update,
		Stats:    svc.Stats,
		Reset:    svc.Reset,
		OnChange: func(context.Context) { changes++ },
	})
	return r, &changes
}

func TestCrud_ListCreateAndScopes(t *testing.T) {
	r, changes := newCrudEngine(t)

	e := do(t, r, http.MethodGet, "/api/notifications", "")
	require.Equal(t, resp.CodeOK, e.Code)
	var page resp.Page[domain.Notification]
	require.NoError(t, json.Unmarshal(e.Data, &page))
	assert.Equal(t, 2, page.Total)

	e = do(t, r, http.MethodPost, "/api/notifications", `{"title":"Deploy finished","type":"success"}`)
	require.Equal(t, resp.CodeOK, e.Code, e.Msg)
	var created domain.Notification
	require.NoError(t, json.Unmarshal(e.Data, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, 1, *changes)

	e = do(t, r, http.MethodGet, "/api/notifications?q=deploy", "")
	require.NoError(t, json.Unmarshal(e.Data, &page))
	assert.Equal(t, 1, page.Total)

	e = do(t, r, http.MethodGet, "/api/notifications?q=deploy&scope=all", "")
	assert.Equal(t, resp.CodeBadRequest, e.Code)

	e = do(t, r, http.MethodGet, "/api/notifications?scope=gone", "")
	assert.Equal(t, resp.CodeBadRequest, e.Code)

	e = do(t, r, http.MethodGet, "/api/notifications?page=2&size=2", "")
	require.NoError(t, json.Unmarshal(e.Data, &page))
	assert.Equal(t, 3, page.Total)
	assert.Len(t, page.List, 1)
}

func TestCrud_Errors(t *testing.T) {
	r, changes := newCrudEngine(t)

	assert.Equal(t, resp.CodeBadRequest, do(t, r, http.MethodPost, "/api/notifications", `{"title":`).Code)
	assert.Equal(t, resp.CodeBadRequest, do(t, r, http.MethodPost, "/api/notifications", `{"message":"no title"}`).Code)
	assert.Equal(t, resp.CodeNotFound, do(t, r, http.MethodGet, "/api/notifications/nope", "").Code)
	assert.Equal(t, resp.CodeNotFound, do(t, r, http.MethodPut, "/api/notifications/nope", `{"title":"x"}`).Code)
	assert.Equal(t, resp.CodeNotFound, do(t, r, http.MethodDelete, "/api/notifications/nope/permanent", "").Code)
	assert.Equal(t, 0, *changes)
}

func TestCrud_DeleteRestorePermanent(t *testing.T) {
	r, changes := newCrudEngine(t)
	var page resp.Page[domain.Notification]

	e := do(t, r, http.MethodDelete, "/api/notifications/ntf-1", "")
	require.Equal(t, resp.CodeOK, e.Code)
	var n domain.Notification
	require.NoError(t, json.Unmarshal(e.Data, &n))
	assert.True(t, n.IsDeleted)

	e = do(t, r, http.MethodGet, "/api/notifications?scope=deleted", "")
	require.NoError(t, json.Unmarshal(e.Data, &page))
	assert.Equal(t, 1, page.Total)

	e = do(t, r, http.MethodGet, "/api/notifications?scope=all", "")
	require.NoError(t, json.Unmarshal(e.Data, &page))
	assert.Equal(t, 2, page.Total)

	e = do(t, r, http.MethodPost, "/api/notifications/ntf-1/restore", "")
	require.Equal(t, resp.CodeOK, e.Code)

	e = do(t, r, http.MethodDelete, "/api/notifications/ntf-1/permanent", "")
	require.Equal(t, resp.CodeOK, e.Code)
	assert.Equal(t, resp.CodeNotFound, do(t, r, http.MethodGet, "/api/notifications/ntf-1", "").Code)

	e = do(t, r, http.MethodGet, "/api/notifications/stats", "")
	require.Equal(t, resp.CodeOK, e.Code)
	var st domain.NotificationStats
	require.NoError(t, json.Unmarshal(e.Data, &st))
	assert.Equal(t, 1, st.Total)

	e = do(t, r, http.MethodPost, "/api/notifications/reset", "")
	require.Equal(t, resp.CodeOK, e.Code)
	assert.Equal(t, 4, *changes)
}

func TestRegisterAction_AuthAndRoles(t *testing.T) {
	type helloIn struct {
		Name string `json:"name" binding:"required"`
	}
	r := gin.New()
	g := r.Group("/")
	g.Use(func(c *gin.Context) {
		if uid := c.GetHeader("X-User"); uid != "" {
			c.Set(KeyUserID, uid)
			c.Set(KeyRole, c.GetHeader("X-Role"))
		}
	})
	RegisterAction(New(g), Action[helloIn, gin.H]{
		Method: http.MethodPost,
		Path:   "/hello",
		Binder: BindJSON,
		Auth:   true,
		Roles:  []string{"admin"},
		Handler: func(c *gin.Context, in *helloIn) (gin.H, error) {
			if in.Name == "boom" {
				return nil, errors.New("kaboom")
			}
			return gin.H{"hi": in.Name}, nil
		},
	})

	call := func(user, role, body string) envelope {
		req := httptest.NewRequest(http.MethodPost, "/hello", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-User", user)
		req.Header.Set("X-Role", role)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		var e envelope
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &e))
		return e
	}

	assert.Equal(t, resp.CodeUnauthorized, call("", "", `{"name":"a"}`).Code)
	assert.Equal(t, resp.CodeForbidden, call("u1", "viewer", `{"name":"a"}`).Code)
	assert.Equal(t, resp.CodeBadRequest, call("u1", "admin", `{}`).Code)
	assert.Equal(t, resp.CodeServerError, call("u1", "admin", `{"name":"boom"}`).Code)

	e := call("u1", "admin", `{"name":"ada"}`)
	assert.Equal(t, resp.CodeOK, e.Code)
	assert.JSONEq(t, `{"hi":"ada"}`, string(e.Data))
}
