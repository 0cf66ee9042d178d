package handler_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"blogly/internal/db"
	"blogly/internal/handler"
	"blogly/internal/model"
	"blogly/internal/repository"
	"blogly/internal/router"
	"blogly/internal/service"
	"blogly/internal/view"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()
	dsn := "file:" + filepath.Join(t.TempDir(), "handler_test.db") + "?_foreign_keys=on"
	gdb, err := db.Open(db.Options{Driver: db.DriverSQLite, DSN: dsn})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(gdb, false, nil))
	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	log := slog.New(slog.DiscardHandler)
	uow := repository.NewUnitOfWork(gdb)
	users := service.NewUserService(repository.NewUserRepository(gdb), uow, log)
	posts := service.NewPostService(repository.NewPostRepository(gdb), uow, log)
	tags := service.NewTagService(repository.NewTagRepository(gdb), uow, log)

	renderer, err := view.NewRenderer()
	require.NoError(t, err)

	return router.New(log, renderer, router.Handlers{
		Users: handler.NewUserHandler(users),
		Posts: handler.NewPostHandler(posts, users, tags),
		Tags:  handler.NewTagHandler(tags),
	})
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func postForm(e *echo.Echo, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, to string) {
	t.Helper()
	assert.Equal(t, http.StatusFound, rec.Code, rec.Body.String())
	assert.Equal(t, to, rec.Header().Get(echo.HeaderLocation))
}

func seedUser(t *testing.T, e *echo.Echo, first, last string) {
	t.Helper()
	rec := postForm(e, "/users/new", url.Values{"first_name": {first}, "last_name": {last}})
	assertRedirect(t, rec, "/users")
}

func seedTag(t *testing.T, e *echo.Echo, name string) {
	t.Helper()
	rec := postForm(e, "/tags/new", url.Values{"tag_name": {name}})
	assertRedirect(t, rec, "/tags")
}

func TestUsers_CreateWithoutImageUsesPlaceholder(t *testing.T) {
	e := newTestServer(t)
	seedUser(t, e, "Ann", "Lee")

	rec := get(e, "/users")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Ann Lee")

	rec = get(e, "/users/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<h1>Ann Lee</h1>")
	assert.Contains(t, rec.Body.String(), model.DefaultImageURL)
}

func TestUsers_CreateMissingFirstName(t *testing.T) {
	e := newTestServer(t)

	rec := postForm(e, "/users/new", url.Values{"last_name": {"Lee"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "first_name is required")
	assert.Contains(t, rec.Body.String(), `value="Lee"`)

	rec = get(e, "/users/1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUsers_EditKeepsEmptyFields(t *testing.T) {
	e := newTestServer(t)
	seedUser(t, e, "Ann", "Lee")

	rec := postForm(e, "/users/1/edit", url.Values{"first_name": {"Anna"}, "last_name": {""}})
	assertRedirect(t, rec, "/users")

	rec = get(e, "/users/1")
	assert.Contains(t, rec.Body.String(), "<h1>Anna Lee</h1>")
}

func TestNotFound(t *testing.T) {
	e := newTestServer(t)

	for _, target := range []string{
		"/users/999", "/users/abc", "/users/0", "/users/999/edit", "/users/999/posts/new",
		"/posts/999", "/posts/999/edit", "/tags/999", "/tags/x/edit",
	} {
		t.Run(target, func(t *testing.T) {
			rec := get(e, target)
			assert.Equal(t, http.StatusNotFound, rec.Code)
			assert.Contains(t, rec.Body.String(), "<h1>404</h1>")
		})
	}

	rec := postForm(e, "/users/999/posts/new", url.Values{"title": {"T"}, "content": {"C"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPosts_CreateWithTag(t *testing.T) {
	e := newTestServer(t)
	seedUser(t, e, "Ann", "Lee")
	seedTag(t, e, "go")

	rec := get(e, "/users/1/posts/new")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="go"`)

	rec = postForm(e, "/users/1/posts/new", url.Values{
		"title": {"T1"}, "content": {"C1"}, "tag_keys": {"go"},
	})
	assertRedirect(t, rec, "/users/1")

	rec = get(e, "/posts/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "<h1>T1</h1>")
	assert.Contains(t, body, "C1")
	assert.Contains(t, body, "Ann Lee")
	assert.Contains(t, body, `href="/tags/1"`)

	rec = get(e, "/tags/1")
	assert.Contains(t, rec.Body.String(), `href="/posts/1"`)

	rec = get(e, "/users/1")
	assert.Contains(t, rec.Body.String(), `href="/posts/1"`)
}

func TestPosts_CreateUnknownTagAborts(t *testing.T) {
	e := newTestServer(t)
	seedUser(t, e, "Ann", "Lee")
	seedTag(t, e, "go")

	rec := postForm(e, "/users/1/posts/new", url.Values{
		"title": {"T1"}, "content": {"C1"}, "tag_keys": {"go", "nope"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="go" checked`)

	rec = get(e, "/posts/1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPosts_CreateMissingTitle(t *testing.T) {
	e := newTestServer(t)
	seedUser(t, e, "Ann", "Lee")

	rec := postForm(e, "/users/1/posts/new", url.Values{"content": {"C1"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "title is required")
}

func TestPosts_EditReplacesTags(t *testing.T) {
	e := newTestServer(t)
	seedUser(t, e, "Ann", "Lee")
	seedTag(t, e, "a")
	seedTag(t, e, "b")
	seedTag(t, e, "c")

	rec := postForm(e, "/users/1/posts/new", url.Values{
		"title": {"T1"}, "content": {"C1"}, "tag_keys": {"a", "b"},
	})
	assertRedirect(t, rec, "/users/1")

	rec = get(e, "/posts/1/edit")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `value="a" checked`)
	assert.NotContains(t, rec.Body.String(), `value="c" checked`)

	rec = postForm(e, "/posts/1/edit", url.Values{
		"title": {""}, "content": {"C2"}, "tag_keys": {"b", "c"},
	})
	assertRedirect(t, rec, "/posts/1")

	body := get(e, "/posts/1").Body.String()
	assert.Contains(t, body, "<h1>T1</h1>")
	assert.Contains(t, body, "C2")
	assert.NotContains(t, body, `href="/tags/1"`)
	assert.Contains(t, body, `href="/tags/2"`)
	assert.Contains(t, body, `href="/tags/3"`)
}

func TestPosts_Delete(t *testing.T) {
	e := newTestServer(t)
	seedUser(t, e, "Ann", "Lee")

	rec := postForm(e, "/users/1/posts/new", url.Values{"title": {"T1"}, "content": {"C1"}})
	assertRedirect(t, rec, "/users/1")

	assertRedirect(t, get(e, "/posts/1/delete"), "/users")
	assert.Equal(t, http.StatusNotFound, get(e, "/posts/1").Code)

	assertRedirect(t, postForm(e, "/posts/1/delete", nil), "/users")
}

func TestUsers_DeleteCascadesPosts(t *testing.T) {
	e := newTestServer(t)
	seedUser(t, e, "Ann", "Lee")
	seedTag(t, e, "go")

	rec := postForm(e, "/users/1/posts/new", url.Values{
		"title": {"T1"}, "content": {"C1"}, "tag_keys": {"go"},
	})
	assertRedirect(t, rec, "/users/1")

	assertRedirect(t, postForm(e, "/users/1/delete", nil), "/users")
	assert.Equal(t, http.StatusNotFound, get(e, "/users/1").Code)
	assert.Equal(t, http.StatusNotFound, get(e, "/posts/1").Code)
	assert.Equal(t, http.StatusOK, get(e, "/tags/1").Code)
}

func TestTags_DeleteKeepsPosts(t *testing.T) {
	e := newTestServer(t)
	seedUser(t, e, "Ann", "Lee")
	seedTag(t, e, "go")

	rec := postForm(e, "/users/1/posts/new", url.Values{
		"title": {"T1"}, "content": {"C1"}, "tag_keys": {"go"},
	})
	assertRedirect(t, rec, "/users/1")

	assertRedirect(t, postForm(e, "/tags/1/delete", nil), "/tags")
	assert.Equal(t, http.StatusNotFound, get(e, "/tags/1").Code)

	rec = get(e, "/posts/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), `href="/tags/1"`)
}

func TestTags_DuplicateName(t *testing.T) {
	e := newTestServer(t)
	seedTag(t, e, "go")
	seedTag(t, e, "web")

	rec := postForm(e, "/tags/new", url.Values{"tag_name": {"go"}})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = postForm(e, "/tags/2/edit", url.Values{"tag_name": {"go"}})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = postForm(e, "/tags/2/edit", url.Values{"tag_name": {""}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postForm(e, "/tags/2/edit", url.Values{"tag_name": {"golang"}})
	assertRedirect(t, rec, "/tags")
	assert.Contains(t, get(e, "/tags").Body.String(), "golang")
}

func TestHome_ShowsFiveMostRecent(t *testing.T) {
	e := newTestServer(t)
	seedUser(t, e, "Ann", "Lee")

	assert.Contains(t, get(e, "/").Body.String(), "No posts yet.")

	for _, title := range []string{"P1", "P2", "P3", "P4", "P5", "P6"} {
		rec := postForm(e, "/users/1/posts/new", url.Values{"title": {title}, "content": {"x"}})
		assertRedirect(t, rec, "/users/1")
	}

	rec := get(e, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.NotContains(t, body, `href="/posts/1"`)
	assert.Contains(t, body, `href="/posts/6"`)
	assert.Less(t, strings.Index(body, "P6"), strings.Index(body, "P2"))
}

func TestOpsEndpoints(t *testing.T) {
	e := newTestServer(t)

	rec := get(e, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	get(e, "/users")
	rec = get(e, "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "blogly_http_requests_total")

	rec = get(e, "/users")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}
