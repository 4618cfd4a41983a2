package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"toyblog/app/logging"
	"toyblog/app/models"
	"toyblog/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupBlogRouter(t *testing.T) (*mux.Router, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	controller := NewBlogController(services.NewBlogService(env.blogRepo), env.views, logging.Discard())

	router := mux.NewRouter()
	router.HandleFunc("/blog", controller.Index).Methods("GET")
	router.HandleFunc("/blog/create", controller.New).Methods("GET")
	router.HandleFunc("/blog/create", controller.Create).Methods("POST")
	router.HandleFunc("/blog/{id}", controller.Show).Methods("GET")
	router.HandleFunc("/blog/{id}/edit", controller.Edit).Methods("GET")
	router.HandleFunc("/blog/{id}/edit", controller.Update).Methods("POST")
	router.HandleFunc("/blog/{id}", controller.Delete).Methods("DELETE")
	router.HandleFunc("/blog/{id}/exists", controller.Exists).Methods("GET")
	return router, env
}

func createPost(t *testing.T, router *mux.Router, title string) string {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, formRequest("POST", "/blog/create", url.Values{
		"title":   {title},
		"snippet": {"s"},
		"body":    {"b"},
	}))
	require.Equal(t, http.StatusFound, w.Code, w.Body.String())
	location := w.Header().Get("Location")
	require.Regexp(t, `^/blog/[0-9a-f]{24}$`, location)
	return location[len("/blog/"):]
}

func TestBlogController(t *testing.T) {
	router, _ := setupBlogRouter(t)

	t.Run("create then show", func(t *testing.T) {
		id := createPost(t, router, "Hello World Post")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/blog/"+id, nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Hello World Post")
		assert.Contains(t, w.Body.String(), models.DefaultAuthor)
	})

	t.Run("create with missing fields re-renders the form", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest("POST", "/blog/create", url.Values{
			"title": {"  My draft  "},
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Title, snippet and body are required")
		assert.Contains(t, w.Body.String(), `value="  My draft  "`)
	})

	t.Run("create with short title", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, formRequest("POST", "/blog/create", url.Values{
			"title": {"abc"}, "snippet": {"s"}, "body": {"b"},
		}))
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Title must be at least 5 characters long")
	})

	t.Run("new form", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/blog/create", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `action="/blog/create"`)
	})

	t.Run("show missing post", func(t *testing.T) {
		for _, id := range []string{models.NewID(), "not-an-id"} {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/blog/"+id, nil))
			assert.Equal(t, http.StatusNotFound, w.Code)
		}
	})

	t.Run("index lists posts newest first", func(t *testing.T) {
		createPost(t, router, "Newest post here")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/blog", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		body := w.Body.String()
		assert.Less(t, strings.Index(body, "Newest post here"), strings.Index(body, "Hello World Post"))
	})
}

func TestBlogControllerEdit(t *testing.T) {
	router, _ := setupBlogRouter(t)
	id := createPost(t, router, "Original title")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/blog/"+id+"/edit", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `value="Original title"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, formRequest("POST", "/blog/"+id+"/edit", url.Values{
		"title": {"Updated title"}, "snippet": {"s2"}, "body": {"b2"},
	}))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/blog/"+id, w.Header().Get("Location"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, formRequest("POST", "/blog/"+id+"/edit", url.Values{"title": {"Updated title"}}))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, formRequest("POST", "/blog/"+models.NewID()+"/edit", url.Values{
		"title": {"Updated title"}, "snippet": {"s2"}, "body": {"b2"},
	}))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/blog/"+models.NewID()+"/edit", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBlogControllerDeleteAndExists(t *testing.T) {
	router, _ := setupBlogRouter(t)
	id := createPost(t, router, "Soon to be gone")

	exists := func(id string) bool {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/blog/"+id+"/exists", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Exists bool `json:"exists"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		return body.Exists
	}
	assert.True(t, exists(id))
	assert.False(t, exists("garbage"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/blog/"+id, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"redirectUrl":"/blog"}`, string(env.Data))

	assert.False(t, exists(id))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/blog/"+id, nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Blog post not found", decodeEnvelope(t, w).Message)
}

func TestBlogControllerStoreFailure(t *testing.T) {
	router, env := setupBlogRouter(t)
	env.blogRepo.Err = errors.New("connection reset")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/blog", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("DELETE", "/blog/"+models.NewID(), nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	body := decodeEnvelope(t, w)
	assert.False(t, body.Success)
	assert.Equal(t, "Failed to delete blog post", body.Message)
}
