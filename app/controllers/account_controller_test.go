package controllers

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"toyblog/app/logging"
	"toyblog/app/models"
	"toyblog/app/repositories/mock"
	"toyblog/app/services"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
)

func setupAccountRouter(t *testing.T) (*mux.Router, *testEnv) {
	t.Helper()
	env := newTestEnv(t)
	controller := NewAccountController(services.NewAccountService(env.userRepo), env.sessions, env.views, logging.Discard(), false)

	router := mux.NewRouter()
	router.HandleFunc("/account", controller.Show).Methods("GET")
	router.HandleFunc("/account", controller.Update).Methods("POST")
	return router, env
}

func TestAccountController(t *testing.T) {
	router, env := setupAccountRouter(t)
	withSession := env.signIn(t, "parent@example.com", models.RoleUser)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, withSession(httptest.NewRequest("GET", "/account", nil)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "parent@example.com")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, withSession(formRequest("POST", "/account", url.Values{
		"firstName": {"Pat"}, "lastName": {"Lee"}, "phone": {"+1 555 0100"},
	})))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/account", w.Header().Get("Location"))

	w = httptest.NewRecorder()
	router.ServeHTTP(w, withSession(httptest.NewRequest("GET", "/account", nil)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Account details saved.")
	assert.Contains(t, w.Body.String(), `value="Pat"`)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, withSession(httptest.NewRequest("GET", "/account", nil)))
	assert.NotContains(t, w.Body.String(), "Account details saved.")

	w = httptest.NewRecorder()
	router.ServeHTTP(w, withSession(formRequest("POST", "/account", url.Values{"phone": {"not a phone"}})))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Phone must be a valid phone number")
}

func TestAccountControllerMissingUser(t *testing.T) {
	env := newTestEnv(t)
	withSession := env.signIn(t, "ghost@example.com", models.RoleUser)
	controller := NewAccountController(services.NewAccountService(mock.NewUserRepository()), env.sessions, env.views, logging.Discard(), false)

	w := httptest.NewRecorder()
	controller.Show(w, withSession(httptest.NewRequest("GET", "/account", nil)))
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}
