package controllers

import (
	"net/http"

	"toyblog/app/middleware"
	"toyblog/app/models"
	"toyblog/app/services"

	"github.com/sirupsen/logrus"
)

// AuthController handles sign-up, sign-in and sign-out
type AuthController struct {
	auth         *services.AuthService
	sessions     *services.SessionService
	views        *Renderer
	log          logrus.FieldLogger
	secureCookie bool
}

func NewAuthController(auth *services.AuthService, sessions *services.SessionService, views *Renderer, log logrus.FieldLogger, secureCookie bool) *AuthController {
	return &AuthController{auth: auth, sessions: sessions, views: views, log: log, secureCookie: secureCookie}
}

func (ac *AuthController) LoginForm(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFrom(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	ac.views.Render(w, r, http.StatusOK, "login", Page{Title: "Sign in", Form: map[string]string{}})
}

func (ac *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var in services.LoginInput
	if err := decode(w, r, &in); err != nil {
		ac.formError(w, r, "login", "Sign in", err)
		return
	}
	user, err := ac.auth.Login(r.Context(), in)
	if err != nil {
		ac.formError(w, r, "login", "Sign in", err)
		return
	}
	ac.startSession(w, r, user)
}

func (ac *AuthController) RegisterForm(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFrom(r.Context()) != nil {
		http.Redirect(w, r, "/", http.StatusFound)
		return
	}
	ac.views.Render(w, r, http.StatusOK, "register", Page{Title: "Create account", Form: map[string]string{}})
}

// Register creates the account and signs the new user in
func (ac *AuthController) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decode(w, r, &in); err != nil {
		ac.formError(w, r, "register", "Create account", err)
		return
	}
	user, err := ac.auth.Register(r.Context(), in)
	if err != nil {
		ac.formError(w, r, "register", "Create account", err)
		return
	}
	ac.log.WithField("user_id", user.ID).Info("user registered")
	ac.startSession(w, r, user)
}

// Logout revokes the session and clears the cookie
func (ac *AuthController) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		if err := ac.sessions.End(r.Context(), cookie.Value); err != nil {
			logFailure(ac.log, r, "failed to end session", err)
		}
	}
	middleware.ClearSessionCookie(w, ac.secureCookie)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (ac *AuthController) startSession(w http.ResponseWriter, r *http.Request, user *models.User) {
	token, _, err := ac.sessions.Start(r.Context(), user)
	if err != nil {
		ac.views.Failure(w, r, "failed to start session", err)
		return
	}
	middleware.SetSessionCookie(w, token, int(ac.sessions.TTL().Seconds()), ac.secureCookie)
	http.Redirect(w, r, "/", http.StatusFound)
}

// formError re-renders an auth form with a 400 for bad input, or the error page.
func (ac *AuthController) formError(w http.ResponseWriter, r *http.Request, name, title string, err error) {
	se, ok := services.AsError(err)
	if !ok || se.Kind != services.KindValidation {
		ac.views.Failure(w, r, "authentication failed", err)
		return
	}
	form := se.Values
	if form == nil {
		form = map[string]string{}
	}
	ac.views.Render(w, r, http.StatusBadRequest, name, Page{
		Title:  title,
		Error:  se.Message,
		Errors: se.Fields,
		Form:   form,
	})
}
