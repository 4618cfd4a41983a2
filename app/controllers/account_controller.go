package controllers

import (
	"net/http"

	"toyblog/app/middleware"
	"toyblog/app/models"
	"toyblog/app/services"

	"github.com/sirupsen/logrus"
)

// AccountController serves the signed-in user's profile page
type AccountController struct {
	accounts     *services.AccountService
	sessions     *services.SessionService
	views        *Renderer
	log          logrus.FieldLogger
	secureCookie bool
}

func NewAccountController(accounts *services.AccountService, sessions *services.SessionService, views *Renderer, log logrus.FieldLogger, secureCookie bool) *AccountController {
	return &AccountController{accounts: accounts, sessions: sessions, views: views, log: log, secureCookie: secureCookie}
}

// Show renders the profile along with any pending flash message
func (ac *AccountController) Show(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r.Context())
	user, err := ac.accounts.GetProfile(r.Context(), session.UserID)
	if err != nil {
		ac.accountError(w, r, err)
		return
	}

	flash, err := ac.sessions.PopFlash(r.Context(), session)
	if err != nil {
		logFailure(ac.log, r, "failed to read flash message", err)
	}
	ac.views.Render(w, r, http.StatusOK, "account", Page{
		Title: "Account",
		Flash: flash,
		Form:  profileValues(user.Profile()),
		Data:  user,
	})
}

// Update saves the profile and redirects back with a flash message
func (ac *AccountController) Update(w http.ResponseWriter, r *http.Request) {
	session := middleware.SessionFrom(r.Context())
	var in services.ProfileInput
	if err := decode(w, r, &in); err != nil {
		ac.accountError(w, r, err)
		return
	}

	if _, err := ac.accounts.UpdateProfile(r.Context(), session.UserID, in); err != nil {
		se, ok := services.AsError(err)
		if !ok || se.Kind != services.KindValidation {
			ac.accountError(w, r, err)
			return
		}
		ac.views.Render(w, r, http.StatusBadRequest, "account", Page{
			Title:  "Account",
			Error:  se.Message,
			Errors: se.Fields,
			Form:   se.Values,
			Data:   &models.User{Email: session.Email, Role: session.Role},
		})
		return
	}

	if err := ac.sessions.SetFlash(r.Context(), session, models.Flash{Type: "success", Message: "Account details saved."}); err != nil {
		logFailure(ac.log, r, "failed to set flash message", err)
	}
	http.Redirect(w, r, "/account", http.StatusFound)
}

// accountError sends users whose account vanished back to the login page.
func (ac *AccountController) accountError(w http.ResponseWriter, r *http.Request, err error) {
	switch services.KindOf(err) {
	case services.KindNotFound:
		middleware.ClearSessionCookie(w, ac.secureCookie)
		http.Redirect(w, r, "/login", http.StatusFound)
	case services.KindValidation:
		se, _ := services.AsError(err)
		ac.views.Render(w, r, http.StatusBadRequest, "account", Page{Title: "Account", Error: se.Message, Form: map[string]string{}})
	default:
		ac.views.Failure(w, r, "failed to load account", err)
	}
}

func profileValues(p models.Profile) map[string]string {
	return map[string]string{"firstName": p.FirstName, "lastName": p.LastName, "phone": p.Phone}
}
