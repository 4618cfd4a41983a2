package routes

import (
	"io/fs"
	"net/http"

	"toyblog/app/controllers"
	"toyblog/app/middleware"

	"github.com/go-chi/cors"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Controllers groups the already-constructed controllers the router binds.
type Controllers struct {
	Blog    *controllers.BlogController
	Comment *controllers.CommentController
	Auth    *controllers.AuthController
	Account *controllers.AccountController
	Pages   *controllers.PagesController
	Health  *controllers.HealthController
}

// Options configures the middleware chain.
type Options struct {
	Log            logrus.FieldLogger
	Sessions       middleware.SessionResolver
	SecureCookie   bool
	AllowedOrigins []string
	Static         fs.FS
}

// NewRouter wires every route and the global middleware chain.
func NewRouter(c Controllers, opts Options) http.Handler {
	router := mux.NewRouter()

	loadSession := middleware.Session(opts.Sessions, opts.SecureCookie)
	router.Use(middleware.Recoverer(opts.Log))
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(opts.Log))
	router.Use(middleware.Metrics)
	router.Use(loadSession)

	api := router.PathPrefix("/api").Subrouter()
	api.Use(middleware.ContentTypeJSON)

	RegisterPageRoutes(router, c.Pages)
	RegisterAuthRoutes(router, c.Auth)
	RegisterAccountRoutes(router, c.Account, c.Pages)
	RegisterBlogRoutes(router, c.Blog)
	RegisterCommentRoutes(api, c.Comment)
	RegisterSystemRoutes(router, c.Health)
	if opts.Static != nil {
		RegisterStaticRoutes(router, opts.Static)
	}

	router.NotFoundHandler = middleware.RequestID(loadSession(http.HandlerFunc(c.Pages.NotFound)))

	if len(opts.AllowedOrigins) == 0 {
		return router
	}
	return cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", middleware.RequestIDHeader},
		ExposedHeaders:   []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           300,
	})(router)
}

// RegisterBlogRoutes binds the blog pages. /blog/create is registered before
// /blog/{id} so it is not captured as an id.
func RegisterBlogRoutes(r *mux.Router, bc *controllers.BlogController) {
	admin := func(h http.HandlerFunc) http.Handler { return middleware.RequireAdmin(h) }

	r.HandleFunc("/blog", bc.Index).Methods("GET")
	r.Handle("/blog/create", admin(bc.New)).Methods("GET")
	r.Handle("/blog/create", admin(bc.Create)).Methods("POST")
	r.HandleFunc("/blog/{id}", bc.Show).Methods("GET")
	r.Handle("/blog/{id}", admin(bc.Delete)).Methods("DELETE")
	r.Handle("/blog/{id}/edit", admin(bc.Edit)).Methods("GET")
	r.Handle("/blog/{id}/edit", admin(bc.Update)).Methods("POST")
	r.HandleFunc("/blog/{id}/exists", bc.Exists).Methods("GET")
}

// RegisterCommentRoutes binds the comment API on the /api subrouter.
func RegisterCommentRoutes(api *mux.Router, cc *controllers.CommentController) {
	comments := api.PathPrefix("/blog/{postId}/comments").Subrouter()
	comments.HandleFunc("", cc.List).Methods("GET")
	comments.HandleFunc("", cc.Create).Methods("POST")
	comments.HandleFunc("/{commentId}/replies", cc.Reply).Methods("POST")
	comments.HandleFunc("/{commentId}", cc.Update).Methods("PUT")
	comments.HandleFunc("/{commentId}", cc.Delete).Methods("DELETE")
}

func RegisterAuthRoutes(r *mux.Router, ac *controllers.AuthController) {
	r.HandleFunc("/login", ac.LoginForm).Methods("GET")
	r.HandleFunc("/login", ac.Login).Methods("POST")
	r.HandleFunc("/register", ac.RegisterForm).Methods("GET")
	r.HandleFunc("/register", ac.Register).Methods("POST")
	r.HandleFunc("/logout", ac.Logout).Methods("GET", "POST")
}

// RegisterAccountRoutes binds the pages that need a signed-in user.
func RegisterAccountRoutes(r *mux.Router, ac *controllers.AccountController, pc *controllers.PagesController) {
	r.Handle("/account", middleware.RequireAuth(http.HandlerFunc(ac.Show))).Methods("GET")
	r.Handle("/account", middleware.RequireAuth(http.HandlerFunc(ac.Update))).Methods("POST")
	r.Handle("/dashboard", middleware.RequireAuth(http.HandlerFunc(pc.Dashboard))).Methods("GET")
	r.Handle("/admin", middleware.RequireAdmin(http.HandlerFunc(pc.AdminRedirect))).Methods("GET")
}

func RegisterPageRoutes(r *mux.Router, pc *controllers.PagesController) {
	r.Handle("/", pc.Home()).Methods("GET")
	r.Handle("/toys", pc.Toys()).Methods("GET")
	r.Handle("/toy-rent", pc.ToyRent()).Methods("GET")
	r.Handle("/contact", pc.Contact()).Methods("GET")
	r.Handle("/services", pc.Services()).Methods("GET")
}

// RegisterSystemRoutes binds the metrics and health endpoints.
func RegisterSystemRoutes(r *mux.Router, hc *controllers.HealthController) {
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	r.HandleFunc("/healthz", hc.Health).Methods("GET")
}

// RegisterStaticRoutes serves css and js under /static/ and images under /images/.
func RegisterStaticRoutes(r *mux.Router, fsys fs.FS) {
	files := http.FileServer(http.FS(fsys))
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", files)).Methods("GET", "HEAD")
	r.PathPrefix("/images/").Handler(files).Methods("GET", "HEAD")
}
