package controllers

import (
	"net/http"

	"toyblog/app/models"
	"toyblog/app/services"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// BlogController handles HTTP requests for blog posts
type BlogController struct {
	blogs *services.BlogService
	views *Renderer
	log   logrus.FieldLogger
}

// NewBlogController creates a new BlogController
func NewBlogController(blogs *services.BlogService, views *Renderer, log logrus.FieldLogger) *BlogController {
	return &BlogController{blogs: blogs, views: views, log: log}
}

// blogForm is the data behind the create and edit forms.
type blogForm struct {
	Action string
	Submit string
}

// Index lists all posts, newest first
func (bc *BlogController) Index(w http.ResponseWriter, r *http.Request) {
	posts, err := bc.blogs.ListBlogs(r.Context())
	if err != nil {
		bc.views.Failure(w, r, "failed to list blog posts", err)
		return
	}
	bc.views.Render(w, r, http.StatusOK, "blog_index", Page{Title: "Blog", Data: posts})
}

// Show displays a single post
func (bc *BlogController) Show(w http.ResponseWriter, r *http.Request) {
	post, err := bc.blogs.GetBlogByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		bc.pageError(w, r, err, "failed to load blog post")
		return
	}
	bc.views.Render(w, r, http.StatusOK, "blog_show", Page{Title: post.Title, Data: post})
}

// New displays the form for creating a new post
func (bc *BlogController) New(w http.ResponseWriter, r *http.Request) {
	bc.renderForm(w, r, http.StatusOK, newPostForm(), map[string]string{}, nil)
}

// Create handles the submitted create form
func (bc *BlogController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.BlogInput
	if err := decode(w, r, &in); err != nil {
		bc.renderForm(w, r, http.StatusBadRequest, newPostForm(), in.Values(), err)
		return
	}

	post, err := bc.blogs.CreateBlog(r.Context(), in)
	if err != nil {
		if services.KindOf(err) == services.KindValidation {
			bc.renderForm(w, r, http.StatusBadRequest, newPostForm(), in.Values(), err)
			return
		}
		bc.views.Failure(w, r, "failed to create blog post", err)
		return
	}

	bc.log.WithField("post_id", post.ID).Info("blog post created")
	http.Redirect(w, r, "/blog/"+post.ID, http.StatusFound)
}

// Edit displays the form for editing an existing post
func (bc *BlogController) Edit(w http.ResponseWriter, r *http.Request) {
	post, err := bc.blogs.GetBlogByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		bc.pageError(w, r, err, "failed to load blog post")
		return
	}
	values := map[string]string{
		"title":   post.Title,
		"snippet": post.Snippet,
		"body":    post.Body,
		"author":  post.Author,
		"image":   post.Image,
	}
	bc.renderForm(w, r, http.StatusOK, editPostForm(post.ID), values, nil)
}

// Update handles the submitted edit form
func (bc *BlogController) Update(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	var in services.BlogInput
	if err := decode(w, r, &in); err != nil {
		bc.renderForm(w, r, http.StatusBadRequest, editPostForm(id), in.Values(), err)
		return
	}

	post, err := bc.blogs.UpdateBlog(r.Context(), id, in)
	if err != nil {
		if services.KindOf(err) == services.KindValidation {
			bc.renderForm(w, r, http.StatusBadRequest, editPostForm(id), in.Values(), err)
			return
		}
		bc.pageError(w, r, err, "failed to update blog post")
		return
	}

	http.Redirect(w, r, "/blog/"+post.ID, http.StatusFound)
}

// Delete removes a post. It is called from script, so it answers in JSON.
func (bc *BlogController) Delete(w http.ResponseWriter, r *http.Request) {
	post, err := bc.blogs.DeleteBlog(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendError(w, r, bc.log, err, "Failed to delete blog post")
		return
	}
	bc.log.WithField("post_id", post.ID).Info("blog post deleted")
	sendSuccess(w, http.StatusOK, "Blog post deleted", map[string]string{"redirectUrl": "/blog"})
}

// Exists reports whether a post exists
func (bc *BlogController) Exists(w http.ResponseWriter, r *http.Request) {
	ok, err := bc.blogs.Exists(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		sendError(w, r, bc.log, err, "Failed to check blog post")
		return
	}
	sendJSON(w, http.StatusOK, map[string]bool{"success": true, "exists": ok})
}

func (bc *BlogController) renderForm(w http.ResponseWriter, r *http.Request, status int, form blogForm, values map[string]string, err error) {
	page := Page{Title: form.Submit, Form: values, Data: form}
	if se, ok := services.AsError(err); ok {
		page.Error = se.Message
		page.Errors = se.Fields
	}
	bc.views.Render(w, r, status, "blog_form", page)
}

// pageError renders 404 for missing posts and the error page otherwise.
func (bc *BlogController) pageError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if services.KindOf(err) == services.KindNotFound {
		bc.views.NotFound(w, r, "Blog post not found")
		return
	}
	bc.views.Failure(w, r, msg, err)
}

func newPostForm() blogForm {
	return blogForm{Action: "/blog/create", Submit: "Create post"}
}

func editPostForm(id string) blogForm {
	if !models.IsValidID(id) {
		id = ""
	}
	return blogForm{Action: "/blog/" + id + "/edit", Submit: "Save changes"}
}
