package controllers

import (
	"net/http"

	"toyblog/app/services"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// CommentController handles the comment JSON API
type CommentController struct {
	comments *services.CommentService
	log      logrus.FieldLogger
}

// NewCommentController creates a new CommentController
func NewCommentController(comments *services.CommentService, log logrus.FieldLogger) *CommentController {
	return &CommentController{comments: comments, log: log}
}

// List returns a post's comments, newest first
func (cc *CommentController) List(w http.ResponseWriter, r *http.Request) {
	comments, err := cc.comments.ListByBlogPostID(r.Context(), mux.Vars(r)["postId"])
	if err != nil {
		sendError(w, r, cc.log, err, "Failed to load comments")
		return
	}
	sendSuccess(w, http.StatusOK, "Comments loaded", comments)
}

// Create adds a top-level comment to a post
func (cc *CommentController) Create(w http.ResponseWriter, r *http.Request) {
	var in services.CommentInput
	if err := decode(w, r, &in); err != nil {
		sendError(w, r, cc.log, err, "Failed to create comment")
		return
	}
	in.PostID = mux.Vars(r)["postId"]

	comment, err := cc.comments.CreateComment(r.Context(), in)
	if err != nil {
		sendError(w, r, cc.log, err, "Failed to create comment")
		return
	}
	sendSuccess(w, http.StatusCreated, "Comment created", comment)
}

// Reply appends a reply to a comment
func (cc *CommentController) Reply(w http.ResponseWriter, r *http.Request) {
	var in services.ReplyInput
	if err := decode(w, r, &in); err != nil {
		sendError(w, r, cc.log, err, "Failed to add reply")
		return
	}
	vars := mux.Vars(r)
	in.PostID = vars["postId"]
	in.CommentID = vars["commentId"]

	comment, err := cc.comments.AddReply(r.Context(), in)
	if err != nil {
		sendError(w, r, cc.log, err, "Failed to add reply")
		return
	}
	sendSuccess(w, http.StatusCreated, "Reply added", comment)
}

// Update replaces a comment's author name and text
func (cc *CommentController) Update(w http.ResponseWriter, r *http.Request) {
	var in services.CommentUpdateInput
	if err := decode(w, r, &in); err != nil {
		sendError(w, r, cc.log, err, "Failed to update comment")
		return
	}
	vars := mux.Vars(r)
	in.PostID = vars["postId"]
	in.CommentID = vars["commentId"]

	comment, err := cc.comments.UpdateComment(r.Context(), in)
	if err != nil {
		sendError(w, r, cc.log, err, "Failed to update comment")
		return
	}
	sendSuccess(w, http.StatusOK, "Comment updated", comment)
}

// Delete removes a comment scoped to its post
func (cc *CommentController) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if _, err := cc.comments.DeleteComment(r.Context(), vars["postId"], vars["commentId"]); err != nil {
		sendError(w, r, cc.log, err, "Failed to delete comment")
		return
	}
	sendSuccess(w, http.StatusOK, "Comment deleted", nil)
}
