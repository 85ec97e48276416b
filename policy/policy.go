// Package policy holds the pure authorization decisions. The acting user is
// always passed in explicitly; a nil viewer means anonymous.
package policy

import (
	"inkwell/models"
)

// CanCreatePost allows any authenticated user to publish.
func CanCreatePost(viewer *models.User) bool {
	return viewer != nil
}

// CanComment allows any authenticated user to comment.
func CanComment(viewer *models.User) bool {
	return viewer != nil
}

// CanEditPost allows only the author to edit. Denied callers are redirected
// to the post's read-only detail view, never given an error page.
func CanEditPost(viewer *models.User, post *models.Post) bool {
	return viewer != nil && viewer.ID == post.AuthorID
}

// CanFollow denies self-follows; following someone already followed is
// allowed and resolves idempotently at the storage layer.
func CanFollow(viewer *models.User, author *models.User) bool {
	return viewer != nil && viewer.ID != author.ID
}

// CanUnfollow allows any authenticated user; removing a missing edge is a
// no-op.
func CanUnfollow(viewer *models.User) bool {
	return viewer != nil
}
