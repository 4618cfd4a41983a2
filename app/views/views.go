// Package views holds the HTML templates rendered by the controllers.
package views

import "embed"

//go:embed *.html
var FS embed.FS
