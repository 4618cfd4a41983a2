// Package static embeds the site's stylesheets, scripts and images.
package static

import "embed"

//go:embed css js images
var FS embed.FS
