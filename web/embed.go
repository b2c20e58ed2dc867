// ABOUTME: Embeds the page templates and the stylesheet served by the site.
// ABOUTME: Uses explicit subdirectory globs because //go:embed static/* does not recurse.
package web

import "embed"

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/css/*.css
var StaticFS embed.FS
