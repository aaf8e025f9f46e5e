// Package templates embeds the HTML pages served by the staff UI.
package templates

import "embed"

//go:embed *.html
var FS embed.FS
