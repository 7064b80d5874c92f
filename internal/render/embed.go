package render

import "embed"

//go:embed assets/*.tmpl assets/*.js
var embeddedAssets embed.FS
