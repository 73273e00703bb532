package assets

import (
	"html/template"

	httpassets "github.com/damedesign/portfolio/internal/http/assets"
)

// Options configures asset-related template helpers.
type Options struct {
	Resolver *httpassets.AssetResolver
}

// Funcs returns template helpers for fingerprinted asset URLs.
func Funcs(opts Options) template.FuncMap {
	return template.FuncMap{
		"asset": opts.Resolver.Resolve,
	}
}
