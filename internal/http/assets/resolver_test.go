package assets

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
)

func TestResolve_FingerprintsExistingFile(t *testing.T) {
	fsys := fstest.MapFS{"css/site.css": {Data: []byte("body{}")}}
	r := NewAssetResolver(ResolverOptions{FS: fsys})

	got := r.Resolve("css/site.css")
	assert.Regexp(t, `^/static/css/site\.css\?v=[0-9a-f]{10}$`, got)
	assert.Equal(t, got, r.Resolve("/css/site.css"), "leading slash is normalized")
}

func TestResolve_MissingFileFallsBackToPlainPath(t *testing.T) {
	r := NewAssetResolver(ResolverOptions{FS: fstest.MapFS{}})
	assert.Equal(t, "/static/js/app.js", r.Resolve("js/app.js"))
}

func TestResolve_NilResolver(t *testing.T) {
	var r *AssetResolver
	assert.Equal(t, "/static/img/logo.svg", r.Resolve("img/logo.svg"))
}

func TestResolve_DevModeTracksChanges(t *testing.T) {
	fsys := fstest.MapFS{"js/app.js": {Data: []byte("a")}}
	r := NewAssetResolver(ResolverOptions{FS: fsys, DevMode: true})
	first := r.Resolve("js/app.js")

	fsys["js/app.js"] = &fstest.MapFile{Data: []byte("b")}
	assert.NotEqual(t, first, r.Resolve("js/app.js"))
}

func TestResolve_CachesOutsideDevMode(t *testing.T) {
	fsys := fstest.MapFS{"js/app.js": {Data: []byte("a")}}
	r := NewAssetResolver(ResolverOptions{FS: fsys})
	first := r.Resolve("js/app.js")

	fsys["js/app.js"] = &fstest.MapFile{Data: []byte("b")}
	assert.Equal(t, first, r.Resolve("js/app.js"))
}
