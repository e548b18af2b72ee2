// Package assets implements the content-addressed naming scheme for derived
// site assets.
//
// A derived file is named {basename}-{hash}.{ext}, where hash is the first
// eight hex digits of the MD5 digest of the source file. The name is both the
// cache-busting URL and the cache key: if a file with that name already
// exists in the output directory, the derived asset is up to date. Content,
// never timestamps, drives invalidation.
package assets
