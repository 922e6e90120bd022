// Package resolve implements a module specifier resolution hook that sits in
// front of a host loader's default resolver.
//
// Relative, absolute and file:// specifiers are normalised to an absolute
// path and probed in a fixed order: the exact path, the path with ".js"
// appended, then the path with "index.js" appended. A "?query" suffix is
// carried over to every candidate so that cache-busting imports keep working.
// Bare package names are handed to the default resolver untouched.
//
//	r := resolve.New()
//	res, err := r.Resolve(ctx, "./util?v=2", resolve.Context{ParentURL: "file:///app/main.js"}, host)
package resolve
