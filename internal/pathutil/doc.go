// Package pathutil provides path helpers shared by the differ and the CLI.
//
// # JSON Pointers
//
// [Pointer] joins reference tokens into an RFC 6901 JSON Pointer, escaping
// "~" and "/" inside each token:
//
//	pathutil.Pointer("paths", "/users/{id}", "delete")
//	// "/paths/~1users~1{id}/delete"
//
// # Output Path Sanitization
//
// [SanitizeOutputPath] validates and cleans report output paths. It rejects
// symlinks and returns the cleaned absolute path:
//
//	safe, err := pathutil.SanitizeOutputPath(userProvidedPath)
//	if err != nil {
//	    return err // symlink or unresolvable path
//	}
package pathutil
