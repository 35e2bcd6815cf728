// Package fileutil holds file permission modes shared by apidiff writers.
package fileutil

import "os"

// OwnerReadWrite is the file permission mode for stored snapshots, which
// hold complete API documents (owner read/write only).
const OwnerReadWrite os.FileMode = 0o600

// OwnerOnlyDir is the directory mode for the snapshot store.
const OwnerOnlyDir os.FileMode = 0o700

// ReadableByAll is the file permission mode for reports meant to be
// picked up by CI tooling and other users.
const ReadableByAll os.FileMode = 0o644
