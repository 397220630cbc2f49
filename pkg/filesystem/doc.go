// Package filesystem provides the file primitives the rewriter relies on:
// replacing a file through a staging copy, and reading and restoring a file's
// owner.
//
// Everything that touches file contents goes through an afero.Fs so tests can
// run against an in-memory tree or a tree that fails on demand. Ownership is
// a separate OwnershipKeeper because afero has no portable way to read an
// owner back.
package filesystem
