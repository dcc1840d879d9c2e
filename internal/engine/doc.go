// Package engine is the facade UI collaborators call into.
//
// It wires the metadata and blob stores together with the album
// lifecycle, ordering, and upload services, and owns their lifecycle:
// both stores open on New and close on Close. All photo-vault
// operations are reachable from here; nothing outside this package
// needs to know there are two stores underneath.
package engine
