// Package task owns the task collection and its on-disk JSON document.
//
// A Manager is constructed per invocation from a file path. It holds the whole
// collection in memory and rewrites the complete document after every
// mutation, so memory and disk agree whenever a method returns.
//
// Identifiers are derived from the live collection: the next id is the
// current maximum plus one. Deleting the highest id and creating again
// therefore reuses that id.
package task
