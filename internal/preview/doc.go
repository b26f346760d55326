// Package preview serves a built site for local viewing and, when asked,
// rebuilds it on source changes and tells connected browsers to reload.
package preview
