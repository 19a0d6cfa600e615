// Package http exposes the pricing analysis pipeline over HTTP to the
// external dashboard shell. The shell uploads a file once, then re-posts
// parameter changes against the cached table by content hash; every response
// carries either the full report or an empty-result warning the shell uses
// to blank its panels.
package http
