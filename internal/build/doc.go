// Package build runs the site build pipeline.
//
// A build is a fixed sequence of stages (see StageName) executed by
// Pipeline.Run. Every build is a full rebuild: the output directory is
// wiped first, then configuration and templates are loaded, static files
// copied, each content file converted and rendered, listings aggregated and
// rendered, and finally the feed and sitemap written.
//
// Stage failures are StageErrors. Warnings are recorded in the BuildReport
// and the build continues; fatal and canceled errors stop it. A content file
// that fails to parse or render is skipped with a warning so one bad post
// never blocks the rest of the site; failing to write output is fatal.
//
// The pipeline assumes it owns the output directory for the duration of a
// build. Running two builds, or a build and another writer, against the
// same directory concurrently is unsupported.
package build
