// Package discovery lists the files a lint run should inspect.
//
// Files come from two git queries run in a fixed order: paths changed against
// a baseline reference, then untracked paths that are not ignored. The two
// lists are concatenated without deduplication. Optional gitignore-style
// exclude patterns remove paths afterwards.
package discovery
