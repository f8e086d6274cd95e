// Package sandbox assembles bubblewrap (bwrap) command lines that run a
// coding agent inside Linux namespaces.
//
// The central type is [Builder], which accumulates bwrap operations in
// four ordered segments (namespace flags, directory creation, mounts,
// environment) and renders them deterministically with [Builder.Build].
// A mount registry deduplicates directory-creation and bind operations
// so overlapping requests, such as the same directory appearing twice in
// PATH, produce a single mount.
//
// The dev profile (applyDevProfile, driven through [Initialize]) binds
// the host system read-only, the project and sandbox home read-write,
// and roots HOME and the XDG directories under the sandbox home. The
// builder only produces the argument list; enforcement is bwrap's job.
package sandbox
