// Package workspace discovers the packages of a JavaScript monorepo and
// parses their package.json manifests.
//
// # Discovery
//
// The workspace root must contain a package.json. Package directories are
// declared by the first of these that is present:
//
//   - lerna.json "packages" (defaults to ["packages/*"] unless "useWorkspaces" is set)
//   - pnpm-workspace.yaml "packages"
//   - package.json "workspaces", either as an array or as {"packages": [...]}
//
// Each pattern is expanded as <pattern>/package.json using doublestar globs,
// so "**" works as it does for npm and pnpm. Patterns starting with "!"
// exclude directories. Anything below node_modules is ignored.
//
// # Ordering
//
// Packages are returned in discovery order: patterns in declaration order,
// matches of a single pattern sorted by path. Manifests are read
// concurrently, but the result order never depends on scheduling.
//
// # Absent versus empty
//
// A dependency field that is missing (or null) in package.json decodes to a
// nil map; "{}" decodes to an empty map. Consumers rely on this to tell an
// undeclared devDependencies block from an empty one.
package workspace
