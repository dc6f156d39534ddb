// Package hookx decorates operations with prioritized before, after, and
// error hook chains, so cross-cutting concerns like auditing, metrics, and
// cache invalidation stay out of the operations themselves.
//
// Hooks run highest priority first. A hook marked [Hook.Critical] vetoes
// the phase when it fails; any other failure is logged and the chain
// continues. The operation's own error always reaches the caller unchanged,
// no matter what the error-phase hooks do with it.
package hookx
