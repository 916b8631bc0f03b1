// Package timer provides the clock and the single retry timer used by the
// resolver.
//
// AfterFunc runs on time.AfterFunc and hands each callback to a dispatch
// function, so callbacks can be serialized with the rest of the resolver's
// events. Every Start or Stop bumps a generation; a callback that fired
// before a later Start or Stop is dropped when it is dispatched.
//
// Manual implements both Clock and Timer for tests: time only moves when
// Advance is called, and due callbacks run synchronously inside Advance.
package timer
