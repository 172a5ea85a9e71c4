// Package guest embeds the precompiled game module and exposes its typed
// call surface to the host.
//
// The guest is a WebAssembly core module with a fixed ABI. It imports the
// shared linear memory as env.memory plus four host callbacks under the host
// namespace:
//
//	log_normal(offset, length i32)
//	log_error(offset, length i32)
//	elapsed_ms() -> i32
//	draw_frame(offset i32)
//
// and must export three entry points:
//
//	init(arg0, arg1 i32) -> i32   called exactly once at startup
//	step()                        self-paced tick, a no-op between ticks
//	submit_input(kind, code i32)  one call per translated key event
//
// Load validates the whole contract before the guest runs: malformed
// bytecode or a missing or mis-typed export is a fatal load error. At run
// time the only place guest-supplied integers touch host memory is
// Memory.Read, which bounds-checks every (offset, length) pair; callback
// failures are contained there and surfaced through the Hooks, never
// propagated as Go errors out of the guest call.
package guest
