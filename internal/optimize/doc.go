// Package optimize implements the adaptive image optimization core.
//
// Given an arbitrary encoded image, the package produces an output image that
// satisfies two hard constraints - a maximum encoded byte size and a maximum
// pixel dimension - while giving up as little visual quality as possible and
// avoiding redundant re-encoding work.
//
// # Pipeline
//
// Two stages compose the core:
//
//  1. Decoder: turns opaque encoded bytes into a Raster with known pixel
//     dimensions. Two decoder variants sit behind the same interface (a fast
//     format-specific path and a universal fallback path); callers never
//     learn which variant ran.
//  2. Optimizer: decides whether any work is needed at all, then runs a
//     bounded search over (scale, quality) pairs, re-encoding until the byte
//     budget is met or the attempt cap is reached.
//
// When the input already satisfies both constraints the original bytes are
// returned untouched with Optimized set to false. This fast path exists to
// avoid any quality loss when no constraint is violated.
//
// # Search Policy
//
// The search is a greedy first-fit, not a search for the smallest or best
// encoding: the first candidate that fits the byte budget wins. On rejection
// quality is reduced before resolution, because quality reduction is visually
// cheaper than resolution reduction for most photographic content. Resolution
// never drops below a 512px longest side, and the loop never runs more than
// six attempts. Exhausting the budget is not an error; the last candidate is
// returned best-effort and callers that need a hard guarantee must check
// Result.OutputBytes themselves.
//
// # Resource Model
//
// Each call owns its Raster and render canvases exclusively; nothing escapes
// to shared state, so arbitrarily many calls may run concurrently without
// coordination. The Raster is released exactly once on every exit path.
package optimize
