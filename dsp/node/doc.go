// Package node wraps the convolution, recursive-filter and waveshaping
// engines as render-graph nodes.
//
// Each node splits into a control side and a render side. Setters run on the
// control side: they validate, build an immutable snapshot (a prepared
// impulse response, a curve) and publish it through a [Param]. The render
// side calls [Processor.Process] once per quantum, loads the current snapshot
// once at the start of the quantum and works only from that reference, so a
// replacement is never observed mid-block and the render path never locks or
// allocates.
//
// Node kinds are selected once at graph-build time through a [Registry].
package node
