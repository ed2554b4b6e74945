// Package buffer provides the planar multichannel sample block that flows
// between nodes of a rendering graph, plus the speaker up/down-mix rules used
// when a block must be adapted to a different channel layout.
//
// A [Block] is allocated once, outside the render loop, and reused for every
// quantum. None of its methods allocate except [NewBlock] and [Block.Clone].
package buffer
