// Package graphs stores a graph-classification collection as concatenated
// per-field arrays plus a ragged.Index, and reassembles single graphs from it.
//
// Node-level fields (x) are sliced by node-count offsets, edge-level fields
// (edge_index, edge_attr) by edge-count offsets, graph-level fields (y, id)
// by unit offsets. Edge endpoints are stored graph-local: node 0 of every
// graph is 0.
//
// Filter and Map rebuild the whole collection; they are meant for one-shot
// batch preprocessing and must not run concurrently with readers.
package graphs
