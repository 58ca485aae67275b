// Package core holds identifier types shared across the dataset, graph,
// neighbor, and cluster packages.
package core

// NodeID is a dense, zero-based identifier for a point within a Dataset.
// It is strictly 32-bit, allowing at most 4 billion points per run.
// Used for all hot-path structures: graph adjacency (Va/Ea), bitset rows,
// and BFS frontiers.
type NodeID uint32

// MaxNodeID is the maximum representable NodeID.
const MaxNodeID = ^NodeID(0)

// ClusterID identifies a connected cluster assigned by the cluster engine.
// NoCluster means the node is unassigned (Noise, or not yet visited).
type ClusterID int32

// NoCluster is the sentinel ClusterID for nodes not assigned to any cluster.
const NoCluster ClusterID = -1
