/*
Package node implements the storage node role: the gRPC data plane
(WriteBlock, ReadBlock, ReplicateBlock, DeleteBlock) over a local block
store, the register/heartbeat loop against the coordinator's control plane,
and a small HTTP admin surface for health and metrics.

A node reports a client write as successful iff its local store succeeded.
The push to the block's follower happens after the stream closes and before
the response is sent; its outcome is carried in the response message
without failing the write.
*/
package node
