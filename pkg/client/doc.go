/*
Package client is the stateless SDK. Namespace and lifecycle calls go to
the coordinator over HTTP+JSON; block payloads stream directly between the
client and storage nodes over gRPC.

A Put fans each block out to the primary the coordinator assigned; the
primary forwards to the follower. A Get walks the blocks in sequence order
and falls through to the next replica when one fails.
*/
package client
