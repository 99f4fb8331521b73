/*
Package metastore is the coordinator's authoritative metadata store: the
namespace tree, the file-to-block mapping, block replica placements, and the
storage node registry with heartbeat liveness.

The bbolt implementation keeps one bucket per entity plus a composite-key
child index (parent id + name -> child id) that doubles as the sibling
uniqueness constraint. Every Store operation runs as a single bbolt
transaction, so concurrent put-initiate calls for the same path resolve to
exactly one winner, cascade deletes are atomic, and a failed placement
leaves no partial rows behind.

The liveness reaper runs inside the same transaction as any read of the
active node set, never after it, so placement and read resolution only ever
see nodes inside the heartbeat window.
*/
package metastore
