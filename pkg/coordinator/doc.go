/*
Package coordinator implements the control plane of the cluster: the
HTTP+JSON API for namespace operations (mkdir, ls, rm, rmdir), the file
lifecycle (put-initiate, put-complete, get-info), and node management
(register, heartbeat).

Block payloads never pass through here. The coordinator hands writing
clients a placement plan and reading clients the replica addresses; the
bytes flow directly between clients and storage nodes. The only data-plane
calls the coordinator makes itself are best-effort DeleteBlock pushes after
a file is removed.
*/
package coordinator
