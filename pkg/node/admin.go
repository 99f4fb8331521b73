package node

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/driftfs/driftfs/pkg/metrics"
)

type healthResponse struct {
	Status     string `json:"status"`
	NodeID     string `json:"node_id"`
	BlockCount int    `json:"block_count"`
	BlockDir   string `json:"block_dir"`
}

// adminHandler serves the node's admin surface: health and metrics. This is
// the address registered as the node's admin address.
func (n *Node) adminHandler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/healthz", n.handleHealth).Methods(http.MethodGet)
	r.Handle("/metrics", metrics.Handler()).Methods(http.MethodGet)
	return r
}

func (n *Node) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := n.store.Count()
	resp := healthResponse{
		Status:     "ok",
		NodeID:     n.cfg.NodeID,
		BlockCount: count,
		BlockDir:   n.store.Dir(),
	}
	code := http.StatusOK
	if err != nil {
		resp.Status = "degraded"
		code = http.StatusInternalServerError
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(resp)
}
