package coordinator

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/driftfs/driftfs/pkg/errdefs"
	"github.com/driftfs/driftfs/pkg/metrics"
	"github.com/driftfs/driftfs/pkg/types"
)

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

// writeError emits the {error} body. Internal failures keep 500; everything
// else uses the endpoint's contract code.
func writeError(w http.ResponseWriter, code int, err error) {
	if errdefs.HTTPStatus(err) == http.StatusInternalServerError {
		code = http.StatusInternalServerError
	}
	writeJSON(w, code, map[string]string{"error": err.Error()})
}

func decodeBody(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errdefs.InvalidArgumentf("bad request body")
	}
	return nil
}

// --- Namespace ---

func (s *Server) handleMkdir(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, errdefs.InvalidArgumentf("path is required"))
		return
	}

	dir, err := s.store.Mkdir(req.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message": "directory created",
		"path":    req.Path,
		"id":      dir.ID,
	})
}

func (s *Server) handleLs(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		path = "/"
	}

	entries, err := s.store.List(path)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"path":     path,
		"contents": entries,
	})
}

func (s *Server) handleRm(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, errdefs.InvalidArgumentf("path is required"))
		return
	}

	deletions, err := s.store.Remove(req.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	// Metadata removal is authoritative; block cleanup on the nodes is best
	// effort and must not delay or fail the response.
	if len(deletions) > 0 {
		go s.deleter.deleteBlocks(deletions)
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%s removed", req.Path),
	})
}

func (s *Server) handleRmdir(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, errdefs.InvalidArgumentf("path is required"))
		return
	}

	if err := s.store.RemoveDir(req.Path); err != nil {
		code := http.StatusBadRequest
		if errdefs.IsNotFound(err) {
			code = http.StatusNotFound
		}
		writeError(w, code, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("%s removed", req.Path),
	})
}

// --- File lifecycle ---

func (s *Server) handlePutInitiate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
		Size *int64 `json:"size"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Path == "" || req.Size == nil {
		writeError(w, http.StatusBadRequest, errdefs.InvalidArgumentf("path and size are required"))
		return
	}

	plan, err := s.store.InitiatePut(req.Path, *req.Size)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	metrics.BlocksPlaced.Add(float64(len(plan.Assignments)))
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "put initiated",
		"data":    plan,
	})
}

func (s *Server) handlePutComplete(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path   string `json:"path"`
		FileID int64  `json:"file_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Path == "" {
		writeError(w, http.StatusBadRequest, errdefs.InvalidArgumentf("path is required"))
		return
	}

	obj, err := s.store.Resolve(req.Path)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if obj.IsDirectory {
		writeError(w, http.StatusBadRequest, fmt.Errorf("%s: %w", req.Path, errdefs.ErrIsADirectory))
		return
	}
	if req.FileID != 0 && req.FileID != obj.ID {
		writeError(w, http.StatusBadRequest,
			errdefs.InvalidArgumentf("file id %d does not match %s", req.FileID, req.Path))
		return
	}

	s.logger.Info().Str("path", req.Path).Int64("file_id", obj.ID).Msg("Put completed")
	writeJSON(w, http.StatusOK, map[string]string{
		"message": fmt.Sprintf("put of %s acknowledged", req.Path),
	})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, errdefs.InvalidArgumentf("path is required"))
		return
	}

	info, err := s.store.FileInfo(path)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "file info",
		"data":    info,
	})
}

// --- Node management ---

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NodeID       string `json:"datanode_id"`
		DataAddress  string `json:"grpc_address"`
		AdminAddress string `json:"flask_address"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	node, err := s.store.RegisterNode(req.NodeID, req.DataAddress, req.AdminAddress)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"message":              "storage node registered",
		"datanode_id_assigned": node.ID,
	})
}

func (s *Server) handleHeartbeat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		NodeID string `json:"datanode_id"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.NodeID == "" {
		writeError(w, http.StatusBadRequest, errdefs.InvalidArgumentf("datanode_id is required"))
		return
	}

	if err := s.store.Heartbeat(req.NodeID); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	metrics.HeartbeatsTotal.Inc()
	if active, err := s.store.ActiveNodes(); err == nil {
		metrics.ActiveNodes.Set(float64(len(active)))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "heartbeat received",
		"tasks": types.HeartbeatTasks{
			ReplicationTasks: []string{},
			DeletionTasks:    []string{},
		},
	})
}
