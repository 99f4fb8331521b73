package node

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const (
	registerRetries  = 12
	registerInterval = 5 * time.Second
	controlTimeout   = 10 * time.Second
)

var httpClient = &http.Client{Timeout: controlTimeout}

type registerRequest struct {
	NodeID       string `json:"datanode_id"`
	DataAddress  string `json:"grpc_address"`
	AdminAddress string `json:"flask_address"`
}

type heartbeatRequest struct {
	NodeID string `json:"datanode_id"`
}

func (n *Node) postJSON(endpoint string, body any) error {
	data, err := json.Marshal(body)
	if err != nil {
		return err
	}
	resp, err := httpClient.Post(n.cfg.CoordinatorURL+endpoint, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("coordinator returned %d: %s", resp.StatusCode, e.Error)
	}
	return nil
}

func (n *Node) register() error {
	return n.postJSON("/datanode/register", registerRequest{
		NodeID:       n.cfg.NodeID,
		DataAddress:  n.DataAddress(),
		AdminAddress: n.AdminAddress(),
	})
}

// registerWithRetry tries up to registerRetries times, registerInterval
// apart, so a node booting alongside the coordinator waits for it to come up.
func (n *Node) registerWithRetry() error {
	var err error
	for i := 0; i < registerRetries; i++ {
		if err = n.register(); err == nil {
			n.logger.Info().Str("coordinator", n.cfg.CoordinatorURL).Msg("Registered with coordinator")
			return nil
		}
		n.logger.Warn().Err(err).Int("attempt", i+1).Msg("Registration failed, retrying")

		select {
		case <-time.After(registerInterval):
		case <-n.stopCh:
			return fmt.Errorf("node stopped during registration")
		}
	}
	return fmt.Errorf("failed to register with coordinator: %w", err)
}

// heartbeatLoop reports liveness every HeartbeatInterval. A heartbeat
// rejected because the coordinator lost the registry row (fresh database)
// triggers re-registration.
func (n *Node) heartbeatLoop() {
	ticker := time.NewTicker(n.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := n.postJSON("/datanode/heartbeat", heartbeatRequest{NodeID: n.cfg.NodeID}); err != nil {
				n.logger.Warn().Err(err).Msg("Heartbeat failed")
				if err := n.register(); err != nil {
					n.logger.Warn().Err(err).Msg("Re-registration failed")
				}
			}
		case <-n.stopCh:
			return
		}
	}
}
