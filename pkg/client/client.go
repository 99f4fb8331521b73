package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/driftfs/driftfs/pkg/errdefs"
	"github.com/driftfs/driftfs/pkg/log"
	"github.com/driftfs/driftfs/pkg/types"
)

const controlTimeout = 10 * time.Second

// Client is the stateless SDK: control calls go to the coordinator, block
// bytes move directly between the client and storage nodes.
type Client struct {
	baseURL string
	http    *http.Client
	logger  zerolog.Logger
}

// New returns a client for the coordinator at baseURL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: controlTimeout},
		logger:  log.WithComponent("client"),
	}
}

type errorBody struct {
	Error string `json:"error"`
}

// do issues one control-plane request and decodes the response into out.
// A 404 error body maps back to ErrNotFound; other error statuses return
// the body's message without a taxonomy sentinel.
func (c *Client) do(method, endpoint string, query url.Values, body any, out any) error {
	u := c.baseURL + endpoint
	if query != nil {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, u, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("coordinator unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		var eb errorBody
		_ = json.NewDecoder(resp.Body).Decode(&eb)
		if eb.Error == "" {
			eb.Error = resp.Status
		}
		if resp.StatusCode == http.StatusNotFound {
			return fmt.Errorf("%s: %w", eb.Error, errdefs.ErrNotFound)
		}
		return fmt.Errorf("%s", eb.Error)
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}

// Mkdir creates a directory.
func (c *Client) Mkdir(path string) error {
	return c.do(http.MethodPost, "/mkdir", nil, map[string]string{"path": path}, nil)
}

// Ls lists a directory.
func (c *Client) Ls(path string) ([]types.DirEntry, error) {
	var resp struct {
		Path     string           `json:"path"`
		Contents []types.DirEntry `json:"contents"`
	}
	q := url.Values{"path": {path}}
	if err := c.do(http.MethodGet, "/ls", q, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Contents, nil
}

// Rm removes a file or an empty directory.
func (c *Client) Rm(path string) error {
	return c.do(http.MethodPost, "/rm", nil, map[string]string{"path": path}, nil)
}

// Rmdir removes an empty directory.
func (c *Client) Rmdir(path string) error {
	return c.do(http.MethodPost, "/rmdir", nil, map[string]string{"path": path}, nil)
}

// initiatePut asks the coordinator to place every block of a new file.
func (c *Client) initiatePut(path string, size int64) (*types.PutPlan, error) {
	var resp struct {
		Data *types.PutPlan `json:"data"`
	}
	err := c.do(http.MethodPost, "/put/initiate", nil,
		map[string]any{"path": path, "size": size}, &resp)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("coordinator returned no placement plan")
	}
	return resp.Data, nil
}

// completePut acknowledges a finished upload.
func (c *Client) completePut(path string, fileID int64) error {
	return c.do(http.MethodPost, "/put/complete", nil,
		map[string]any{"path": path, "file_id": fileID}, nil)
}

// fileInfo fetches the replica map for a read.
func (c *Client) fileInfo(path string) (*types.FileReadInfo, error) {
	var resp struct {
		Data *types.FileReadInfo `json:"data"`
	}
	q := url.Values{"path": {path}}
	if err := c.do(http.MethodGet, "/get", q, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, fmt.Errorf("coordinator returned no file info")
	}
	return resp.Data, nil
}
