// Package oxidb is the remote blob backend, speaking the OxiDB wire
// protocol against a shared oxidb-server: each message is a 4-byte
// little-endian length followed by a JSON payload, answered with
// {"ok": true, "data": ...} or {"ok": false, "error": "..."}.
//
// Only the blob-bucket subset of the protocol is used here
// (put_object, get_object, delete_object, list_objects, ping,
// create_bucket).
package oxidb

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"
	"time"
)

// Error is an error response from the OxiDB server. Server-side
// errors other than "not found" are treated as transient by the
// store: the server may be compacting or momentarily overloaded.
type Error struct {
	Msg string
}

func (e *Error) Error() string {
	return fmt.Sprintf("oxidb: %s", e.Msg)
}

// NotFound reports whether the server rejected the request because
// the object does not exist.
func (e *Error) NotFound() bool {
	return strings.Contains(strings.ToLower(e.Msg), "not found")
}

// Client is a connection to oxidb-server. Safe for concurrent use;
// requests on one connection are serialized by a mutex.
type Client struct {
	conn    net.Conn
	timeout time.Duration
	mu      sync.Mutex
}

// Connect dials oxidb-server at host:port. The timeout applies to the
// dial and to each subsequent request round trip.
func Connect(host string, port int, timeout time.Duration) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", host, port)
	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return nil, fmt.Errorf("oxidb: connect to %s: %w", addr, err)
	}
	return &Client{conn: conn, timeout: timeout}, nil
}

// Close closes the TCP connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) sendRaw(data []byte) error {
	lenBuf := make([]byte, 4)
	binary.LittleEndian.PutUint32(lenBuf, uint32(len(data)))
	if _, err := c.conn.Write(lenBuf); err != nil {
		return err
	}
	_, err := c.conn.Write(data)
	return err
}

func (c *Client) recvRaw() ([]byte, error) {
	lenBuf := make([]byte, 4)
	if _, err := io.ReadFull(c.conn, lenBuf); err != nil {
		return nil, fmt.Errorf("oxidb: read length: %w", err)
	}
	length := binary.LittleEndian.Uint32(lenBuf)
	payload := make([]byte, length)
	if _, err := io.ReadFull(c.conn, payload); err != nil {
		return nil, fmt.Errorf("oxidb: read payload: %w", err)
	}
	return payload, nil
}

// request performs one framed round trip under the request mutex.
func (c *Client) request(payload map[string]any) (map[string]any, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.timeout > 0 {
		c.conn.SetDeadline(time.Now().Add(c.timeout))
		defer c.conn.SetDeadline(time.Time{})
	}

	jsonBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("oxidb: marshal request: %w", err)
	}
	if err := c.sendRaw(jsonBytes); err != nil {
		return nil, fmt.Errorf("oxidb: send: %w", err)
	}
	respBytes, err := c.recvRaw()
	if err != nil {
		return nil, err
	}
	var resp map[string]any
	if err := json.Unmarshal(respBytes, &resp); err != nil {
		return nil, fmt.Errorf("oxidb: unmarshal response: %w", err)
	}
	return resp, nil
}

func (c *Client) checked(payload map[string]any) (any, error) {
	resp, err := c.request(payload)
	if err != nil {
		return nil, err
	}
	ok, _ := resp["ok"].(bool)
	if !ok {
		errMsg, _ := resp["error"].(string)
		if errMsg == "" {
			errMsg = "unknown error"
		}
		return nil, &Error{Msg: errMsg}
	}
	return resp["data"], nil
}

// Ping verifies the connection is alive.
func (c *Client) Ping() error {
	data, err := c.checked(map[string]any{"cmd": "ping"})
	if err != nil {
		return err
	}
	if s, _ := data.(string); s != "pong" {
		return &Error{Msg: fmt.Sprintf("unexpected ping reply %q", s)}
	}
	return nil
}

// CreateBucket creates a blob bucket. Creating an existing bucket is
// not an error server-side.
func (c *Client) CreateBucket(bucket string) error {
	_, err := c.checked(map[string]any{"cmd": "create_bucket", "bucket": bucket})
	return err
}

// PutObject uploads an object. Data is base64-encoded on the wire.
func (c *Client) PutObject(bucket, key string, data []byte) error {
	_, err := c.checked(map[string]any{
		"cmd":          "put_object",
		"bucket":       bucket,
		"key":          key,
		"data":         base64.StdEncoding.EncodeToString(data),
		"content_type": "application/json",
	})
	return err
}

// GetObject downloads an object. Returns found=false when the server
// reports the object does not exist.
func (c *Client) GetObject(bucket, key string) ([]byte, bool, error) {
	result, err := c.checked(map[string]any{"cmd": "get_object", "bucket": bucket, "key": key})
	if err != nil {
		var oe *Error
		if errors.As(err, &oe) && oe.NotFound() {
			return nil, false, nil
		}
		return nil, false, err
	}
	m, _ := result.(map[string]any)
	content, _ := m["content"].(string)
	decoded, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, false, fmt.Errorf("oxidb: decode base64: %w", err)
	}
	return decoded, true, nil
}

// DeleteObject deletes an object. Deleting an absent object is
// tolerated.
func (c *Client) DeleteObject(bucket, key string) error {
	_, err := c.checked(map[string]any{"cmd": "delete_object", "bucket": bucket, "key": key})
	var oe *Error
	if errors.As(err, &oe) && oe.NotFound() {
		return nil
	}
	return err
}

// ListObjects returns the key and content of every object in bucket
// whose key starts with prefix.
func (c *Client) ListObjects(bucket, prefix string) ([]Object, error) {
	payload := map[string]any{"cmd": "list_objects", "bucket": bucket}
	if prefix != "" {
		payload["prefix"] = prefix
	}
	data, err := c.checked(payload)
	if err != nil {
		return nil, err
	}
	arr, _ := data.([]any)
	out := make([]Object, 0, len(arr))
	for _, v := range arr {
		m, ok := v.(map[string]any)
		if !ok {
			continue
		}
		key, _ := m["key"].(string)
		content, _ := m["content"].(string)
		decoded, err := base64.StdEncoding.DecodeString(content)
		if err != nil {
			return nil, fmt.Errorf("oxidb: decode base64 for %s: %w", key, err)
		}
		out = append(out, Object{Key: key, Data: decoded})
	}
	return out, nil
}

// Object is one listed blob object.
type Object struct {
	Key  string
	Data []byte
}
