package gelf

import (
	"encoding/json"
	"net"
	"os"
	"strings"
	"time"
)

// Writer sends GELF messages over UDP and implements io.Writer so it
// can feed log.SetOutput via io.MultiWriter.
type Writer struct {
	conn     net.Conn
	hostname string
}

// New creates a GELF UDP writer connected to addr (e.g. "graylog:12201").
func New(addr string) (*Writer, error) {
	conn, err := net.Dial("udp", addr)
	if err != nil {
		return nil, err
	}

	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "partnerhub"
	}

	return &Writer{conn: conn, hostname: hostname}, nil
}

// Write implements io.Writer. Each call sends one GELF message. The
// standard log package writes lines like "2006/01/02 15:04:05 message\n";
// the date prefix and trailing newline are stripped for short_message.
func (w *Writer) Write(p []byte) (int, error) {
	msg := strings.TrimRight(string(p), "\n")

	short := msg
	if len(msg) > 20 && msg[4] == '/' && msg[7] == '/' && msg[10] == ' ' && msg[13] == ':' {
		short = msg[20:]
	}

	payload := map[string]any{
		"version":       "1.1",
		"host":          w.hostname,
		"short_message": short,
		"timestamp":     float64(time.Now().UnixMilli()) / 1000.0,
		"level":         6,
		"_app":          "partnerhub",
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return 0, err
	}
	if _, err := w.conn.Write(data); err != nil {
		return 0, err
	}
	return len(p), nil
}

// Close closes the UDP connection.
func (w *Writer) Close() error {
	return w.conn.Close()
}
