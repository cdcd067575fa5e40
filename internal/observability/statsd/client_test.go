package statsd

import (
	"net"
	"strings"
	"testing"
	"time"
)

func TestNormalizeMetricName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		" channel/delivery ": "channel_delivery",
		"dispatch..total":    "dispatch.total",
		"a:b|c":              "a_b_c",
		".":                  "",
	}

	for input, want := range tests {
		if got := normalizeMetricName(input); got != want {
			t.Fatalf("normalizeMetricName(%q) = %q, want %q", input, got, want)
		}
	}
}

func TestFormatTags(t *testing.T) {
	t.Parallel()

	global := map[string]string{
		"env": "prod",
		//nolint:gocritic // whitespace is part of the test case
		" service ": " alertdispatch ",
	}
	local := map[string]string{
		"channel": " sms ",
		"":        "ignored",
		"env":     "stage",
		"error":   "a,b|c",
	}

	got := formatTags(global, local)
	want := "|#channel:sms,env:stage,error:a_b_c,service:alertdispatch"

	if got != want {
		t.Fatalf("formatTags mismatch\n got: %q\nwant: %q", got, want)
	}
	if got := formatTags(nil, nil); got != "" {
		t.Fatalf("formatTags(nil, nil) = %q, want empty string", got)
	}
}

func TestClientLine(t *testing.T) {
	t.Parallel()

	c := &Client{prefix: "alertdispatch", globalTags: map[string]string{"mode": "demo"}}

	got := c.line("channel.delivery", "1", "c", map[string]string{"channel": "email"})
	want := "alertdispatch.channel.delivery:1|c|#channel:email,mode:demo"
	if got != want {
		t.Fatalf("line mismatch\n got: %q\nwant: %q", got, want)
	}

	if got := c.line("  ", "1", "c", nil); got != "" {
		t.Fatalf("empty metric name should produce no line, got %q", got)
	}
}

func TestClientWritesToConn(t *testing.T) {
	t.Parallel()

	clientConn, peerConn := net.Pipe()
	defer peerConn.Close()

	c := &Client{prefix: "alertdispatch", conn: clientConn, globalTags: map[string]string{}}

	received := make(chan string, 1)
	go func() {
		buf := make([]byte, 256)
		n, _ := peerConn.Read(buf)
		received <- string(buf[:n])
	}()

	c.Timing("dispatch.duration", 1500*time.Millisecond, nil)

	select {
	case line := <-received:
		if line != "alertdispatch.dispatch.duration:1500|ms" {
			t.Fatalf("unexpected line %q", line)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for metric line")
	}

	if err := c.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if c.Enabled() {
		t.Fatal("expected client to be disabled after Close")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("Close (second call) error: %v", err)
	}
}

func TestNilClientIsSafe(t *testing.T) {
	t.Parallel()

	var c *Client
	c.Count("x", 1, nil)
	c.Gauge("x", 1, nil)
	c.Timing("x", time.Second, nil)
	if c.Enabled() {
		t.Fatal("nil client should report disabled")
	}
	if err := c.Close(); err != nil {
		t.Fatalf("nil client Close error: %v", err)
	}
}

func TestNewClientDisabled(t *testing.T) {
	t.Parallel()

	client, err := NewClient(Config{Enabled: true, Address: "   "})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	if client.Enabled() {
		t.Fatal("expected client to stay disabled when address is empty")
	}
	if client.prefix != DefaultPrefix {
		t.Fatalf("prefix = %q, want %q", client.prefix, DefaultPrefix)
	}
	// Writes on a disabled client are dropped.
	client.Count("dispatch.total", 1, nil)
}

func TestNewClientDialError(t *testing.T) {
	t.Parallel()

	_, err := NewClient(Config{Enabled: true, Address: "bad address"})
	if err == nil {
		t.Fatal("expected NewClient to error for invalid address")
	}
	if !strings.Contains(err.Error(), "statsd dial") {
		t.Fatalf("unexpected error: %v", err)
	}
}
