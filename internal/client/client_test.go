package client

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robaho/memglass/internal/testutil"
)

func TestNewClient(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantURL string
	}{
		{
			name:    "plain url",
			url:     "http://example.com:8080",
			wantURL: "http://example.com:8080",
		},
		{
			name:    "trailing slash stripped",
			url:     "http://example.com:8080/",
			wantURL: "http://example.com:8080",
		},
		{
			name:    "empty url falls back to default",
			url:     "",
			wantURL: DefaultURL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(tt.url)
			if c.URL() != tt.wantURL {
				t.Errorf("expected url %s, got %s", tt.wantURL, c.URL())
			}
		})
	}
}

func TestFetch(t *testing.T) {
	srv := testutil.NewServer(t, testutil.Step{
		Body: testutil.SessionJSON(77, 12,
			testutil.ObjectJSON("main_counter", "Counter", 1,
				testutil.FieldJSON("value", "42", "atomic"))),
	})

	c := New(srv.URL)
	snap, err := c.Fetch(context.Background())
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}

	if snap.PID != 77 {
		t.Errorf("expected pid 77, got %d", snap.PID)
	}
	if snap.Sequence != 12 {
		t.Errorf("expected sequence 12, got %d", snap.Sequence)
	}

	obj, ok := snap.Object("main_counter")
	if !ok {
		t.Fatal("main_counter not found")
	}
	f, ok := obj.Field("value")
	if !ok {
		t.Fatal("value field not found")
	}
	if !f.IsAtomic() {
		t.Error("expected atomic field")
	}
}

func TestFetchUpdatesLastSequence(t *testing.T) {
	srv := testutil.NewServer(t,
		testutil.Step{Body: testutil.SessionJSON(1, 5)},
		testutil.Step{Body: testutil.SessionJSON(1, 9)},
	)

	c := New(srv.URL)

	if _, ok := c.LastSequence(); ok {
		t.Error("expected no sequence before first fetch")
	}

	// Discarding the result must still record the sequence.
	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if seq, ok := c.LastSequence(); !ok || seq != 5 {
		t.Errorf("expected sequence 5, got %d (ok=%v)", seq, ok)
	}

	if _, err := c.Fetch(context.Background()); err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if seq, ok := c.LastSequence(); !ok || seq != 9 {
		t.Errorf("expected sequence 9, got %d (ok=%v)", seq, ok)
	}
}

func TestFetchProtocolError(t *testing.T) {
	srv := testutil.NewServer(t, testutil.Step{Status: 500, Body: "boom"})

	c := New(srv.URL)
	_, err := c.Fetch(context.Background())

	var perr *ProtocolError
	if !errors.As(err, &perr) {
		t.Fatalf("expected ProtocolError, got %v", err)
	}
	if perr.StatusCode != 500 {
		t.Errorf("expected status 500, got %d", perr.StatusCode)
	}
	if !IsClientError(err) {
		t.Error("ProtocolError must satisfy ClientError")
	}
	if IsConnectionError(err) {
		t.Error("ProtocolError must not classify as connection failure")
	}
}

func TestFetchDecodeError(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "not json"},
		{"missing label", `{"objects": [{"type_name": "T", "type_id": 1}]}`},
		{"bad atomicity", `{"objects": [{"label": "x", "type_name": "T", "type_id": 1,
			"fields": [{"name": "f", "value": 1, "atomicity": "sloppy"}]}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := testutil.NewServer(t, testutil.Step{Body: tt.body})

			c := New(srv.URL)
			_, err := c.Fetch(context.Background())

			var derr *DecodeError
			if !errors.As(err, &derr) {
				t.Fatalf("expected DecodeError, got %v", err)
			}
			if !IsClientError(err) {
				t.Error("DecodeError must satisfy ClientError")
			}
		})
	}
}

func TestFetchConnectionError(t *testing.T) {
	c := New(testutil.ClosedServerURL(t), WithTimeout(time.Second))
	_, err := c.Fetch(context.Background())

	var cerr *ConnectionError
	if !errors.As(err, &cerr) {
		t.Fatalf("expected ConnectionError, got %v", err)
	}
	if cerr.Target != c.URL() {
		t.Errorf("expected target %s, got %s", c.URL(), cerr.Target)
	}
	if !IsConnectionError(err) {
		t.Error("IsConnectionError must match")
	}
	if !IsClientError(err) {
		t.Error("ConnectionError must satisfy ClientError")
	}
}

func TestGetObject(t *testing.T) {
	srv := testutil.NewServer(t, testutil.Step{
		Body: testutil.SessionJSON(1, 1,
			testutil.ObjectJSON("present", "T", 1)),
	})

	c := New(srv.URL)

	obj, ok, err := c.GetObject(context.Background(), "present")
	if err != nil {
		t.Fatalf("GetObject failed: %v", err)
	}
	if !ok || obj.Label != "present" {
		t.Errorf("expected object present, got %v (ok=%v)", obj, ok)
	}

	_, ok, err = c.GetObject(context.Background(), "absent")
	if err != nil {
		t.Fatalf("GetObject failed: %v", err)
	}
	if ok {
		t.Error("expected absent lookup")
	}

	// Every call is a fresh fetch, never a cache hit.
	if srv.Requests() != 2 {
		t.Errorf("expected 2 requests, got %d", srv.Requests())
	}
}

func TestOneShotFetch(t *testing.T) {
	srv := testutil.NewServer(t, testutil.Step{Body: testutil.SessionJSON(3, 4)})

	snap, err := Fetch(context.Background(), srv.URL, time.Second)
	if err != nil {
		t.Fatalf("one-shot fetch failed: %v", err)
	}
	if snap.PID != 3 || snap.Sequence != 4 {
		t.Errorf("unexpected snapshot: pid=%d seq=%d", snap.PID, snap.Sequence)
	}
}
