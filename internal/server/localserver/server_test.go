package localserver

import (
	"bufio"
	"context"
	"net"
	"path/filepath"
	"testing"
	"time"
)

func TestServerListenAndServe(t *testing.T) {
	h := newTestHandler(t)
	sockPath := filepath.Join(t.TempDir(), "ck.sock")
	s := New(sockPath, h)

	errCh := make(chan error, 1)
	go func() { errCh <- s.ListenAndServe() }()
	time.Sleep(20 * time.Millisecond)

	conn, err := net.Dial("unix", sockPath)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte(testToken + " status\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	line, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("ReadString: %v", err)
	}
	if line == "" {
		t.Fatal("expected a non-empty response line")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Errorf("ListenAndServe returned error: %v", err)
		}
	case <-time.After(time.Second):
		t.Error("timeout waiting for ListenAndServe to return")
	}
}
