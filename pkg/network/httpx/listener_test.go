package httpx

import (
	"net"
	"strings"
	"testing"
)

func TestListenerCreation(t *testing.T) {
	tests := []struct {
		addr   string
		port   string
		random bool
		error  bool
	}{
		{addr: ":0", random: true},
		{addr: ":", random: true},
		{addr: "", random: true},
		{addr: "localhost:0", random: true},
		{addr: "https://garbage.com:99a9a", error: true},
		{addr: "localhost:abc1", error: true},
	}

	for _, test := range tests {
		ls, err := NewListener(test.addr)

		if test.error {
			if err == nil {
				t.Errorf("%q: expected error, but got none", test.addr)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: unexpected error %v", test.addr, err)
			continue
		}

		addr := ls.Addr().(*net.TCPAddr)
		port := ls.GetPort()

		if test.random {
			if port <= 0 {
				t.Errorf("%q: expected a random port, got %v", test.addr, port)
			}
		} else if !strings.HasSuffix(addr.String(), ":"+test.port) {
			t.Errorf("%q: expected the same port %v != %v", test.addr, test.port, port)
		}
		ls.Close()
	}
}

func TestFailOnPortInUse(t *testing.T) {
	a, err := NewListener("127.0.0.1:0")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	defer a.Close()
	if _, err = NewListener(a.Addr().String()); err == nil {
		t.Error("expected busy port error, but got none")
	}
}
