package httpx

import (
	"net"
	"strconv"
)

type Listener struct {
	net.Listener
}

func NewListener(address string) (*Listener, error) {
	ls, err := net.Listen("tcp", address)
	if err != nil {
		return nil, err
	}
	return &Listener{ls}, nil
}

func (l Listener) GetPort() int {
	if addr, ok := l.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	if _, p, err := net.SplitHostPort(l.Addr().String()); err == nil {
		if port, err := strconv.Atoi(p); err == nil {
			return port
		}
	}
	return 0
}
