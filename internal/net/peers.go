package net

import (
	"log"
	"net"
	"net/http"
	"sync"
)

// PeerTracker records the clients connected to a dev server. Hook it into
// http.Server.ConnState.
type PeerTracker struct {
	peers map[string]net.Conn
	mu    sync.RWMutex
}

func NewPeerTracker() *PeerTracker {
	return &PeerTracker{
		peers: make(map[string]net.Conn),
	}
}

func (pt *PeerTracker) ConnState(conn net.Conn, state http.ConnState) {
	addr := conn.RemoteAddr().String()
	pt.mu.Lock()
	defer pt.mu.Unlock()
	switch state {
	case http.StateNew:
		pt.peers[addr] = conn
		log.Printf("[HOST] Client connected from %s", addr)
	case http.StateHijacked:
		delete(pt.peers, addr)
		log.Printf("[HOST] Client %s switched to websocket", addr)
	case http.StateClosed:
		if _, ok := pt.peers[addr]; ok {
			delete(pt.peers, addr)
			log.Printf("[HOST] Client %s disconnected", addr)
		}
	}
}

// Count is the number of open connections.
func (pt *PeerTracker) Count() int {
	pt.mu.RLock()
	defer pt.mu.RUnlock()
	return len(pt.peers)
}
