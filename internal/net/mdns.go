package net

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const (
	ServiceType = "_taskcanvas._tcp"
	DefaultPath = "/graphql"
)

// ErrNotFound is returned by Discover when no service answered in time.
var ErrNotFound = errors.New("no canvas service found")

// Advertise announces a canvas service on port with its GraphQL path in a
// path= TXT record. Shut the returned server down to stop announcing.
func Advertise(port int, path string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	var ips []net.IP
	if ip, err := OutgoingIP(); err == nil {
		ips = []net.IP{net.ParseIP(ip)}
	}

	service, err := mdns.NewMDNSService(host, ServiceType, "", "", port, ips, []string{"TaskCanvas", "path=" + path})
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}
	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Printf("[MDNS] Advertising %s on port %d", ServiceType, port)
	return server, nil
}

// Discover browses the LAN for a canvas service and returns the endpoint
// of the first usable answer.
func Discover(ctx context.Context, timeout time.Duration) (string, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	found := make(chan string, 1)
	go func() {
		for e := range entries {
			if endpoint, ok := EntryEndpoint(e); ok {
				select {
				case found <- endpoint:
				default:
				}
			}
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true

	queryDone := make(chan error, 1)
	go func() {
		err := mdns.Query(params)
		close(entries)
		queryDone <- err
	}()

	select {
	case endpoint := <-found:
		log.Printf("[MDNS] Found canvas service at %s", endpoint)
		return endpoint, nil
	case err := <-queryDone:
		select {
		case endpoint := <-found:
			log.Printf("[MDNS] Found canvas service at %s", endpoint)
			return endpoint, nil
		default:
		}
		if err != nil {
			return "", fmt.Errorf("mdns query: %w", err)
		}
		return "", ErrNotFound
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// EntryEndpoint builds http://<ipv4>:<port><path> from an mDNS answer.
func EntryEndpoint(e *mdns.ServiceEntry) (string, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return "", false
	}
	path := DefaultPath
	for _, field := range e.InfoFields {
		if v, ok := strings.CutPrefix(field, "path="); ok && v != "" {
			path = v
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
		}
	}
	return fmt.Sprintf("http://%s%s", net.JoinHostPort(e.AddrV4.String(), fmt.Sprint(e.Port)), path), true
}
