package net

import (
	"errors"
	"fmt"
	"net"
)

// ErrNoAddress is returned when the machine has no usable IPv4 address.
var ErrNoAddress = errors.New("no LAN IPv4 address")

// OutgoingIP is the IPv4 address announced to other machines: the source
// address of the default route if there is one, else the best interface
// address.
func OutgoingIP() (string, error) {
	if ip := routeSource(); ip != nil {
		return ip.String(), nil
	}
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", fmt.Errorf("list interface addresses: %w", err)
	}
	ip := pickIPv4(addrs)
	if ip == nil {
		return "", ErrNoAddress
	}
	return ip.String(), nil
}

// routeSource asks the kernel which address a packet to a TEST-NET host
// would leave from. Dialing UDP sends nothing.
func routeSource() net.IP {
	conn, err := net.Dial("udp4", "192.0.2.1:9")
	if err != nil {
		return nil
	}
	defer conn.Close()
	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || !usable(addr.IP) {
		return nil
	}
	return addr.IP.To4()
}

// pickIPv4 prefers private addresses over public ones.
func pickIPv4(addrs []net.Addr) net.IP {
	var public net.IP
	for _, a := range addrs {
		ipnet, ok := a.(*net.IPNet)
		if !ok || !usable(ipnet.IP) {
			continue
		}
		if ipnet.IP.IsPrivate() {
			return ipnet.IP.To4()
		}
		if public == nil {
			public = ipnet.IP.To4()
		}
	}
	return public
}

func usable(ip net.IP) bool {
	return ip.To4() != nil && !ip.IsLoopback() && !ip.IsLinkLocalUnicast() && !ip.IsUnspecified()
}
