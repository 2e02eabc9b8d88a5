// Package netutil discovers the local-network IPv4 address that phones on
// the same LAN can reach.
package netutil

import (
	"fmt"
	"net"

	"github.com/jackpal/gateway"
)

// LocalIP returns the best guess at this machine's LAN IPv4 address.
// It first looks for the interface sharing a subnet with the default
// gateway, then falls back to the address an outbound UDP socket would
// bind, and finally to the loopback address.
func LocalIP() string {
	if ip, err := gatewayLocalIP(); err == nil {
		return ip.String()
	}
	if ip, err := outboundLocalIP(); err == nil {
		return ip.String()
	}
	return "127.0.0.1"
}

// gatewayLocalIP finds the local IPv4 on the same subnet as the default
// gateway.
func gatewayLocalIP() (net.IP, error) {
	gwIP, err := gateway.DiscoverGateway()
	if err != nil {
		return nil, fmt.Errorf("failed to discover gateway: %w", err)
	}

	interfaces, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve network interfaces: %w", err)
	}

	for _, iface := range interfaces {
		if iface.Flags&net.FlagUp == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		if ip, ok := matchSubnet(gwIP, addrs); ok {
			return ip, nil
		}
	}

	return nil, fmt.Errorf("no local IPv4 address found in the same subnet as gateway %s", gwIP)
}

// matchSubnet returns the first global-unicast IPv4 address whose network
// contains the gateway IP.
func matchSubnet(gwIP net.IP, addrs []net.Addr) (net.IP, bool) {
	for _, addr := range addrs {
		ipnet, ok := addr.(*net.IPNet)
		if !ok {
			continue
		}
		ipv4 := ipnet.IP.To4()
		if ipv4 == nil || !ipv4.IsGlobalUnicast() || ipv4.IsLoopback() {
			continue
		}
		if ipnet.Contains(gwIP) {
			return ipv4, true
		}
	}
	return nil, false
}

// outboundLocalIP reads the source address the kernel would pick for
// outbound traffic. No packet is sent; UDP "connect" only selects a route.
func outboundLocalIP() (net.IP, error) {
	conn, err := net.Dial("udp", "8.8.8.8:80")
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil {
		return nil, fmt.Errorf("unexpected local address %v", conn.LocalAddr())
	}
	return addr.IP, nil
}
