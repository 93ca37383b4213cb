// Package discovery advertises the server on the local network so clients
// can find boards without knowing the host address.
package discovery

import (
	"fmt"
	"os"

	"github.com/hashicorp/mdns"
)

const ServiceType = "_whiteboard._tcp"

// Advertise announces the server on mDNS until Shutdown is called on the
// returned server. An empty instance uses the host name.
func Advertise(instance string, port int) (*mdns.Server, error) {
	instance, err := instanceName(instance, os.Hostname)
	if err != nil {
		return nil, err
	}

	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil, txtRecords(port))
	if err != nil {
		return nil, fmt.Errorf("create mdns service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mdns server: %w", err)
	}
	return server, nil
}

func instanceName(instance string, hostname func() (string, error)) (string, error) {
	if instance != "" {
		return instance, nil
	}
	host, err := hostname()
	if err != nil {
		return "", fmt.Errorf("get hostname: %w", err)
	}
	return host, nil
}

func txtRecords(port int) []string {
	return []string{
		"app=whiteboard",
		"ws=/ws/board/{id}",
		fmt.Sprintf("port=%d", port),
	}
}
