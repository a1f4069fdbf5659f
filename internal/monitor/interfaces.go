package monitor

import (
	psnet "github.com/shirou/gopsutil/v3/net"
)

// Interfaces lists the names of all network interfaces on the system,
// including down and virtual ones.
func Interfaces() ([]string, error) {
	ifaces, err := psnet.Interfaces()
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(ifaces))
	for _, iface := range ifaces {
		names = append(names, iface.Name)
	}
	return names, nil
}
