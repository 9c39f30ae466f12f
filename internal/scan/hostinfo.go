package scan

import (
	"net"
	"os"
	"runtime"

	"github.com/cheng-ren/SecuScope/pkg/types"
)

// GetHostInfo returns basic information about the host the engine runs on.
func GetHostInfo() types.HostInfo {
	hostname, _ := os.Hostname()
	info := types.HostInfo{
		Hostname: hostname,
		OS:       runtime.GOOS,
		Arch:     runtime.GOARCH,
	}

	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return info
	}
	for _, addr := range addrs {
		ipNet, ok := addr.(*net.IPNet)
		if !ok || ipNet.IP.IsLoopback() {
			continue
		}
		if ipNet.IP.To4() != nil {
			info.IPAddresses = append(info.IPAddresses, ipNet.IP.String())
		}
	}
	return info
}
