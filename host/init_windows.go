//go:build windows

package host

import "golang.org/x/sys/windows"

// platformInitialize performs the WSAStartup dance the original plugin's
// API.cpp did once at load time.
func platformInitialize() error {
	var data windows.WSAData
	return windows.WSAStartup(uint32(0x0202), &data)
}

func platformTerminate() error {
	return windows.WSACleanup()
}
