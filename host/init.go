package host

// Initialize performs whatever process-wide setup this module's socket
// calls require before the first one. On non-Windows platforms this does
// nothing; on Windows it winds up WSAStartup. Call once, before
// constructing any socket.
func Initialize() error {
	return platformInitialize()
}

// Terminate undoes Initialize. Call once, after every socket this process
// created has been closed.
func Terminate() error {
	return platformTerminate()
}
