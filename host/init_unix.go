//go:build unix

package host

// Unix socket calls need no process-wide setup or teardown.
func platformInitialize() error { return nil }
func platformTerminate() error  { return nil }
