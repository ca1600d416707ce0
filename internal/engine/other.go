//go:build !darwin

package engine

// NewSystemEngine returns a MemoryEngine on non-darwin platforms. The
// macOS Keychain is not available outside of macOS; items are held in
// memory only and will not persist across restarts.
func NewSystemEngine() *MemoryEngine {
	return NewMemoryEngine()
}
