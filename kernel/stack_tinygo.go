//go:build tinygo

package kernel

// TinyGo's runtime does not provide a goroutine-stack unwinder small
// enough to carry on a Cortex-M0; panics are reported by process name
// and message only.
func captureStack() []byte {
	return nil
}
