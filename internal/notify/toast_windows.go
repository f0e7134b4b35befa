//go:build windows

package notify

// toastSupported is true on Windows, where WinRT toasts are available
const toastSupported = true
