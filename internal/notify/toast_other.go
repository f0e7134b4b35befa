//go:build !windows

package notify

// toastSupported is false off Windows; the toast channel never runs there
const toastSupported = false
