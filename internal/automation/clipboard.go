package automation

import "github.com/atotto/clipboard"

// SystemClipboard writes to the operating system clipboard
type SystemClipboard struct{}

// WriteAll replaces the clipboard contents
func (SystemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// ReadAll returns the clipboard contents
func (SystemClipboard) ReadAll() (string, error) {
	return clipboard.ReadAll()
}
