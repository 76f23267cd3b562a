package client

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// MessageExtension is the file extension of message files in a directory
const MessageExtension = ".hl7"

// Message is a payload loaded from a file
type Message struct {
	Name    string
	Payload []byte
}

// LoadMessages reads the given files and directories. Directories contribute
// their *.hl7 files sorted by name; file content is trimmed of surrounding whitespace.
func LoadMessages(paths []string) ([]Message, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}

		matches, err := filepath.Glob(filepath.Join(p, "*"+MessageExtension))
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", p, err)
		}
		sort.Strings(matches)
		files = append(files, matches...)
	}

	messages := make([]Message, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		payload := bytes.TrimSpace(data)
		if len(payload) == 0 {
			Logger.Warningf("Skipping empty file %s", f)
			continue
		}
		messages = append(messages, Message{Name: f, Payload: payload})
	}
	return messages, nil
}

// Printable renders a payload for terminal output, segments on separate lines
func Printable(payload []byte) string {
	return strings.TrimRight(strings.ReplaceAll(string(payload), "\r", "\n"), "\n")
}
