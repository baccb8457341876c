package config

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
)

// entry is one key=value line of an input file.
type entry struct {
	key   string
	value string
}

// inputFile holds the key=value lines of a server or flags file in file
// order. Repeated keys are all kept. Values are taken verbatim after the
// first '=', so backslashes, colons and further '=' survive.
type inputFile []entry

func readInputFile(path string) (inputFile, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	defer f.Close()

	entries, err := parseInputFile(f)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", path, err)
	}
	return entries, true, nil
}

func parseInputFile(r io.Reader) (inputFile, error) {
	var entries inputFile
	scanner := bufio.NewScanner(r)
	first := true
	for scanner.Scan() {
		line := scanner.Text()
		if first {
			line = strings.TrimPrefix(line, "\ufeff")
			first = false
		}
		line = strings.TrimSpace(line)

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		entries = append(entries, entry{key: key, value: value})
	}
	return entries, scanner.Err()
}

// lookup returns the last value written for key.
func (in inputFile) lookup(key string) (string, bool) {
	for i := len(in) - 1; i >= 0; i-- {
		if in[i].key == key {
			return in[i].value, true
		}
	}
	return "", false
}

func (in inputFile) overlay(key string, dst *string) {
	if v, ok := in.lookup(key); ok {
		*dst = v
	}
}

// withPrefix returns every value whose key starts with prefix, in file order.
func (in inputFile) withPrefix(prefix string) []string {
	var values []string
	for _, e := range in {
		if strings.HasPrefix(e.key, prefix) {
			values = append(values, e.value)
		}
	}
	return values
}
