// Package config reads the declarative sriovconf configuration source and
// turns it into the resolved PF/VF provisioning maps.
//
// The source is a plain text file made of sections. A line ending in ":"
// opens a section; the indented lines that follow belong to it. The "all"
// section applies to every host, a section named after a host applies to
// that host only, and host entries override global ones key by key.
package config

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// GlobalSection is the section name whose lines apply to every host.
const GlobalSection = "all"

// ErrConfigNotFound is returned when the configuration source cannot be read.
var ErrConfigNotFound = errors.New("configuration source not found")

// Line is one non-empty, non-comment content line of the configuration,
// tagged with the section it appeared under.
type Line struct {
	Section string
	Number  int
	Text    string
}

// Resolve reads the configuration file at path and splits its content lines
// into the global set and the set specific to host. Lines under any other
// section are ignored. File order is preserved within each returned set;
// later lines override earlier ones during parsing, so order matters.
func Resolve(path, host string) (global, hostLines []Line, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(ErrConfigNotFound, "%s: %v", path, err)
	}
	defer f.Close()

	return resolve(f, host)
}

func resolve(r io.Reader, host string) (global, hostLines []Line, err error) {
	var section string

	scanner := bufio.NewScanner(r)
	for number := 1; scanner.Scan(); number++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasSuffix(line, ":") && len(strings.Fields(line)) == 1 {
			section = strings.TrimSuffix(line, ":")
			continue
		}

		switch section {
		case GlobalSection:
			global = append(global, Line{Section: section, Number: number, Text: line})
		case host:
			hostLines = append(hostLines, Line{Section: section, Number: number, Text: line})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, errors.Wrapf(ErrConfigNotFound, "reading configuration: %v", err)
	}

	return global, hostLines, nil
}
