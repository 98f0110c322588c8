// Package prompt implements the interactive confirmation gate that guards
// the workspace wipe and the bulk download.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Summary is everything the operator should see before approving the run.
type Summary struct {
	Registry     string
	Username     string
	PackageCount int
	Version      string
}

// Confirm prints the resolved run parameters to w and reads one line from
// r. Only a reply starting with y or Y approves; empty input and EOF
// decline.
func Confirm(r io.Reader, w io.Writer, sum Summary) bool {
	fmt.Fprintf(w, "Registry:  %s\n", sum.Registry)
	fmt.Fprintf(w, "User:      %s\n", sum.Username)
	fmt.Fprintf(w, "Packages:  %d\n", sum.PackageCount)
	fmt.Fprintf(w, "Version:   %s\n", sum.Version)
	fmt.Fprint(w, "Proceed with download? [y/N]: ")

	scanner := bufio.NewScanner(r)
	if !scanner.Scan() {
		return false
	}
	reply := strings.TrimSpace(scanner.Text())
	return reply != "" && (reply[0] == 'y' || reply[0] == 'Y')
}
