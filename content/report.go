// ABOUTME: Build report collecting found and missing statements plus written files and byte counts.
// ABOUTME: Renders a lipgloss-styled summary with humanized sizes for the CLI.
package content

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	reportTitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("170"))
	reportLabelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(12)
	reportOKStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	reportWarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	reportMissingStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// Report summarizes a build. It is safe for concurrent use while the build runs.
type Report struct {
	mu      sync.Mutex
	found   map[string]bool
	missing map[string]bool
	files   map[string]int

	cacheHits   int
	conversions int
}

func newReport() *Report {
	return &Report{
		found:   make(map[string]bool),
		missing: make(map[string]bool),
		files:   make(map[string]int),
	}
}

// noteMissing records a missing source and reports whether it was new.
func (r *Report) noteMissing(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.missing[key] {
		return false
	}
	r.missing[key] = true
	return true
}

func (r *Report) noteFound(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.found[key] = true
}

func (r *Report) noteFile(name string, size int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files[name] = size
}

func (r *Report) noteConversions(hits, misses int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cacheHits = hits
	r.conversions = misses
}

// Conversions returns how many sources were converted and how many lookups
// reused an earlier conversion.
func (r *Report) Conversions() (converted, reused int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conversions, r.cacheHits
}

// Found returns the number of distinct statements that were read.
func (r *Report) Found() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.found)
}

// Missing returns the sorted source keys that could not be read.
func (r *Report) Missing() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.missing))
	for k := range r.missing {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Files returns the sorted names of the files written.
func (r *Report) Files() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.files))
	for n := range r.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Bytes returns the total size of the files written.
func (r *Report) Bytes() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	var total uint64
	for _, n := range r.files {
		total += uint64(n)
	}
	return total
}

// Render formats the report for a terminal.
func (r *Report) Render() string {
	missing := r.Missing()

	var b strings.Builder
	b.WriteString(reportTitleStyle.Render("Build complete"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", reportLabelStyle.Render("statements"), reportOKStyle.Render(fmt.Sprintf("%d found", r.Found())))
	if len(missing) > 0 {
		fmt.Fprintf(&b, "%s %s\n", reportLabelStyle.Render("missing"), reportWarnStyle.Render(fmt.Sprintf("%d", len(missing))))
	}
	if converted, reused := r.Conversions(); converted+reused > 0 {
		fmt.Fprintf(&b, "%s %d (%d reused)\n", reportLabelStyle.Render("converted"), converted, reused)
	}
	fmt.Fprintf(&b, "%s %d (%s)\n", reportLabelStyle.Render("files"), len(r.Files()), humanize.Bytes(r.Bytes()))
	for _, key := range missing {
		b.WriteString(reportMissingStyle.Render("  - " + key))
		b.WriteString("\n")
	}
	return b.String()
}
