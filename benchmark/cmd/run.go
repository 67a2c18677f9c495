package main

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type BenchmarkResult struct {
	Name       string
	Framework  string
	Category   string
	Scenario   string
	Iterations int64
	NsPerOp    float64
	BytesPerOp int64
	AllocsOp   int64
}

type CategoryResults struct {
	Category string
	Results  []BenchmarkResult
}

var frameworkColors = map[string]text.Color{
	"Loom": text.FgGreen,
	"Do":   text.FgYellow,
	"Dig":  text.FgMagenta,
	"Fx":   text.FgBlue,
}

var categoryOrder = []string{
	"Register_Simple", "Register_Chain",
	"Resolve_Singleton", "Resolve_Chain", "Resolve_Transient",
	"Named_10",
	"Scope_CreateClose", "Scope_ResolveScoped", "Scope_CachedScopedResolve",
}

var categoryTitles = map[string]string{
	"Register_Simple":           "Registration (simple)",
	"Register_Chain":            "Registration (dependency chain)",
	"Resolve_Singleton":         "Resolution (cached singleton)",
	"Resolve_Chain":             "Resolution (dependency chain)",
	"Resolve_Transient":         "Resolution (transient)",
	"Named_10":                  "Named contracts (10 services)",
	"Scope_CreateClose":         "Scope create and close",
	"Scope_ResolveScoped":       "Scoped resolve per scope",
	"Scope_CachedScopedResolve": "Scoped resolve (cached)",
}

func main() {
	fmt.Println()
	fmt.Println(text.Bold.Sprint("loom container benchmark suite"))
	fmt.Println()

	benchDir := ".."
	if len(os.Args) > 1 && os.Args[1] != "--json" {
		benchDir = os.Args[1]
	}

	fmt.Println(text.Faint.Sprint("running benchmarks..."))
	fmt.Println()

	cmd := exec.Command("go", "test", "-bench=.", "-benchmem", "-count=3", "-benchtime=100ms")
	cmd.Dir = benchDir
	output, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			fmt.Fprintf(os.Stderr, "benchmark failed: %s\n", string(exitErr.Stderr))
		}
		os.Exit(1)
	}

	results := parseResults(output)
	grouped := groupByCategory(results)

	for _, cat := range grouped {
		printCategory(cat)
	}

	printSummary(grouped)

	if len(os.Args) > 1 && os.Args[1] == "--json" {
		exportJSON(results)
	}
}

var (
	benchPattern = regexp.MustCompile(`^Benchmark(\w+)-\d+\s+(\d+)\s+([\d.]+) ns/op\s+(\d+) B/op\s+(\d+) allocs/op`)
	namePattern  = regexp.MustCompile(`^([^_]+)_(.+)_(\w+)$`)
)

// parseResults averages the runs of each benchmark across -count repetitions.
func parseResults(output []byte) []BenchmarkResult {
	seen := make(map[string][]BenchmarkResult)

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		matches := benchPattern.FindStringSubmatch(scanner.Text())
		if matches == nil {
			continue
		}

		name := matches[1]
		iterations, _ := strconv.ParseInt(matches[2], 10, 64)
		nsPerOp, _ := strconv.ParseFloat(matches[3], 64)
		bytesPerOp, _ := strconv.ParseInt(matches[4], 10, 64)
		allocsOp, _ := strconv.ParseInt(matches[5], 10, 64)

		var category, scenario, framework string
		if parts := namePattern.FindStringSubmatch(name); parts != nil {
			category = parts[1]
			scenario = parts[2]
			framework = parts[3]
		}

		seen[name] = append(
			seen[name], BenchmarkResult{
				Name:       name,
				Framework:  framework,
				Category:   category,
				Scenario:   scenario,
				Iterations: iterations,
				NsPerOp:    nsPerOp,
				BytesPerOp: bytesPerOp,
				AllocsOp:   allocsOp,
			},
		)
	}

	var results []BenchmarkResult
	for _, runs := range seen {
		if len(runs) == 0 {
			continue
		}

		var totalNs float64
		var totalBytes, totalAllocs int64
		for _, r := range runs {
			totalNs += r.NsPerOp
			totalBytes += r.BytesPerOp
			totalAllocs += r.AllocsOp
		}
		count := float64(len(runs))

		avg := runs[0]
		avg.NsPerOp = totalNs / count
		avg.BytesPerOp = int64(float64(totalBytes) / count)
		avg.AllocsOp = int64(float64(totalAllocs) / count)
		results = append(results, avg)
	}

	return results
}

func groupByCategory(results []BenchmarkResult) []CategoryResults {
	groups := make(map[string][]BenchmarkResult)
	for _, r := range results {
		key := r.Category + "_" + r.Scenario
		groups[key] = append(groups[key], r)
	}

	for _, rs := range groups {
		sort.Slice(rs, func(i, j int) bool { return rs[i].NsPerOp < rs[j].NsPerOp })
	}

	var ordered []CategoryResults
	for _, key := range categoryOrder {
		if rs, ok := groups[key]; ok {
			ordered = append(ordered, CategoryResults{Category: key, Results: rs})
			delete(groups, key)
		}
	}

	var rest []string
	for key := range groups {
		rest = append(rest, key)
	}
	sort.Strings(rest)
	for _, key := range rest {
		ordered = append(ordered, CategoryResults{Category: key, Results: groups[key]})
	}

	return ordered
}

func printCategory(cat CategoryResults) {
	title := categoryTitles[cat.Category]
	if title == "" {
		title = strings.ReplaceAll(cat.Category, "_", " ")
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Framework", "ns/op", "B/op", "allocs/op", ""})

	fastest := cat.Results[0].NsPerOp
	for i, r := range cat.Results {
		note := "fastest"
		if i > 0 && fastest > 0 {
			note = fmt.Sprintf("%.1fx slower", r.NsPerOp/fastest)
		}

		name := r.Framework
		if color, ok := frameworkColors[r.Framework]; ok {
			name = color.Sprint(name)
		}

		t.AppendRow(table.Row{name, formatNs(r.NsPerOp), r.BytesPerOp, r.AllocsOp, text.Faint.Sprint(note)})
	}

	t.Render()
	fmt.Println()
}

func formatNs(ns float64) string {
	if ns >= 1_000_000 {
		return fmt.Sprintf("%.2f ms", ns/1_000_000)
	}
	if ns >= 1_000 {
		return fmt.Sprintf("%.2f µs", ns/1_000)
	}
	return fmt.Sprintf("%.0f ns", ns)
}

func printSummary(groups []CategoryResults) {
	wins := make(map[string]int)
	contested := 0
	for _, cat := range groups {
		// Loom-only categories are not wins over anything.
		if len(cat.Results) > 1 {
			wins[cat.Results[0].Framework]++
			contested++
		}
	}

	type frameworkWins struct {
		name string
		wins int
	}

	var sorted []frameworkWins
	for name, count := range wins {
		sorted = append(sorted, frameworkWins{name, count})
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].wins > sorted[j].wins })

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle("Summary")
	t.AppendHeader(table.Row{"Framework", "Wins"})
	for _, fw := range sorted {
		name := fw.name
		if color, ok := frameworkColors[fw.name]; ok {
			name = color.Sprint(name)
		}
		t.AppendRow(table.Row{name, fmt.Sprintf("%d/%d", fw.wins, contested)})
	}
	t.Render()

	fmt.Println()
	fmt.Println(text.Faint.Sprint("frameworks compared:"))
	fmt.Println("  Loom - this library (github.com/avelins/loom)")
	fmt.Println("  Do   - generics-based DI (github.com/samber/do)")
	fmt.Println("  Dig  - reflection-based DI (go.uber.org/dig)")
	fmt.Println("  Fx   - full application framework (go.uber.org/fx)")
	fmt.Println()
}

func exportJSON(results []BenchmarkResult) {
	output := struct {
		Benchmarks []BenchmarkResult `json:"benchmarks"`
	}{
		Benchmarks: results,
	}

	data, _ := json.MarshalIndent(output, "", "  ")
	_ = os.WriteFile("benchmark_results.json", data, 0644)
	fmt.Println(text.Faint.Sprint("results exported to benchmark_results.json"))
}
