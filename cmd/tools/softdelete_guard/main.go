package main

import (
	"bufio"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// softdelete_guard scans .sql query files and ensures every named query that reads
// or modifies products filters out soft-deleted rows. A query can opt out with a
// "-- guard: include-deleted" line.
// Exit code 0 = ok, 1 = violation, 2 = other error.
func main() {
	root := "internal/db/queries"
	if len(os.Args) > 1 {
		root = os.Args[1]
	}
	deny, err := scan(root)
	if err != nil {
		fmt.Fprintf(os.Stderr, "softdelete_guard error: %v\n", err)
		os.Exit(2)
	}
	if len(deny) > 0 {
		for _, v := range deny {
			fmt.Fprintf(os.Stderr, "VIOLATION: %s\n", v)
		}
		os.Exit(1)
	}
	fmt.Println("softdelete_guard: OK")
}

var (
	reName     = regexp.MustCompile(`(?i)^\s*--\s*name:\s*(\w+)`)
	reAllow    = regexp.MustCompile(`(?i)^\s*--\s*guard:\s*include-deleted`)
	reStmt     = regexp.MustCompile(`(?i)^\s*(select|update|delete)\b`)
	reProducts = regexp.MustCompile(`(?i)\b(from|update|join)\s+products\b`)
	reFilter   = regexp.MustCompile(`(?i)\bdeleted_at\s+is\s+null\b`)
)

type query struct {
	name     string
	allow    bool
	stmt     bool
	products bool
	filtered bool
}

func (q query) violates() bool {
	return q.name != "" && q.stmt && q.products && !q.filtered && !q.allow
}

func scan(dir string) ([]string, error) {
	var violations []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(path) != ".sql" {
			return nil
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer func() {
			_ = f.Close()
		}()
		names, err := check(f)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		for _, name := range names {
			violations = append(violations, path+": "+name)
		}
		return nil
	})
	return violations, err
}

// check returns the names of queries in r that touch products without a
// soft-delete filter.
func check(r io.Reader) ([]string, error) {
	var (
		out     []string
		current query
	)
	flush := func() {
		if current.violates() {
			out = append(out, current.name)
		}
	}
	s := bufio.NewScanner(r)
	for s.Scan() {
		line := s.Text()
		if m := reName.FindStringSubmatch(line); m != nil {
			flush()
			current = query{name: m[1]}
			continue
		}
		if reAllow.MatchString(line) {
			current.allow = true
			continue
		}
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		if reStmt.MatchString(line) {
			current.stmt = true
		}
		if reProducts.MatchString(line) {
			current.products = true
		}
		if reFilter.MatchString(line) {
			current.filtered = true
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	flush()
	return out, nil
}
