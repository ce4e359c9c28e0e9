// Package env loads dotenv files into the process environment.
package env

import (
	"bufio"
	"os"
	"strings"
)

// Load applies KEY=VALUE lines from each existing file in order. Variables
// already present in the real environment are never overridden; later files
// override earlier ones. It returns the files that were read.
func Load(paths ...string) []string {
	pre := map[string]struct{}{}
	for _, e := range os.Environ() {
		if i := strings.IndexByte(e, '='); i > 0 {
			pre[e[:i]] = struct{}{}
		}
	}
	var loaded []string
	for _, p := range paths {
		if p == "" {
			continue
		}
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		sc := bufio.NewScanner(f)
		for sc.Scan() {
			k, v, ok := parseLine(sc.Text())
			if !ok {
				continue
			}
			if _, seen := pre[k]; seen {
				continue
			}
			_ = os.Setenv(k, v)
		}
		_ = f.Close()
		loaded = append(loaded, p)
	}
	return loaded
}

func parseLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
	k, v, ok := strings.Cut(line, "=")
	k = strings.TrimSpace(k)
	if !ok || k == "" {
		return "", "", false
	}
	v = strings.TrimSpace(v)
	if j := strings.Index(v, " #"); j >= 0 {
		v = strings.TrimSpace(v[:j])
	}
	if len(v) >= 2 && (v[0] == '"' && v[len(v)-1] == '"' || v[0] == '\'' && v[len(v)-1] == '\'') {
		v = v[1 : len(v)-1]
	}
	return k, v, true
}
