package source

import (
	"fmt"
	"path"
	"strings"

	"github.com/gobwas/glob"
)

// patternSet matches slash-separated repo-relative paths against tsconfig
// include or exclude patterns.
type patternSet struct {
	globs []glob.Glob
}

// compileInclude compiles "include" patterns. A pattern whose last segment has
// no wildcard and no extension names a directory and matches everything below
// it.
func compileInclude(patterns []string) (*patternSet, error) {
	return compilePatterns(patterns, "/**/*")
}

// compileExclude compiles "exclude" patterns. A pattern without wildcards
// matches the path itself and everything below it.
func compileExclude(patterns []string) (*patternSet, error) {
	return compilePatterns(patterns, "/**")
}

func compilePatterns(patterns []string, dirSuffix string) (*patternSet, error) {
	set := &patternSet{}
	for _, raw := range patterns {
		p := strings.TrimPrefix(path.Clean(raw), "./")
		var variants []string
		switch {
		case p == "." || p == "":
			variants = []string{"**"}
		case !hasWildcard(p):
			variants = []string{p, p + dirSuffix}
		default:
			variants = []string{p}
		}

		for _, v := range variants {
			for _, expanded := range expandDoubleStar(v) {
				g, err := glob.Compile(expanded, '/')
				if err != nil {
					return nil, fmt.Errorf("%w: pattern %q: %v", ErrConfigInvalid, raw, err)
				}
				set.globs = append(set.globs, g)
			}
		}
	}
	return set, nil
}

// Match reports whether rel matches any pattern in the set.
func (s *patternSet) Match(rel string) bool {
	for _, g := range s.globs {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func hasWildcard(p string) bool {
	return strings.ContainsAny(p, "*?[{")
}

// expandDoubleStar returns the pattern plus variants where each "**/" segment
// matches zero directories, since glob's "**" still requires the separators
// around it to be present.
func expandDoubleStar(p string) []string {
	out := []string{p}
	for i := 0; i < len(out); i++ {
		cur := out[i]
		if strings.HasPrefix(cur, "**/") {
			out = appendUnique(out, strings.TrimPrefix(cur, "**/"))
		}
		for start := 0; ; {
			idx := strings.Index(cur[start:], "/**/")
			if idx < 0 {
				break
			}
			idx += start
			out = appendUnique(out, cur[:idx]+"/"+cur[idx+len("/**/"):])
			start = idx + 1
		}
	}
	return out
}

func appendUnique(list []string, s string) []string {
	for _, v := range list {
		if v == s {
			return list
		}
	}
	return append(list, s)
}
