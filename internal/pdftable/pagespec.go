package pdftable

import (
	"sort"
	"strconv"
	"strings"
)

// ParsePageSpec expands a page-range spec into sorted, deduplicated
// 0-indexed page numbers. Grammar: "all", a bare 1-indexed page "N", a
// comma list "1,3,5", an inclusive range "a-b", or any comma-separated
// combination. Out-of-range pages and malformed chunks are silently
// dropped.
func ParsePageSpec(spec string, numPages int) []int {
	spec = strings.TrimSpace(strings.ToLower(spec))
	if numPages <= 0 {
		return []int{}
	}
	if spec == "" || spec == "all" {
		pages := make([]int, numPages)
		for i := range pages {
			pages[i] = i
		}
		return pages
	}

	seen := make(map[int]bool)
	for _, chunk := range strings.Split(spec, ",") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}
		if lo, hi, ok := parseRange(chunk); ok {
			for p := lo; p <= hi; p++ {
				if p >= 1 && p <= numPages {
					seen[p-1] = true
				}
			}
			continue
		}
		if p, err := strconv.Atoi(chunk); err == nil {
			if p >= 1 && p <= numPages {
				seen[p-1] = true
			}
		}
	}

	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)
	return pages
}

func parseRange(chunk string) (lo, hi int, ok bool) {
	parts := strings.SplitN(chunk, "-", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}
	lo, err1 := strconv.Atoi(strings.TrimSpace(parts[0]))
	hi, err2 := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err1 != nil || err2 != nil || lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}
