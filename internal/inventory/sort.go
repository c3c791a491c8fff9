package inventory

import (
	"math/big"
	"sort"
)

// SortKey splits a hostname into its leading text and trailing decimal
// suffix. Hostnames without trailing digits have suffix 0. Suffixes too long
// for an int64 still compare numerically through big.Int.
func SortKey(hostname string) (prefix string, suffix *big.Int) {
	i := len(hostname)
	for i > 0 && hostname[i-1] >= '0' && hostname[i-1] <= '9' {
		i--
	}

	suffix = new(big.Int)
	if i < len(hostname) {
		suffix.SetString(hostname[i:], 10)
	}
	return hostname[:i], suffix
}

// CompareHosts orders hostnames by prefix, then numeric suffix, then the full
// name so "node1" and "node01" still have a fixed order.
func CompareHosts(a, b string) int {
	pa, sa := SortKey(a)
	pb, sb := SortKey(b)

	switch {
	case pa < pb:
		return -1
	case pa > pb:
		return 1
	}

	if c := sa.Cmp(sb); c != 0 {
		return c
	}

	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// SortHosts sorts hostnames in place so that "worker-2" precedes "worker-10".
func SortHosts(hosts []string) {
	sort.SliceStable(hosts, func(i, j int) bool {
		return CompareHosts(hosts[i], hosts[j]) < 0
	})
}
