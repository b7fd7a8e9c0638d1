package core

import "strings"

// MatchIndices returns the indices of all items containing query as a
// substring, in order. An empty query matches every item, mirroring how an
// empty search confirms to "show everything".
func MatchIndices(items []string, query string) []int {
	var out []int
	for i, item := range items {
		if strings.Contains(item, query) {
			out = append(out, i)
		}
	}
	return out
}

// NextMatch advances cur by one position through a match list of length n,
// wrapping at the end. PrevMatch is its inverse. Both return cur unchanged
// when n is zero.
func NextMatch(cur, n int) int {
	if n == 0 {
		return cur
	}
	return (cur + 1) % n
}

// PrevMatch retreats cur by one position, wrapping at the front.
func PrevMatch(cur, n int) int {
	if n == 0 {
		return cur
	}
	return (cur + n - 1) % n
}
