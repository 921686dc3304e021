// Copyright 2026 The ICS Connect Authors
// SPDX-License-Identifier: Apache-2.0

package connectui

import (
	"strings"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// FuzzyResult is a fuzzy match outcome: a relevance score and the
// rune positions of the matched characters. Score 0 means no match.
type FuzzyResult struct {
	Score     int
	Positions []int
}

// FuzzyMatch scores pattern against text using fzf's V2 algorithm.
// Matching is case-insensitive: both sides are lowercased before
// scoring. An empty pattern matches everything with score 0 and no
// positions; callers treat that as "no filter". The slab is optional
// scratch space that can be reused across calls on one goroutine.
func FuzzyMatch(text string, pattern []rune, slab *util.Slab) FuzzyResult {
	if len(pattern) == 0 {
		return FuzzyResult{}
	}
	lowered := make([]rune, len(pattern))
	for i, r := range pattern {
		lowered[i] = toLowerRune(r)
	}
	chars := util.ToChars([]byte(strings.ToLower(text)))
	result, positions := algo.FuzzyMatchV2(false, true, true, &chars, lowered, true, slab)
	if result.Score <= 0 {
		return FuzzyResult{}
	}
	out := FuzzyResult{Score: result.Score}
	if positions != nil {
		out.Positions = *positions
	}
	return out
}

func toLowerRune(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

// filterIndices returns the indices of rows whose text matches the
// pattern, best score first. An empty pattern keeps every row in its
// original order.
func filterIndices(rows []string, pattern string) []int {
	if strings.TrimSpace(pattern) == "" {
		out := make([]int, len(rows))
		for i := range rows {
			out[i] = i
		}
		return out
	}
	runes := []rune(pattern)
	slab := util.MakeSlab(100*1024, 2048)
	type scored struct {
		index int
		score int
	}
	var matches []scored
	for i, row := range rows {
		if r := FuzzyMatch(row, runes, slab); r.Score > 0 {
			matches = append(matches, scored{index: i, score: r.Score})
		}
	}
	// Stable by construction: sort on score only, ties keep row order.
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].score > matches[j-1].score; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
	out := make([]int, len(matches))
	for i, m := range matches {
		out[i] = m.index
	}
	return out
}
