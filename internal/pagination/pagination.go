// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pagination computes the window of page labels shown under a result
// list: the first and last page, a short run around the current page, and
// ellipsis markers for the hidden stretches in between.
package pagination

import (
	"strconv"
	"strings"
)

// MaxFull is the largest page count shown without elision.
const MaxFull = 7

// EllipsisMark is the rendered form of an elided stretch of pages.
const EllipsisMark = "…"

// Label is one entry in a pagination window: a page number, or an ellipsis
// when Page is zero.
type Label struct {
	Page int
}

// Ellipsis is the Label standing for hidden pages.
var Ellipsis = Label{}

// IsEllipsis reports whether l stands for hidden pages.
func (l Label) IsEllipsis() bool { return l.Page == 0 }

func (l Label) String() string {
	if l.IsEllipsis() {
		return EllipsisMark
	}
	return strconv.Itoa(l.Page)
}

// TotalPages returns how many pages of perPage items hold total items.
func TotalPages(total, perPage int) int {
	if total <= 0 || perPage <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// Window returns the ordered labels to render for current out of total pages.
// current is clamped into [1, total].
func Window(current, total int) []Label {
	if total <= 0 {
		return nil
	}
	current = max(1, min(current, total))

	if total <= MaxFull {
		labels := make([]Label, total)
		for i := range labels {
			labels[i] = Label{Page: i + 1}
		}
		return labels
	}

	var lo, hi int
	switch {
	case current <= 3:
		lo, hi = 2, 4
	case current >= total-2:
		lo, hi = total-3, total-1
	default:
		lo, hi = current-1, current+1
	}

	shown := make([]int, 0, hi-lo+3)
	shown = append(shown, 1)
	for p := lo; p <= hi; p++ {
		shown = append(shown, p)
	}
	shown = append(shown, total)

	labels := make([]Label, 0, len(shown)+2)
	for i, p := range shown {
		if i > 0 {
			switch gap := p - shown[i-1]; {
			case gap == 2:
				// A single hidden page is shown rather than elided.
				labels = append(labels, Label{Page: p - 1})
			case gap > 2:
				labels = append(labels, Ellipsis)
			}
		}
		labels = append(labels, Label{Page: p})
	}
	return labels
}

// Format renders labels on one line, bracketing the current page:
// "1 … 4 [5] 6 … 10".
func Format(labels []Label, current int) string {
	parts := make([]string, len(labels))
	for i, l := range labels {
		if !l.IsEllipsis() && l.Page == current {
			parts[i] = "[" + l.String() + "]"
			continue
		}
		parts[i] = l.String()
	}
	return strings.Join(parts, " ")
}
