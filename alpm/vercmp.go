package alpm

import "strings"

// VerCmp compares two alpm package versions of the form [epoch:]version[-release]
// with the same ordering rules as libalpm's vercmp. It returns a negative value
// when a is older than b, zero when they are equal and a positive value when a
// is newer than b.
//
// Versions are not semver: segments are compared numerically when both are
// numeric and lexically when both are alphabetic, a numeric segment always
// beats an alphabetic one, and a trailing alphabetic segment makes a version
// older ("1.0rc1" < "1.0").
func VerCmp(a, b string) int {
	if a == b {
		return 0
	}

	epochA, verA, relA := splitEVR(a)
	epochB, verB, relB := splitEVR(b)

	if epochA != epochB {
		return compareSegments(epochA, epochB)
	}

	if cmp := compareSegments(verA, verB); cmp != 0 {
		return cmp
	}

	// Release is only significant when both versions carry one.
	if relA != "" && relB != "" {
		return compareSegments(relA, relB)
	}

	return 0
}

// splitEVR splits a version string into epoch, version and release.
// Missing epoch defaults to "0"; missing release yields "".
func splitEVR(evr string) (epoch, version, release string) {
	epoch = "0"

	if idx := strings.IndexByte(evr, ':'); idx >= 0 {
		if idx > 0 {
			epoch = evr[:idx]
		}
		evr = evr[idx+1:]
	}

	if idx := strings.LastIndexByte(evr, '-'); idx >= 0 {
		release = evr[idx+1:]
		evr = evr[:idx]
	}

	return epoch, evr, release
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlnum(c byte) bool {
	return isDigit(c) || isAlpha(c)
}

// compareSegments implements the rpmvercmp walk over alternating numeric and
// alphabetic segments.
func compareSegments(a, b string) int {
	i, j := 0, 0

	for i < len(a) && j < len(b) {
		for i < len(a) && !isAlnum(a[i]) {
			i++
		}
		for j < len(b) && !isAlnum(b[j]) {
			j++
		}

		if i >= len(a) || j >= len(b) {
			break
		}

		numeric := isDigit(a[i])

		var segA, segB string
		if numeric {
			segA, i = takeRun(a, i, isDigit)
			segB, j = takeRun(b, j, isDigit)
		} else {
			segA, i = takeRun(a, i, isAlpha)
			segB, j = takeRun(b, j, isAlpha)
		}

		// The other side has a segment of the opposite class. A numeric
		// segment is always newer than an alphabetic one.
		if segB == "" {
			if numeric {
				return 1
			}
			return -1
		}

		var cmp int
		if numeric {
			cmp = compareNumeric(segA, segB)
		} else {
			cmp = strings.Compare(segA, segB)
		}

		if cmp != 0 {
			return cmp
		}
	}

	// One side ran out of segments. A remaining alphabetic tail marks an
	// older version, a remaining numeric tail a newer one.
	if i >= len(a) && j >= len(b) {
		return 0
	}

	if i >= len(a) {
		if j < len(b) && isAlpha(b[j]) {
			return 1
		}
		return -1
	}

	if isAlpha(a[i]) {
		return -1
	}
	return 1
}

// takeRun consumes the run of bytes satisfying class starting at pos.
func takeRun(s string, pos int, class func(byte) bool) (string, int) {
	start := pos
	for pos < len(s) && class(s[pos]) {
		pos++
	}
	return s[start:pos], pos
}

func compareNumeric(a, b string) int {
	a = strings.TrimLeft(a, "0")
	b = strings.TrimLeft(b, "0")

	if len(a) != len(b) {
		if len(a) > len(b) {
			return 1
		}
		return -1
	}

	return strings.Compare(a, b)
}
