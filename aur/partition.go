package aur

// ImmediateInstall marks a build queue entry that must be installed as soon
// as it is built because a later queue entry depends on it.
type ImmediateInstall struct {
	Metadata *PackageMetadata

	// RequiredBy is the first later queue entry that declares this package
	// as a dependency. Informational only; correctness does not depend on
	// which dependent is reported.
	RequiredBy string
}

// Partition splits a resolved build queue into entries that must be installed
// immediately after building and entries that can be deferred to a single
// final batch install.
//
// An entry is immediate when a strictly later queue entry lists its name
// among its runtime, make or check dependencies: makepkg for the later entry
// needs the dependency present on disk. Everything else is batched so the
// user sees one install transaction at the end.
//
// The scan is quadratic in the queue length, which is fine for the tens of
// packages an AUR transaction realistically contains.
func Partition(queue []*PackageMetadata) (immediate []ImmediateInstall, deferred []*PackageMetadata) {
	depSets := make([]map[string]struct{}, len(queue))
	for i, meta := range queue {
		set := make(map[string]struct{})
		for _, dep := range meta.AllDependencies() {
			set[dep] = struct{}{}
		}
		depSets[i] = set
	}

	for i, meta := range queue {
		requiredBy := ""
		for j := i + 1; j < len(queue); j++ {
			if _, ok := depSets[j][meta.Name]; ok {
				requiredBy = queue[j].Name
				break
			}
		}

		if requiredBy != "" {
			immediate = append(immediate, ImmediateInstall{Metadata: meta, RequiredBy: requiredBy})
		} else {
			deferred = append(deferred, meta)
		}
	}

	return immediate, deferred
}
