package opencl

// This file holds the definition of functions commonly used in different parts.

// uniquePaths removes repeated entries, keeping the first occurrence. It reuses the storage of paths.
func uniquePaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	unique := paths[:0]
	for _, p := range paths {
		if seen[p] {
			continue
		}
		seen[p] = true
		unique = append(unique, p)
	}
	return unique
}
