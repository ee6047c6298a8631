//go:build darwin

package opencl

// This file handles the OS specific parts of loading the OpenCL library for Darwin.
//
// It should implement:
//
//	osDefaultLibraryPaths() []string
//	libraryFileNames(name string) []string
//	libraryFilePatterns []string

import (
	"os"
	"path"
	"strings"
)

const openCLFrameworkDir = "/System/Library/Frameworks/OpenCL.framework"

// libraryFilePatterns are the glob patterns used by AvailableDrivers.
var libraryFilePatterns = []string{"OpenCL", "libOpenCL*.dylib"}

// osDefaultLibraryPaths is called during initialization to set the default search paths.
// It always includes the system OpenCL framework, plus the contents of DYLD_LIBRARY_PATH and LD_LIBRARY_PATH.
func osDefaultLibraryPaths() []string {
	paths := []string{openCLFrameworkDir}
	for _, varName := range []string{"DYLD_LIBRARY_PATH", "LD_LIBRARY_PATH"} {
		for _, ldPath := range strings.Split(os.Getenv(varName), string(os.PathListSeparator)) {
			if ldPath == "" || !path.IsAbs(ldPath) {
				// No empty or relative paths.
				continue
			}
			paths = append(paths, ldPath)
		}
	}
	paths = append(paths, "/usr/local/lib", "/opt/homebrew/lib")
	return uniquePaths(paths)
}

// libraryFileNames returns the file names tried for a library name. "OpenCL" is the framework binary,
// otherwise it's "lib<name>.dylib".
// Names that already look like a file name are returned as is.
func libraryFileNames(name string) []string {
	if strings.Contains(name, ".dylib") || strings.Contains(name, "/") {
		return []string{name}
	}
	if name == DefaultDriverName {
		return []string{path.Join(openCLFrameworkDir, "OpenCL"), "libOpenCL.dylib"}
	}
	base := name
	if !strings.HasPrefix(base, "lib") {
		base = "lib" + base
	}
	return []string{base + ".dylib"}
}
