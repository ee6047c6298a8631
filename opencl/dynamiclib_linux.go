//go:build linux

/*
 *	Copyright 2024 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

package opencl

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"k8s.io/klog/v2"
)

var (
	reLdConfInclude = regexp.MustCompile(`^\s*include\s*(.*)$`)
	reLdConfComment = regexp.MustCompile(`^\s*#`)
	reLdConfPath    = regexp.MustCompile(`^\s*(.+?)\s*$`)

	// libraryFilePatterns are the glob patterns used by AvailableDrivers.
	libraryFilePatterns = []string{"libOpenCL.so*", "libOpenCL*.so*"}

	// systemLibraryPaths are searched after LD_LIBRARY_PATH and /etc/ld.so.conf.
	systemLibraryPaths = []string{"/usr/local/lib", "/usr/lib64", "/usr/lib", "/lib64", "/lib"}
)

// osDefaultLibraryPaths is called during initialization to set the default search paths: the contents of
// LD_LIBRARY_PATH, the directories listed in /etc/ld.so.conf (and its includes) and the standard system
// directories.
func osDefaultLibraryPaths() []string {
	var paths []string

	// Only absolute entries of LD_LIBRARY_PATH.
	for _, ldPath := range strings.Split(os.Getenv("LD_LIBRARY_PATH"), ":") {
		if ldPath == "" || !path.IsAbs(ldPath) {
			// No empty or relative paths.
			continue
		}
		paths = append(paths, ldPath)
	}
	paths = loadLibraryPaths(paths, "/etc/ld.so.conf")
	paths = append(paths, systemLibraryPaths...)
	return uniquePaths(paths)
}

// loadLibraryPaths appends to paths the directories listed in an ld.so.conf formatted file, following
// "include" entries.
func loadLibraryPaths(paths []string, fileWithIncludes string) []string {
	klog.V(2).Infof("Loading paths for libraries from %q", fileWithIncludes)
	file, err := os.Open(fileWithIncludes)
	if err != nil {
		klog.V(1).Infof("Failed to load paths for libraries from %q: %v", fileWithIncludes, err)
		return paths
	}
	defer func() { _ = file.Close() }()
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()
		if parts := reLdConfInclude.FindStringSubmatch(line); len(parts) > 0 {
			// Include pattern: relative patterns are relative to the including file.
			pattern := parts[1]
			if !filepath.IsAbs(pattern) {
				pattern = filepath.Join(filepath.Dir(fileWithIncludes), pattern)
			}
			klog.V(2).Infof("loadLibraryPaths: include %q", pattern)
			files, err := filepath.Glob(pattern)
			if err != nil {
				klog.Errorf("Failed to load paths for libraries while expanding include entry %q: %v", parts[1], err)
				continue
			}
			for _, includeFile := range files {
				paths = loadLibraryPaths(paths, includeFile)
			}

		} else if reLdConfComment.MatchString(line) {
			klog.V(2).Infof("loadLibraryPaths: comment %q", line)

		} else if parts := reLdConfPath.FindStringSubmatch(line); len(parts) > 0 {
			klog.V(2).Infof("loadLibraryPaths: path %q", parts[1])
			paths = append(paths, parts[1])

		} else if strings.TrimSpace(line) != "" {
			klog.V(2).Infof("loadLibraryPaths: cannot parse line %q", line)
		}
	}
	if err := scanner.Err(); err != nil {
		klog.Errorf("Error while loading paths for libraries from %q: %v", fileWithIncludes, err)
	}
	return paths
}

// libraryFileNames returns the file names tried for a library name: "OpenCL" becomes
// "libOpenCL.so.1" (the ICD loader soname) and "libOpenCL.so".
// Names that already look like a file name are returned as is.
func libraryFileNames(name string) []string {
	if strings.Contains(name, ".so") || strings.Contains(name, "/") {
		return []string{name}
	}
	base := name
	if !strings.HasPrefix(base, "lib") {
		base = "lib" + base
	}
	return []string{base + ".so.1", base + ".so"}
}
