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
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"unsafe"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// This file holds common definitions for the different implementations of dynamiclib (linux, darwin).

const (
	// LibraryPathsEnv is the name of the environment variable that define the search paths for the
	// OpenCL library.
	LibraryPathsEnv = "OPENCL_LIBRARY_PATH"

	// DefaultDriverName is the name of the standard OpenCL ICD loader: libOpenCL.so in linux and the
	// OpenCL framework in Darwin.
	DefaultDriverName = "OpenCL"
)

var (
	// librarySearchPaths is set during initialization.
	//
	// The library is searched in the OPENCL_LIBRARY_PATH directory -- or directories, if it is a ":"
	// separated list. If it is not set it uses the default paths of the OS (osDefaultLibraryPaths).
	librarySearchPaths []string

	// loadedLibraries caches the libraries already loaded, by name. Protected by muLibraries.
	loadedLibraries = make(map[string]*Library)
	muLibraries     sync.Mutex
)

// dllHandleWrapper encapsulates a handler to the dynamic library and provides a minimal interface to
// resolve symbols and to close it.
//
// It is created with loadLibrary (OS specific).
type dllHandleWrapper interface {
	// Symbol returns the C pointer to the named symbol.
	Symbol(name string) (unsafe.Pointer, error)

	// Close handler, after which the symbols are no longer valid.
	Close() error
}

func init() {
	libraryPaths, found := os.LookupEnv(LibraryPathsEnv)
	if !found {
		librarySearchPaths = osDefaultLibraryPaths()
	} else {
		librarySearchPaths = slices.DeleteFunc(strings.Split(libraryPaths, string(os.PathListSeparator)), func(p string) bool {
			return p == "" // Remove empty paths.
		})
	}
}

// LoadDriver loads and initializes the OpenCL library with the given name -- typically DefaultDriverName,
// "OpenCL". The name can also be the absolute path to the library file.
//
// Loaded libraries are singletons and cached: LoadDriver returns the same *Library if called again with
// the same name, or with the absolute path of an already loaded library.
//
// It uses a mutex to serialize (make it safe) calls from different goroutines.
func LoadDriver(name string) (*Library, error) {
	muLibraries.Lock()
	defer muLibraries.Unlock()

	// Search previously loaded library: match by name or by path (if the name given is an absolute path).
	if lib, found := loadedLibraries[name]; found {
		return lib, nil
	}
	if path.IsAbs(name) {
		for _, lib := range loadedLibraries {
			if lib.Path() == name {
				return lib, nil
			}
		}
	}

	var errs []string
	for _, candidate := range libraryCandidates(name) {
		klog.V(1).Infof("attempting to load OpenCL library from %s", candidate)
		handle, err := loadLibrary(candidate)
		if err != nil {
			errs = append(errs, err.Error())
			continue
		}
		lib, err := newLibrary(name, candidate, handle)
		if err != nil {
			if err2 := handle.Close(); err2 != nil {
				klog.Warningf("Failed to close dynamic library %q: %v", candidate, err2)
			}
			errs = append(errs, err.Error())
			continue
		}
		loadedLibraries[name] = lib
		return lib, nil
	}
	return nil, errors.Errorf("failed to load OpenCL library %q (set %s to specific path(s) to search, or give an absolute path): %s",
		name, LibraryPathsEnv, strings.Join(errs, "; "))
}

// libraryCandidates returns the paths to try to load, in order: an absolute name as is; otherwise the
// file found in the search paths (if any), followed by the plain file names, resolved by the system
// dynamic loader.
func libraryCandidates(name string) []string {
	if path.IsAbs(name) {
		return []string{name}
	}
	var candidates []string
	if libraryPath, found := searchLibrary(name); found {
		candidates = append(candidates, libraryPath)
	} else {
		klog.V(1).Infof("OpenCL library %q not found in %v, trying system defaults", name, librarySearchPaths)
	}
	for _, fileName := range libraryFileNames(name) {
		if !slices.Contains(candidates, fileName) {
			candidates = append(candidates, fileName)
		}
	}
	return candidates
}

// searchLibrary returns the first existing file in the search paths matching one of the file names of
// the library.
func searchLibrary(name string) (libraryPath string, found bool) {
	fileNames := libraryFileNames(name)
	for _, dir := range librarySearchPaths {
		for _, fileName := range fileNames {
			candidate := filepath.Join(dir, fileName)
			if path.IsAbs(fileName) {
				candidate = fileName
			}
			info, err := os.Stat(candidate)
			if err != nil || info.IsDir() {
				continue
			}
			return candidate, true
		}
	}
	return "", false
}

// AvailableDrivers searches for files that look like OpenCL libraries (libOpenCL*) in the search paths,
// and returns their paths in the order of the search paths. It doesn't try to load them.
//
// The library is searched in the OPENCL_LIBRARY_PATH directory -- or directories, if it is a ":" separated list.
// If it is not set it will search the standard library directories of the system (in linux LD_LIBRARY_PATH and
// the /etc/ld.so.conf file, in Darwin the OpenCL framework and DYLD_LIBRARY_PATH).
func AvailableDrivers() []string {
	var paths []string
	seen := make(map[string]bool)
	for _, dir := range librarySearchPaths {
		for _, pattern := range libraryFilePatterns {
			candidates, err := filepath.Glob(filepath.Join(dir, pattern))
			if err != nil {
				continue
			}
			for _, candidate := range candidates {
				if seen[candidate] {
					continue
				}
				seen[candidate] = true
				if info, err := os.Stat(candidate); err != nil || info.IsDir() {
					continue
				}
				paths = append(paths, candidate)
			}
		}
	}
	return paths
}
