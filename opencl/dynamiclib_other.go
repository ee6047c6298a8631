//go:build !linux && !darwin

package opencl

import (
	"runtime"

	"github.com/pkg/errors"
)

// libraryFilePatterns are the glob patterns used by AvailableDrivers.
var libraryFilePatterns = []string{"OpenCL.dll"}

func osDefaultLibraryPaths() []string { return nil }

func libraryFileNames(name string) []string { return []string{name} }

// loadLibrary is not implemented for this OS.
func loadLibrary(libraryPath string) (dllHandleWrapper, error) {
	return nil, errors.Errorf("loading OpenCL library %q: dynamic loading not supported in %s", libraryPath, runtime.GOOS)
}
