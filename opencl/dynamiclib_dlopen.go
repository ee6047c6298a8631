//go:build linux || darwin

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

// This file handles loading dynamic libraries with dlopen.
//
// Modified version of https://github.com/coreos/pkg/blob/main/dlopen/dlopen.go, licenced with Apache 2.0 license
// https://github.com/coreos/pkg/blob/main/LICENSE

// #cgo linux LDFLAGS: -ldl
/*
#include <stdlib.h>
#include <dlfcn.h>
*/
import "C"
import (
	"os"
	"path"
	"unsafe"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// loadLibrary dlopen's the library and returns a handle to it.
//
// If libraryPath is not absolute, it is resolved by the system dynamic loader.
func loadLibrary(libraryPath string) (handleWrapper dllHandleWrapper, err error) {
	// A missing file is not checked here: in Darwin system libraries live only in the dyld shared cache.
	if info, statErr := os.Stat(libraryPath); statErr == nil && info.IsDir() {
		err = errors.Errorf("library path %q is a directory!?", libraryPath)
		return
	}

	nameC := C.CString(libraryPath)
	klog.V(2).Infof("trying to load library %s\n", libraryPath)
	handle := C.dlopen(nameC, C.RTLD_NOW|C.RTLD_LOCAL)
	cFree(nameC)
	if handle == nil {
		msg := C.GoString(C.dlerror())
		err = errors.Errorf("failed to dynamically load %q: %s", libraryPath, msg)
		if path.IsAbs(libraryPath) {
			// The file exists, so it's likely a missing dependency.
			klog.Warningf("%v -- check with `ldd %s` in case there are missing required libraries", err, libraryPath)
		}
		return
	}
	klog.V(1).Infof("loaded library %s\n", libraryPath)
	handleWrapper = &dlopenHandle{Handle: handle, Name: libraryPath}
	return
}

// dlopenHandle represents an open handle to a library (.so or .dylib).
type dlopenHandle struct {
	Handle unsafe.Pointer
	Name   string
}

// Symbol takes a symbol name and returns a pointer to the symbol.
func (l *dlopenHandle) Symbol(symbol string) (unsafe.Pointer, error) {
	sym := C.CString(symbol)
	defer cFree(sym)

	C.dlerror()
	p := C.dlsym(l.Handle, sym)
	e := C.dlerror()
	if e != nil {
		return nil, errors.Errorf("error resolving symbol %q: %v", symbol, errors.New(C.GoString(e)))
	}
	return p, nil
}

// Close closes the handle.
func (l *dlopenHandle) Close() error {
	C.dlerror()
	C.dlclose(l.Handle)
	e := C.dlerror()
	if e != nil {
		return errors.Errorf("error closing %v: %v", l.Name, errors.New(C.GoString(e)))
	}
	return nil
}
