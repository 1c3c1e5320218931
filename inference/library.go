package inference

import "runtime"

// SharedLibPath returns the path to the onnxruntime shared library for the
// current platform.
//
// Returns:
//   - string: The path to the shared library.
func SharedLibPath() string {
	if runtime.GOOS == "windows" {
		if runtime.GOARCH == "amd64" {
			return "./third_party/onnxruntime.dll"
		}
	}
	if runtime.GOOS == "darwin" {
		return "./third_party/libonnxruntime.dylib"
	}
	if runtime.GOOS == "linux" {
		if runtime.GOARCH == "arm64" {
			return "./third_party/onnxruntime_arm64.so"
		}
		return "./third_party/onnxruntime.so"
	}
	return ""
}
