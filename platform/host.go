package platform

import (
	"runtime"

	"github.com/ardanlabs/c2ffi/cdecl"
)

// HostPlatform is the target triple of the running machine.
func HostPlatform() cdecl.Platform {
	return platformFor(runtime.GOOS, runtime.GOARCH)
}

func platformFor(goos, goarch string) cdecl.Platform {
	arch := goarch
	switch goarch {
	case "amd64":
		arch = "x86_64"
	case "arm64":
		arch = "aarch64"
	case "386":
		arch = "i686"
	}

	switch goos {
	case "darwin":
		return cdecl.Platform(arch + "-apple-darwin")
	case "windows":
		return cdecl.Platform(arch + "-pc-windows-msvc")
	case "freebsd":
		return cdecl.Platform(arch + "-unknown-freebsd")
	}
	return cdecl.Platform(arch + "-unknown-linux-gnu")
}
