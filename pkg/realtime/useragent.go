package realtime

import (
	"fmt"
	"runtime"
	"strings"
)

const (
	clientName    = "voxstream-realtime-go"
	clientVersion = "0.3.0"
)

// UserAgent returns the client identification string sent with every
// connection attempt: "product/version Go/goversion os/arch".
func UserAgent() string {
	goVersion := strings.TrimPrefix(runtime.Version(), "go")
	return fmt.Sprintf("%s/%s Go/%s %s/%s", clientName, clientVersion, goVersion, runtime.GOOS, runtime.GOARCH)
}
