// Package browser opens the serve UI in the user's default browser.
package browser

import (
	"fmt"
	"net"
	"net/url"
	"os/exec"
	"runtime"
)

// Opener opens a URL in a browser
type Opener interface {
	Open(url string) error
}

// SystemOpener starts the platform's URL handler
type SystemOpener struct {
	goos  string
	start func(name string, args ...string) error
}

// NewOpener returns an opener for the current platform
func NewOpener() *SystemOpener {
	return &SystemOpener{
		goos: runtime.GOOS,
		start: func(name string, args ...string) error {
			return exec.Command(name, args...).Start()
		},
	}
}

// Open launches the URL without waiting for the browser to exit
func (o *SystemOpener) Open(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("refusing to open non-http URL %q", rawURL)
	}

	name, args, err := command(o.goos, rawURL)
	if err != nil {
		return err
	}

	if err := o.start(name, args...); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	return nil
}

func command(goos, rawURL string) (string, []string, error) {
	switch goos {
	case "darwin":
		return "open", []string{rawURL}, nil
	case "linux", "freebsd", "openbsd", "netbsd":
		return "xdg-open", []string{rawURL}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", rawURL}, nil
	default:
		return "", nil, fmt.Errorf("unsupported platform: %s", goos)
	}
}

// LocalURL returns the http URL a local browser should use to reach a
// listener. Unspecified hosts such as 0.0.0.0 or :: become localhost.
func LocalURL(addr net.Addr) string {
	host, port, err := net.SplitHostPort(addr.String())
	if err != nil {
		return "http://" + addr.String() + "/"
	}
	if ip := net.ParseIP(host); host == "" || (ip != nil && ip.IsUnspecified()) {
		host = "localhost"
	}
	return "http://" + net.JoinHostPort(host, port) + "/"
}
