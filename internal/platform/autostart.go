package platform

// Autostart manages launch-at-login registration for the application.
type Autostart interface {
	Enable(appName, execPath string) error
	Disable(appName string) error
}

// NewAutostart returns the platform-specific implementation.
func NewAutostart() Autostart {
	return autostartService{}
}

type autostartService struct{}
