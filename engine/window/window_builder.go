package window

// createConfig collects the optional settings applied while creating a window.
type createConfig struct {
	title string
}

// CreateOption configures optional properties of a window at creation time.
type CreateOption func(*createConfig)

// WithTitle sets the window title. Overlay windows are undecorated so the
// title is only visible to window managers and debugging tools.
//
// Parameters:
//   - title: the title string to assign
//
// Returns:
//   - CreateOption: the option to pass to CreateWindow
func WithTitle(title string) CreateOption {
	return func(cfg *createConfig) {
		cfg.title = title
	}
}
