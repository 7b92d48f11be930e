package handler

const (
	// RootPath is the root path the route group.
	RootPath = "/"

	// APIPath is the prefix of every JSON route.
	APIPath = RootPath + "api"

	// RouterRootPath is the root of a fiber.Router group.
	RouterRootPath = "/"

	// ErrNilACDFatalLogMsg is used if app or cfg or a dependency pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or service is nil"
)
