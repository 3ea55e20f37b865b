package common

// Key and mouse button codes for input handling.
// These values match the GLFW codes.
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Key
const (
	KeyEsc = 256 // Escape key (GLFW)
)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	MouseButtonLeft   MouseButton = 0 // GLFW MouseButton1
	MouseButtonRight  MouseButton = 1 // GLFW MouseButton2
	MouseButtonMiddle MouseButton = 2 // GLFW MouseButton3
)
