// Package present defines presenters formatting the computed orders for display.
package present

// Presenter formats v for displaying it.
type Presenter interface {
	// Format receives a struct v and returns the formatted output as string.
	// If indent is not empty and the format supports it, the output is indented.
	Format(v interface{}, indent string) (string, error)
}
