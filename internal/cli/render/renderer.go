package render

// Renderer renders a use case result
type Renderer[T any] interface {
	Render(result T) error
}
