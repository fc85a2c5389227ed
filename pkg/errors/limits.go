package errors

// Limits bounds the size of graphs accepted from untrusted sources such as
// the HTTP API. A zero field disables that limit.
type Limits struct {
	MaxVertices int
	MaxEdges    int
}

// ValidateGraphSize checks a declared vertex and edge count against the limits.
// Negative counts are rejected regardless of the limits.
func (l Limits) ValidateGraphSize(vertices, edges int) error {
	if vertices < 0 || edges < 0 {
		return New(ErrCodeInvalidInput, "graph size must not be negative (vertices=%d, edges=%d)", vertices, edges)
	}
	if l.MaxVertices > 0 && vertices > l.MaxVertices {
		return New(ErrCodeTooLarge, "graph has %d vertices (max %d)", vertices, l.MaxVertices)
	}
	if l.MaxEdges > 0 && edges > l.MaxEdges {
		return New(ErrCodeTooLarge, "graph has %d edges (max %d)", edges, l.MaxEdges)
	}
	return nil
}
