// Package content talks to the content hierarchy service. It resolves the child
// batches of a program and the descriptive attributes of a course.
package content

// Node is one child of a program hierarchy.
type Node struct {
	ID         string         `json:"identifier"`
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes,omitempty"`
}

// Node types that carry an enrollable batch.
const (
	NodeTypeCourseBatch = "CourseBatch"
	NodeTypeCourse      = "Course"
)

// StringAttr returns attribute name as a string, or "".
func (n Node) StringAttr(name string) string {
	if v, ok := n.Attributes[name].(string); ok {
		return v
	}
	return ""
}

// Project copies the requested fields out of attrs. A nil field list returns
// every attribute.
func Project(attrs map[string]any, fields []string) map[string]any {
	if fields == nil {
		out := make(map[string]any, len(attrs))
		for k, v := range attrs {
			out[k] = v
		}
		return out
	}
	out := make(map[string]any, len(fields))
	for _, f := range fields {
		if v, ok := attrs[f]; ok {
			out[f] = v
		}
	}
	return out
}
