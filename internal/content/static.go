package content

import (
	"context"
	"fmt"
	"sync"

	"coursebatch/pkg/platform/sentinel"
)

// StaticResolver serves a fixed hierarchy from memory. It backs local runs
// without a content service and the service tests.
type StaticResolver struct {
	mu       sync.RWMutex
	programs map[string][]Node
	courses  map[string]map[string]any
}

func NewStaticResolver() *StaticResolver {
	return &StaticResolver{
		programs: make(map[string][]Node),
		courses:  make(map[string]map[string]any),
	}
}

func (r *StaticResolver) AddProgram(programID string, children ...Node) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.programs[programID] = append(r.programs[programID], children...)
}

func (r *StaticResolver) AddCourse(courseID string, attrs map[string]any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courses[courseID] = attrs
}

func (r *StaticResolver) GetProgramChildren(_ context.Context, programID string) ([]Node, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	children, ok := r.programs[programID]
	if !ok {
		return nil, fmt.Errorf("program %s: %w", programID, sentinel.ErrNotFound)
	}
	return append([]Node(nil), children...), nil
}

func (r *StaticResolver) GetCourse(_ context.Context, courseID string, fields []string) (map[string]any, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	attrs, ok := r.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", courseID, sentinel.ErrNotFound)
	}
	return Project(attrs, fields), nil
}
