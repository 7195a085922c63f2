// Package render turns rays and entities into draw tasks and paints them
// back to front onto a surface.
package render

import (
	"castlight/internal/surface"
	"sort"
)

// DrawTask is one deferred paint operation. Z is the distance from the
// camera; tasks with a larger Z are painted first.
type DrawTask struct {
	Z     float64
	Paint func(s surface.Surface)
}

// RenderFrame paints wall and entity tasks farthest first. Equal depths keep
// their input order with walls ahead of entities. Nothing is drawn onto a
// nil or zero-sized surface. It returns the number of tasks painted.
func RenderFrame(walls, entities []DrawTask, s surface.Surface) int {
	if s == nil {
		return 0
	}
	if w, h := s.Size(); w <= 0 || h <= 0 {
		return 0
	}

	tasks := make([]DrawTask, 0, len(walls)+len(entities))
	tasks = append(tasks, walls...)
	tasks = append(tasks, entities...)
	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].Z > tasks[j].Z
	})

	painted := 0
	for _, task := range tasks {
		if task.Paint == nil {
			continue
		}
		task.Paint(s)
		painted++
	}
	return painted
}
