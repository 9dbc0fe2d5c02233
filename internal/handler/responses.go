package handler

import (
	"time"

	"taskplanner/internal/model"
	"taskplanner/internal/planner"
)

const dateLayout = "2006-01-02"

// TaskResponse is the JSON view of a task
type TaskResponse struct {
	ID            string  `json:"id"`
	Slug          string  `json:"slug"`
	Title         string  `json:"title"`
	Description   string  `json:"description"`
	Status        string  `json:"status"`
	Priority      int     `json:"priority"`
	PriorityLabel string  `json:"priority_label"`
	Week          int     `json:"week"`
	StartDate     *string `json:"start_date,omitempty"`
	EndDate       *string `json:"end_date,omitempty"`
	Progress      float64 `json:"progress"`
	StartedAt     *string `json:"started_at,omitempty"`
	CompletedAt   *string `json:"completed_at,omitempty"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// SubtaskResponse is the JSON view of a subtask
type SubtaskResponse struct {
	ID       string `json:"id"`
	TaskID   string `json:"task_id"`
	Title    string `json:"title"`
	Done     bool   `json:"done"`
	Position int    `json:"position"`
}

// TaskDetailResponse is a task with its subtasks and neighbours in the graph
type TaskDetailResponse struct {
	TaskResponse
	Subtasks      []SubtaskResponse `json:"subtasks"`
	Prerequisites []TaskResponse    `json:"prerequisites"`
	Dependents    []TaskResponse    `json:"dependents"`
}

type GraphNodeResponse struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Status   string  `json:"status"`
	Week     int     `json:"week"`
	Priority int     `json:"priority"`
	Progress float64 `json:"progress"`
}

// GraphEdgeResponse points from the prerequisite to the dependent task
type GraphEdgeResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type GraphResponse struct {
	Nodes []GraphNodeResponse `json:"nodes"`
	Edges []GraphEdgeResponse `json:"edges"`
}

type WeekResponse struct {
	Week      int            `json:"week"`
	StartDate *string        `json:"start_date,omitempty"`
	EndDate   *string        `json:"end_date,omitempty"`
	Tasks     []TaskResponse `json:"tasks"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(dateLayout)
	return &s
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}

func newTaskResponse(t *model.Task) TaskResponse {
	return TaskResponse{
		ID:            t.ID.String(),
		Slug:          t.Slug,
		Title:         t.Title,
		Description:   t.Description,
		Status:        string(t.Status),
		Priority:      int(t.Priority),
		PriorityLabel: t.Priority.String(),
		Week:          t.Week,
		StartDate:     formatDate(t.StartDate),
		EndDate:       formatDate(t.EndDate),
		Progress:      t.Progress,
		StartedAt:     formatTime(t.StartedAt),
		CompletedAt:   formatTime(t.CompletedAt),
		CreatedAt:     t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     t.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func newTaskResponses(tasks []model.Task) []TaskResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, newTaskResponse(&tasks[i]))
	}
	return out
}

func newTaskDetailResponse(d *planner.TaskDetail) TaskDetailResponse {
	subtasks := make([]SubtaskResponse, 0, len(d.Subtasks))
	for _, s := range d.Subtasks {
		subtasks = append(subtasks, SubtaskResponse{
			ID:       s.ID.String(),
			TaskID:   s.TaskID.String(),
			Title:    s.Title,
			Done:     s.Done,
			Position: s.Position,
		})
	}
	return TaskDetailResponse{
		TaskResponse:  newTaskResponse(&d.Task),
		Subtasks:      subtasks,
		Prerequisites: newTaskResponses(d.Prerequisites),
		Dependents:    newTaskResponses(d.Dependents),
	}
}

func newGraphResponse(g *planner.GraphView) GraphResponse {
	resp := GraphResponse{
		Nodes: make([]GraphNodeResponse, 0, len(g.Nodes)),
		Edges: make([]GraphEdgeResponse, 0, len(g.Edges)),
	}
	for _, n := range g.Nodes {
		resp.Nodes = append(resp.Nodes, GraphNodeResponse{
			ID:       n.ID.String(),
			Title:    n.Title,
			Status:   string(n.Status),
			Week:     n.Week,
			Priority: int(n.Priority),
			Progress: n.Progress,
		})
	}
	for _, e := range g.Edges {
		resp.Edges = append(resp.Edges, GraphEdgeResponse{From: e.From.String(), To: e.To.String()})
	}
	return resp
}

func newWeekResponses(weeks []planner.Week) []WeekResponse {
	out := make([]WeekResponse, 0, len(weeks))
	for _, w := range weeks {
		out = append(out, WeekResponse{
			Week:      w.Number,
			StartDate: formatDate(w.StartDate),
			EndDate:   formatDate(w.EndDate),
			Tasks:     newTaskResponses(w.Tasks),
		})
	}
	return out
}
