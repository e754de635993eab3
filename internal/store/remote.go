package store

import (
	"context"

	"TaskCanvas/internal/graphql"
)

const (
	createCanvasMutation = `mutation CreateCanvas($taskId: ID!, $name: String!, $dataJson: String!) {
  createCanvas(taskId: $taskId, name: $name, dataJson: $dataJson) {
    id
    name
    dataJson
  }
}`
	updateCanvasMutation = `mutation UpdateCanvas($id: ID!, $name: String, $dataJson: String) {
  updateCanvas(id: $id, name: $name, dataJson: $dataJson) {
    id
    name
    dataJson
  }
}`
	taskCanvasesQuery = `query GetTaskCanvases($taskId: ID!) {
  getTaskCanvases(taskId: $taskId) {
    id
    name
    dataJson
    thumbnail
  }
}`
)

// Operation names sent with each request.
const (
	OpCreateCanvas    = "CreateCanvas"
	OpUpdateCanvas    = "UpdateCanvas"
	OpGetTaskCanvases = "GetTaskCanvases"
)

// Remote talks to the canvas service over GraphQL.
type Remote struct {
	client *graphql.Client
}

var _ Service = (*Remote)(nil)

func NewRemote(c *graphql.Client) *Remote {
	return &Remote{client: c}
}

func (r *Remote) Create(ctx context.Context, taskID, name, data string) (*Canvas, error) {
	var out struct {
		CreateCanvas *Canvas `json:"createCanvas"`
	}
	err := r.client.Do(ctx, &graphql.Request{
		Query:         createCanvasMutation,
		OperationName: OpCreateCanvas,
		Variables:     map[string]any{"taskId": taskID, "name": name, "dataJson": data},
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.CreateCanvas == nil {
		return nil, ErrNotFound
	}
	out.CreateCanvas.TaskID = taskID
	return out.CreateCanvas, nil
}

func (r *Remote) Update(ctx context.Context, id string, name, data *string) (*Canvas, error) {
	vars := map[string]any{"id": id}
	if name != nil {
		vars["name"] = *name
	}
	if data != nil {
		vars["dataJson"] = *data
	}
	var out struct {
		UpdateCanvas *Canvas `json:"updateCanvas"`
	}
	err := r.client.Do(ctx, &graphql.Request{
		Query:         updateCanvasMutation,
		OperationName: OpUpdateCanvas,
		Variables:     vars,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.UpdateCanvas == nil {
		return nil, ErrNotFound
	}
	return out.UpdateCanvas, nil
}

func (r *Remote) List(ctx context.Context, taskID string) ([]Canvas, error) {
	var out struct {
		GetTaskCanvases []Canvas `json:"getTaskCanvases"`
	}
	err := r.client.Do(ctx, &graphql.Request{
		Query:         taskCanvasesQuery,
		OperationName: OpGetTaskCanvases,
		Variables:     map[string]any{"taskId": taskID},
	}, &out)
	if err != nil {
		return nil, err
	}
	for i := range out.GetTaskCanvases {
		out.GetTaskCanvases[i].TaskID = taskID
	}
	return out.GetTaskCanvases, nil
}
