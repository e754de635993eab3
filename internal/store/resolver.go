package store

import (
	"context"
	"encoding/json"
	"errors"

	"TaskCanvas/internal/graphql"
)

// Resolver answers the three canvas operations from svc. Operations are
// matched by name; the query text is not parsed.
func Resolver(svc Service) graphql.ExecFunc {
	return func(ctx context.Context, req *graphql.Request) *graphql.Response {
		var (
			key  string
			data any
			err  error
		)
		switch req.OperationName {
		case OpGetTaskCanvases:
			key = "getTaskCanvases"
			data, err = svc.List(ctx, stringVar(req, "taskId"))
		case OpCreateCanvas:
			key = "createCanvas"
			data, err = svc.Create(ctx, stringVar(req, "taskId"), stringVar(req, "name"), stringVar(req, "dataJson"))
		case OpUpdateCanvas:
			key = "updateCanvas"
			data, err = svc.Update(ctx, stringVar(req, "id"), optionalVar(req, "name"), optionalVar(req, "dataJson"))
		default:
			err = errors.New("unknown operation " + req.OperationName)
		}
		if err != nil {
			gqlErr := graphql.Error{Message: err.Error()}
			if key != "" {
				gqlErr.Path = []any{key}
			}
			return &graphql.Response{Errors: graphql.Errors{gqlErr}}
		}
		raw, err := json.Marshal(map[string]any{key: data})
		if err != nil {
			return &graphql.Response{Errors: graphql.Errors{{Message: err.Error()}}}
		}
		return &graphql.Response{Data: raw}
	}
}

func stringVar(req *graphql.Request, name string) string {
	s, _ := req.Variables[name].(string)
	return s
}

func optionalVar(req *graphql.Request, name string) *string {
	s, ok := req.Variables[name].(string)
	if !ok {
		return nil
	}
	return &s
}
