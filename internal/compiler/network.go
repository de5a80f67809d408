package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/roach88/takt/internal/model"
)

// CompileNetwork parses a CUE value into a validated graph.
// Uses CUE SDK's Go API directly (not CLI subprocess).
//
// The CUE value should be the network struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(`network: { nodes: [...], edges: [...] }`)
//	g, err := CompileNetwork(v.LookupPath(cue.ParsePath("network")))
func CompileNetwork(v cue.Value) (*model.Graph, error) {
	nodes, edges, err := CompileRecords(v)
	if err != nil {
		return nil, err
	}
	g, err := model.BuildGraph(nodes, edges)
	if err != nil {
		return nil, fmt.Errorf("building graph: %w", err)
	}
	return g, nil
}

// CompileRecords parses a network CUE value into raw node and edge
// records without validating them. Callers that want per-record errors
// collected together go through model.BuildGraph separately.
func CompileRecords(v cue.Value) ([]model.NodeRecord, []model.EdgeRecord, error) {
	if err := v.Err(); err != nil {
		return nil, nil, formatCUEError(err)
	}

	nodesVal := v.LookupPath(cue.ParsePath("nodes"))
	if !nodesVal.Exists() {
		return nil, nil, &CompileError{
			Field:   "nodes",
			Message: "nodes list is required",
			Pos:     v.Pos(),
		}
	}

	nodes, err := compileNodes(nodesVal)
	if err != nil {
		return nil, nil, err
	}

	var edges []model.EdgeRecord
	edgesVal := v.LookupPath(cue.ParsePath("edges"))
	if edgesVal.Exists() {
		edges, err = compileEdges(edgesVal)
		if err != nil {
			return nil, nil, err
		}
	}

	return nodes, edges, nil
}

func compileNodes(v cue.Value) ([]model.NodeRecord, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var nodes []model.NodeRecord
	for iter.Next() {
		item := iter.Value()
		var rec model.NodeRecord
		if err := item.Decode(&rec); err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("nodes[%d]", len(nodes)),
				Message: decodeMessage(err),
				Pos:     item.Pos(),
			}
		}
		if rec.ID == "" {
			return nil, &CompileError{
				Field:   fmt.Sprintf("nodes[%d].id", len(nodes)),
				Message: "id is required",
				Pos:     item.Pos(),
			}
		}
		nodes = append(nodes, rec)
	}
	return nodes, nil
}

func compileEdges(v cue.Value) ([]model.EdgeRecord, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var edges []model.EdgeRecord
	for iter.Next() {
		item := iter.Value()
		var rec model.EdgeRecord
		if err := item.Decode(&rec); err != nil {
			return nil, &CompileError{
				Field:   fmt.Sprintf("edges[%d]", len(edges)),
				Message: decodeMessage(err),
				Pos:     item.Pos(),
			}
		}
		if rec.Source == "" || rec.Target == "" {
			return nil, &CompileError{
				Field:   fmt.Sprintf("edges[%d]", len(edges)),
				Message: "source and target are required",
				Pos:     item.Pos(),
			}
		}
		edges = append(edges, rec)
	}
	return edges, nil
}

// decodeMessage strips CUE's multi-error prefix noise down to the first
// line so positional errors stay one-per-line in CLI output.
func decodeMessage(err error) string {
	if ce := formatCUEError(err); ce != nil {
		if compileErr, ok := ce.(*CompileError); ok {
			return compileErr.Message
		}
		return ce.Error()
	}
	return err.Error()
}
