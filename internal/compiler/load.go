package compiler

import (
	"fmt"
	"os"
	"path/filepath"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/roach88/takt/internal/model"
)

// LoadMode controls how errors are handled during network loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the results of loading a network definition.
type LoadResult struct {
	Graph     *model.Graph
	CUEValue  cue.Value // the raw CUE value for additional processing
	FileCount int       // number of CUE files found
}

// LoadNetwork loads and compiles a CUE network definition from a
// directory. The definition must expose a top-level `network` struct
// with `nodes` and optional `edges` lists.
//
// In LoadModeFailFast the first error returns immediately; in
// LoadModeCollectAll record-level validation errors are gathered so a
// definition with several problems reports them all at once.
func LoadNetwork(dir string, mode LoadMode) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&CompileError{Field: "dir", Message: fmt.Sprintf("network directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&CompileError{Field: "dir", Message: fmt.Sprintf("error accessing network directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&CompileError{Field: "dir", Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&CompileError{Field: "dir", Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&CompileError{Field: "dir", Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&CompileError{Field: "cue", Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{formatCUEError(inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{formatCUEError(err)}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	networkVal := value.LookupPath(cue.ParsePath("network"))
	if !networkVal.Exists() {
		return result, []error{&CompileError{
			Field:   "network",
			Message: "top-level network struct is required",
			Pos:     value.Pos(),
		}}
	}

	nodes, edges, compErr := CompileRecords(networkVal)
	if compErr != nil {
		return result, []error{compErr}
	}

	graph, buildErr := model.BuildGraph(nodes, edges)
	if buildErr != nil {
		if mode == LoadModeCollectAll {
			var verrs model.ValidationErrors
			if model.AsValidationErrors(buildErr, &verrs) {
				errs := make([]error, 0, len(verrs))
				for _, ve := range verrs {
					errs = append(errs, ve)
				}
				return result, errs
			}
		}
		return result, []error{buildErr}
	}

	result.Graph = graph
	return result, nil
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}
