// SPDX-License-Identifier: MIT
// Copyright (c) 2025 Vladyslav Kazantsev
package descriptor

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/aecgrid/internal/debug"
	"github.com/vk/aecgrid/internal/fsutil"
)

// FileExtension is the extension of descriptor files.
const FileExtension = ".hcl"

// hclDescriptorFile represents the top-level structure of a descriptor file for decoding.
type hclDescriptorFile struct {
	Modules []*hclModule `hcl:"module,block"`
}

type hclModule struct {
	Name        string   `hcl:"name,label"`
	Kind        string   `hcl:"kind"`
	Description string   `hcl:"description,optional"`
	Sources     []string `hcl:"sources,optional"`
	Depends     []string `hcl:"depends,optional"`
}

// Parse decodes the descriptors in src. filename is used for diagnostics and
// FSInfo only.
func Parse(src []byte, filename string, target Target) ([]*Descriptor, error) {
	evalCtx, err := EvalContext(target)
	if err != nil {
		return nil, err
	}
	hclFile, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filename, diags)
	}
	return decode(hclFile, filename, evalCtx)
}

// ParseFile reads and decodes one descriptor file.
func ParseFile(filePath string, parser *hclparse.Parser, evalCtx *hcl.EvalContext) ([]*Descriptor, error) {
	hclFile, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", filePath, diags)
	}
	return decode(hclFile, filePath, evalCtx)
}

func decode(hclFile *hcl.File, filePath string, evalCtx *hcl.EvalContext) ([]*Descriptor, error) {
	var parsedFile hclDescriptorFile
	diags := gohcl.DecodeBody(hclFile.Body, evalCtx, &parsedFile)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", filePath, diags)
	}

	descriptors := make([]*Descriptor, 0, len(parsedFile.Modules))
	for _, m := range parsedFile.Modules {
		kind, err := ParseKind(m.Kind)
		if err != nil {
			return nil, fmt.Errorf("error parsing module '%s' in file %s: %w", m.Name, filePath, err)
		}
		d := &Descriptor{
			Name:        m.Name,
			Kind:        kind,
			Description: m.Description,
			Sources:     nilIfEmpty(m.Sources),
			Depends:     nilIfEmpty(m.Depends),
			FSInfo:      NewFSInfo(filePath),
		}
		if err := d.Validate(); err != nil {
			return nil, err
		}
		descriptors = append(descriptors, d)
	}
	return descriptors, nil
}

// LoadRecursively finds and decodes every descriptor file under root, in
// lexical file order.
func LoadRecursively(ctx context.Context, root string, target Target) ([]*Descriptor, error) {
	logger := debug.FromContext(ctx)
	logger.Debug("Loading module descriptors from path.", "path", root, "target", target.String())

	files, err := fsutil.FindFilesByExtension(root, FileExtension)
	if err != nil {
		return nil, fmt.Errorf("failed to find descriptor files in %s: %w", root, err)
	}
	if len(files) == 0 {
		logger.Warn("No descriptor files found in path.", "path", root)
		return nil, nil
	}

	evalCtx, err := EvalContext(target)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	var all []*Descriptor
	for _, file := range files {
		ds, err := ParseFile(file, parser, evalCtx)
		if err != nil {
			return nil, err
		}
		logger.Debug("Descriptor file loaded.", "file", file, "modules", len(ds))
		all = append(all, ds...)
	}
	return all, nil
}

func nilIfEmpty(s []string) []string {
	if len(s) == 0 {
		return nil
	}
	return s
}
