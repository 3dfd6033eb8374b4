package descriptor

import (
	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
)

// Encode renders descriptors as canonical HCL. Decoding the result with the
// same target yields equal descriptors.
func Encode(descriptors ...*Descriptor) []byte {
	f := hclwrite.NewEmptyFile()
	root := f.Body()
	for i, d := range descriptors {
		if i > 0 {
			root.AppendNewline()
		}
		body := root.AppendNewBlock("module", []string{d.Name}).Body()
		body.SetAttributeValue("kind", cty.StringVal(string(d.Kind)))
		if d.Description != "" {
			body.SetAttributeValue("description", cty.StringVal(d.Description))
		}
		if len(d.Sources) > 0 {
			body.SetAttributeValue("sources", stringList(d.Sources))
		}
		if len(d.Depends) > 0 {
			body.SetAttributeValue("depends", stringList(d.Depends))
		}
	}
	return hclwrite.Format(f.Bytes())
}

func stringList(items []string) cty.Value {
	vals := make([]cty.Value, len(items))
	for i, s := range items {
		vals[i] = cty.StringVal(s)
	}
	return cty.ListVal(vals)
}
