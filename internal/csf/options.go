// Package csf splits a legacy MDX docs page into an MDX doc and a CSF3
// story module.
package csf

import "strings"

// Options holds the module names and conventions baked into generated
// output.
type Options struct {
	// ExcludedModules are never carried into the story module.
	ExcludedModules []string
	// SharedModuleMarker excludes any module whose path contains it.
	SharedModuleMarker string
	// BlocksModule provides Canvas and Meta to the regenerated doc.
	BlocksModule string
	// SharedModulePath provides the heading components to the doc.
	SharedModulePath string
	// RendererModule provides the Meta and StoryObj types.
	RendererModule string
	// DocImports are extra import lines added to every doc header.
	DocImports []string
	// ModuleSuffix is appended to the module identifier.
	ModuleSuffix string
}

// DefaultOptions returns the conventions of the design-system repos this
// tool was written for.
func DefaultOptions() Options {
	return Options{
		ExcludedModules:    []string{"react", "@storybook/addon-docs"},
		SharedModuleMarker: "storybook-common",
		BlocksModule:       "@storybook/blocks",
		SharedModulePath:   "../storybook-common",
		RendererModule:     "@storybook/react",
		DocImports:         []string{`import { PropsTable } from "./props-table";`},
		ModuleSuffix:       "Stories",
	}
}

// excluded reports whether imports from source stay out of the story
// module.
func (o Options) excluded(source string) bool {
	for _, m := range o.ExcludedModules {
		if source == m {
			return true
		}
	}
	return o.SharedModuleMarker != "" && strings.Contains(source, o.SharedModuleMarker)
}
