// Package classify turns execution diagnostics into failure classifications.
package classify

import (
	"regexp"
)

// Kind distinguishes the two recovery strategies.
type Kind string

const (
	// KindMissingDependency indicates the diagnostic names an importable
	// module that is not installed. Recovered by installing the package.
	KindMissingDependency Kind = "missing_dependency"
	// KindGenericFailure covers every other logic or runtime defect.
	// Recovered only by model-assisted repair.
	KindGenericFailure Kind = "generic_failure"
)

// validKinds is the set of valid classification kinds.
var validKinds = map[Kind]bool{
	KindMissingDependency: true,
	KindGenericFailure:    true,
}

// IsValid returns true if the kind is a valid value.
func (k Kind) IsValid() bool {
	return validKinds[k]
}

// Classification is the classifier's verdict on a failed execution.
type Classification struct {
	// Kind is the failure category.
	Kind Kind `json:"kind"`

	// Package is the installable package name, present only for missing
	// dependency failures. The raw module name has already been translated
	// through the alias table.
	Package string `json:"package,omitempty"`

	// Diagnostic is the full captured error text.
	Diagnostic string `json:"diagnostic"`
}

// rule pairs a diagnostic pattern with its classification constructor.
// Rules are evaluated in declaration order, so precedence is fixed by the
// table, not by branching.
type rule struct {
	pattern *regexp.Regexp
	build   func(match []string, text string) Classification
}

// Classifier inspects diagnostic text from a failed execution.
type Classifier struct {
	rules   []rule
	aliases map[string]string
}

// New creates a Classifier with the built-in rule table and alias map.
// The module-not-found rules come first so they take precedence over the
// generic fallback regardless of what else the diagnostic contains.
func New() *Classifier {
	c := &Classifier{
		aliases: make(map[string]string, len(defaultAliases)),
	}
	for module, pkg := range defaultAliases {
		c.aliases[module] = pkg
	}

	c.rules = []rule{
		{
			pattern: regexp.MustCompile(`ModuleNotFoundError: No module named '([^']+)'`),
			build:   c.missingDependency,
		},
		{
			// Older interpreters spell it as an ImportError, with or
			// without quotes around the module name.
			pattern: regexp.MustCompile(`ImportError: No module named '?([A-Za-z0-9_.]+)'?`),
			build:   c.missingDependency,
		},
		{
			pattern: regexp.MustCompile(`(?s).`),
			build: func(_ []string, text string) Classification {
				return Classification{Kind: KindGenericFailure, Diagnostic: text}
			},
		},
	}

	return c
}

// AddAliases merges extra module-to-package aliases over the built-ins.
func (c *Classifier) AddAliases(aliases map[string]string) {
	for module, pkg := range aliases {
		c.aliases[module] = pkg
	}
}

// Classify inspects the diagnostic text and returns the first matching
// rule's classification.
func (c *Classifier) Classify(diagnostic string) Classification {
	for _, r := range c.rules {
		if m := r.pattern.FindStringSubmatch(diagnostic); m != nil {
			return r.build(m, diagnostic)
		}
	}
	// The fallback rule matches any non-empty text; only an empty
	// diagnostic reaches here.
	return Classification{Kind: KindGenericFailure, Diagnostic: diagnostic}
}

// missingDependency builds a MissingDependency classification from a
// matched module name.
func (c *Classifier) missingDependency(match []string, text string) Classification {
	return Classification{
		Kind:       KindMissingDependency,
		Package:    c.mapPackage(match[1]),
		Diagnostic: text,
	}
}

// mapPackage translates an import name to its installable package name.
// Unaliased modules install under their own name.
func (c *Classifier) mapPackage(module string) string {
	if pkg, ok := c.aliases[module]; ok {
		return pkg
	}
	return module
}
