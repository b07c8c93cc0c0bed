package workspace

// Options is the generation-options bundle handed to every generator of a
// run.
type Options struct {
	ReadOnly               bool
	IncludeTests           bool
	IncludeDependencyTests bool
	CombinedProject        bool
	BuildWithExternalTool  bool
	ExternalToolFlags      []string
	HeaderMaps             bool
	CombineTestBundles     bool
}
