package graph

// Type tags a parsed target declaration with the rule vocabulary it was
// declared under. The set is fixed: build files may only contain these.
type Type string

const (
	AppleBinary          Type = "apple_binary"
	AppleBundle          Type = "apple_bundle"
	AppleLibrary         Type = "apple_library"
	AppleTest            Type = "apple_test"
	XcodeWorkspaceConfig Type = "xcode_workspace_config"
	JavaLibrary          Type = "java_library"
	JavaTest             Type = "java_test"
	ProjectConfig        Type = "project_config"
	Genrule              Type = "genrule"
	HalideCompile        Type = "halide_compile"
)

// CanHostImplicitWorkspace reports whether a target of this type may be used
// directly as a workspace root. When it is, a workspace descriptor is
// synthesized around it instead of requiring an explicit
// xcode_workspace_config declaration.
func (t Type) CanHostImplicitWorkspace() bool {
	return t == AppleBinary || t == AppleBundle || t == AppleLibrary
}

// IsTest reports whether targets of this type declare themselves as tests.
func (t Type) IsTest() bool {
	return t == AppleTest || t == JavaTest
}

// ProducesGeneratedSources reports whether a rule of this type must be built
// before its output exists on disk. Projects referencing such targets list
// them as required build targets.
func (t Type) ProducesGeneratedSources() bool {
	return t == Genrule || t == HalideCompile
}
