package formatters

import (
	"path/filepath"
	"sort"
	"strings"
)

const extensionSeparatorConstant = "."

// Registry maps file extensions, including the leading dot, to formatters.
type Registry struct {
	formatters map[string]Formatter
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{formatters: make(map[string]Formatter)}
}

// NewDefaultRegistry maps the default C-family and Python extensions to the provided formatters.
func NewDefaultRegistry(nativeFormatter Formatter, scriptFormatter Formatter) *Registry {
	registry := NewRegistry()
	registry.Register(nativeFormatter, DefaultNativeExtensions()...)
	registry.Register(scriptFormatter, DefaultScriptExtensions()...)
	return registry
}

// DefaultNativeExtensions lists the extensions handled by clang-format.
func DefaultNativeExtensions() []string {
	return []string{".c", ".cpp", ".cu", ".h", ".hpp"}
}

// DefaultScriptExtensions lists the extensions handled by black.
func DefaultScriptExtensions() []string {
	return []string{".py"}
}

// Register associates the formatter with each extension. A later registration replaces an earlier one.
func (registry *Registry) Register(formatter Formatter, extensions ...string) {
	if formatter == nil {
		return
	}
	for _, extension := range extensions {
		normalizedExtension := NormalizeExtension(extension)
		if len(normalizedExtension) == 0 {
			continue
		}
		registry.formatters[normalizedExtension] = formatter
	}
}

// Resolve returns the formatter registered for the file's extension.
// Extensions are matched exactly, so "A.CPP" does not resolve to the ".cpp" formatter.
func (registry *Registry) Resolve(filePath string) (Formatter, bool) {
	if registry == nil {
		return nil, false
	}
	extension := filepath.Ext(filePath)
	if len(extension) == 0 {
		return nil, false
	}
	formatter, found := registry.formatters[extension]
	return formatter, found
}

// Extensions lists the registered extensions in sorted order.
func (registry *Registry) Extensions() []string {
	extensions := make([]string, 0, len(registry.formatters))
	for extension := range registry.formatters {
		extensions = append(extensions, extension)
	}
	sort.Strings(extensions)
	return extensions
}

// NormalizeExtension lower-cases the extension and ensures a leading dot.
func NormalizeExtension(extension string) string {
	trimmedExtension := strings.ToLower(strings.TrimSpace(extension))
	if len(trimmedExtension) == 0 || trimmedExtension == extensionSeparatorConstant {
		return ""
	}
	if !strings.HasPrefix(trimmedExtension, extensionSeparatorConstant) {
		trimmedExtension = extensionSeparatorConstant + trimmedExtension
	}
	return trimmedExtension
}
