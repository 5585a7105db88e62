package calvin

import (
	"fmt"
	"strings"
)

// ParseParamPath parses a parameter path into object path and parameter name.
// Path format: /group/table@name
//
// Examples:
//   - "/@affymetrix-algorithm-name" -> objectPath="/", name="affymetrix-algorithm-name"
//   - "/MultiData/Genotype@note" -> objectPath="/MultiData/Genotype", name="note"
//   - "/parent[0]@affymetrix-scanner-id" -> objectPath="/parent[0]"
func ParseParamPath(path string) (objectPath, name string, err error) {
	if path == "" {
		return "", "", fmt.Errorf("%w: empty parameter path", ErrInvalidPath)
	}

	atIdx := strings.LastIndex(path, "@")
	if atIdx == -1 {
		return "", "", fmt.Errorf("%w: parameter path must contain '@': %s", ErrInvalidPath, path)
	}

	objectPath = CleanPath(path[:atIdx])
	name = path[atIdx+1:]
	if name == "" {
		return "", "", fmt.Errorf("%w: parameter name cannot be empty: %s", ErrInvalidPath, path)
	}
	return objectPath, name, nil
}

// JoinParamPath creates a parameter path from object path and parameter name.
func JoinParamPath(objectPath, name string) string {
	if objectPath == "/" {
		return "/@" + name
	}
	return objectPath + "@" + name
}

// JoinTablePath returns the path of a table: "/group/table".
func JoinTablePath(group, table string) string {
	return "/" + group + "/" + table
}

// SplitPath splits a path into its components.
// Leading and trailing slashes are handled, empty components are removed.
//
// Examples:
//   - "/" -> []string{}
//   - "/MultiData" -> []string{"MultiData"}
//   - "MultiData/Genotype/" -> []string{"MultiData", "Genotype"}
func SplitPath(path string) []string {
	parts := []string{}
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return parts
}

// CleanPath normalizes a path, ensuring it starts with "/" and has no trailing slash.
func CleanPath(path string) string {
	parts := SplitPath(path)
	if len(parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(parts, "/")
}
