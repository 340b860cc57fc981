package pathutils

import (
	"path/filepath"
	"strings"
)

const parentDirectoryConstant = ".."

var parentDirectoryPrefix = parentDirectoryConstant + string(filepath.Separator)

// FilePathNormalizer turns user-supplied file arguments into repository-relative, slash-separated paths,
// the same shape git reports for changed and untracked files.
type FilePathNormalizer struct {
	homeExpander     *HomeExpander
	workingDirectory string
}

// NewFilePathNormalizer constructs a normalizer resolving relative arguments against workingDirectory.
func NewFilePathNormalizer(homeExpander *HomeExpander, workingDirectory string) *FilePathNormalizer {
	if homeExpander == nil {
		homeExpander = NewHomeExpander()
	}
	return &FilePathNormalizer{homeExpander: homeExpander, workingDirectory: workingDirectory}
}

// Normalize rewrites the candidates relative to repositoryRoot. Blank entries are dropped; order and duplicates are kept.
// Paths outside the repository root are kept in their cleaned form.
func (normalizer *FilePathNormalizer) Normalize(repositoryRoot string, candidatePaths []string) []string {
	normalizedPaths := make([]string, 0, len(candidatePaths))
	for _, candidatePath := range candidatePaths {
		trimmedCandidate := strings.TrimSpace(candidatePath)
		if len(trimmedCandidate) == 0 {
			continue
		}

		expandedCandidate := normalizer.homeExpander.Expand(trimmedCandidate)
		if !filepath.IsAbs(expandedCandidate) && len(normalizer.workingDirectory) > 0 {
			expandedCandidate = filepath.Join(normalizer.workingDirectory, expandedCandidate)
		}

		normalizedPaths = append(normalizedPaths, relativeToRoot(repositoryRoot, filepath.Clean(expandedCandidate)))
	}
	return normalizedPaths
}

func relativeToRoot(repositoryRoot string, candidatePath string) string {
	if len(repositoryRoot) == 0 || !filepath.IsAbs(candidatePath) {
		return filepath.ToSlash(candidatePath)
	}
	relativePath, relativeError := filepath.Rel(repositoryRoot, candidatePath)
	if relativeError != nil || relativePath == parentDirectoryConstant || strings.HasPrefix(relativePath, parentDirectoryPrefix) {
		return filepath.ToSlash(candidatePath)
	}
	return filepath.ToSlash(relativePath)
}
