package pathutils_test

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	pathutils "github.com/temirov/lintfmt/internal/utils/path"
)

const testHomeDirectoryConstant = "/home/lintfmt"

func TestHomeExpanderExpand(testInstance *testing.T) {
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		return testHomeDirectoryConstant, nil
	})

	testCases := []struct {
		name         string
		input        string
		expectedPath string
	}{
		{name: "BareTilde", input: "~", expectedPath: testHomeDirectoryConstant},
		{name: "TildeSlash", input: "~/.config/lintfmt/ignore", expectedPath: filepath.Join(testHomeDirectoryConstant, ".config/lintfmt/ignore")},
		{name: "OtherUser", input: "~build/repo", expectedPath: "~build/repo"},
		{name: "AbsolutePath", input: "/srv/project", expectedPath: "/srv/project"},
		{name: "Empty", input: "", expectedPath: ""},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subtest *testing.T) {
			require.Equal(subtest, testCase.expectedPath, expander.Expand(testCase.input))
		})
	}
}

func TestHomeExpanderKeepsPathWhenHomeIsUnknown(testInstance *testing.T) {
	lookups := 0
	expander := pathutils.NewHomeExpanderWithProvider(func() (string, error) {
		lookups++
		return "", errors.New("HOME is not set")
	})

	require.Equal(testInstance, "~/ignore", expander.Expand("~/ignore"))
	require.Equal(testInstance, "~", expander.Expand("~"))
	require.Equal(testInstance, 1, lookups)
}
