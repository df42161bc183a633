package settings

import (
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"sigs.k8s.io/yaml"
)

// Diff renders a line-oriented diff from a to b. Both sides are rendered as
// canonical YAML (sorted keys) so that only content changes show up. Removed
// lines are prefixed with "-", added lines with "+", unchanged lines with " ".
// An empty string means there is no difference.
func Diff(a, b Settings) (string, error) {
	left, err := canonicalYAML(a)
	if err != nil {
		return "", err
	}
	right, err := canonicalYAML(b)
	if err != nil {
		return "", err
	}
	if left == right {
		return "", nil
	}

	dmp := diffmatchpatch.New()
	leftChars, rightChars, lines := dmp.DiffLinesToChars(left, right)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(leftChars, rightChars, false), lines)

	var out strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(line)
			if !strings.HasSuffix(line, "\n") {
				out.WriteString("\n")
			}
		}
	}
	return out.String(), nil
}

func canonicalYAML(s Settings) (string, error) {
	data, err := Canonical(s)
	if err != nil {
		return "", err
	}
	out, err := yaml.JSONToYAML(data)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSerialization, err)
	}
	return string(out), nil
}
