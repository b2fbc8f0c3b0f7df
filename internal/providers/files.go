package providers

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/danmuck/statectl/internal/elements"
)

// existenceMarker is prepended to gathered file content so that a diff can
// distinguish "file absent" from "file empty". It is stripped again before
// any patch touches the real file.
const existenceMarker = "e"

// ExpandUser resolves a leading ~ against the current user's home directory.
func ExpandUser(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~"))
	}
	return path
}

// GatherFile reads a file into a List: the zero list when the file does not
// exist, otherwise the existence marker followed by the file's lines with
// their newline terminators kept.
func GatherFile(path string) (elements.List, error) {
	raw, err := os.ReadFile(ExpandUser(path))
	if os.IsNotExist(err) {
		return elements.List{}, nil
	}
	if err != nil {
		return elements.List{}, err
	}
	lines := []string{existenceMarker}
	content := string(raw)
	for len(content) > 0 {
		nl := strings.IndexByte(content, '\n')
		if nl < 0 {
			lines = append(lines, content)
			break
		}
		lines = append(lines, content[:nl+1])
		content = content[nl+1:]
	}
	return elements.NewLines(lines), nil
}

// RenderFileDiff turns a gathered-file diff into commands. Creation or
// deletion of the existence marker becomes touch or rm; any remaining
// content changes become a patch invocation carrying the content diff,
// re-indexed to the real file with the marker stripped.
func RenderFileDiff(path string, d elements.ListDiff) ([][]string, error) {
	ops := d.Ops
	if len(ops) == 0 {
		return nil, nil
	}

	first := ops[0]
	if first.Index == 0 && first.Op == elements.OpDelete && first.Value == existenceMarker {
		return [][]string{{"rm", quotePath(path)}}, nil
	}

	var out [][]string
	if first.Index == 0 && first.Op == elements.OpInsert && first.Value == existenceMarker {
		out = append(out, []string{"touch", quotePath(path)})
	}
	if len(ops) == 1 {
		return out, nil
	}

	stripped := make([]elements.ListOp, 0, len(ops))
	for _, op := range ops {
		if op.Index == 0 {
			continue
		}
		stripped = append(stripped, elements.ListOp{Op: op.Op, Index: op.Index - 1, Value: op.Value})
	}
	payload, err := json.Marshal(elements.ListDiff{Ops: stripped}.Primitive())
	if err != nil {
		return nil, err
	}
	out = append(out, []string{"statectl", "patch", quotePath(path), string(payload)})
	return out, nil
}

// ApplyListPatch applies a serialized content diff to the lines of a file
// and returns the patched content.
func ApplyListPatch(content string, rawDiff string) (string, error) {
	var p any
	if err := json.Unmarshal([]byte(rawDiff), &p); err != nil {
		return "", err
	}
	d, err := elements.DiffFromPrimitive(p)
	if err != nil {
		return "", err
	}
	var lines []string
	for len(content) > 0 {
		nl := strings.IndexByte(content, '\n')
		if nl < 0 {
			lines = append(lines, content)
			break
		}
		lines = append(lines, content[:nl+1])
		content = content[nl+1:]
	}
	patched, err := elements.NewLines(lines).Apply(d)
	if err != nil {
		return "", err
	}
	return strings.Join(patched.(elements.List).Strings(), ""), nil
}

// Emitted paths are double-quoted verbatim; renderers print command lines
// for review rather than executing them.
func quotePath(path string) string {
	return `"` + path + `"`
}
