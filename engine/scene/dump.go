package scene

import (
	"fmt"
)

// DumpTree renders a subtree in the box drawing layout used for debug logging:
//
//	*no-name* [Scene]
//	  ├─lamp [Group]
//	  │ └─case001 [Mesh]
//	  └─room [Group]
//
// Parameters:
//   - root: the subtree to render
//
// Returns:
//   - []string: one line per node
func DumpTree(root Node) []string {
	return dumpNode(root, nil, true, "")
}

func dumpNode(n Node, lines []string, isLast bool, prefix string) []string {
	branch := "├─"
	if isLast {
		branch = "└─"
	}
	name := n.Name()
	if name == "" {
		name = "*no-name*"
	}
	if prefix == "" {
		branch = ""
	}
	lines = append(lines, fmt.Sprintf("%s%s%s [%s]", prefix, branch, name, n.Kind()))

	childPrefix := prefix + "│ "
	if isLast {
		childPrefix = prefix + "  "
	}
	children := n.Children()
	for i, c := range children {
		lines = dumpNode(c, lines, i == len(children)-1, childPrefix)
	}
	return lines
}
