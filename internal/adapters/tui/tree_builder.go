package tui

const maxTreeDepth = 32

// TreeNode is one row of the package tree. A package required by several
// consumers appears once under each of them; every occurrence shares the
// same PackageNode.
type TreeNode struct {
	Package  *PackageNode
	Depth    int
	Parent   *TreeNode
	Children []*TreeNode
	Expanded bool
}

// buildTree roots the tree at the targets, or at every package nothing else
// requires when no targets were named. Dependencies become children.
func buildTree(
	packages []string,
	targets []string,
	dependencies map[string][]string,
	packageMap map[string]*PackageNode,
) []*TreeNode {
	rootNames := targets
	if len(rootNames) == 0 {
		rootNames = topLevel(packages, dependencies)
	}

	roots := make([]*TreeNode, 0, len(rootNames))
	for _, name := range rootNames {
		if root := buildSubtree(name, dependencies, packageMap, 0); root != nil {
			roots = append(roots, root)
		}
	}
	return roots
}

// topLevel returns the packages no other package depends on, in plan order.
func topLevel(packages []string, dependencies map[string][]string) []string {
	required := make(map[string]bool)
	for _, deps := range dependencies {
		for _, dep := range deps {
			required[dep] = true
		}
	}

	var out []string
	for _, name := range packages {
		if !required[name] {
			out = append(out, name)
		}
	}
	return out
}

func buildSubtree(
	name string,
	dependencies map[string][]string,
	packageMap map[string]*PackageNode,
	depth int,
) *TreeNode {
	if depth > maxTreeDepth {
		return nil
	}
	pkg := packageMap[name]
	if pkg == nil {
		return nil
	}

	node := &TreeNode{Package: pkg, Depth: depth, Expanded: true}
	for _, dep := range dependencies[name] {
		if child := buildSubtree(dep, dependencies, packageMap, depth+1); child != nil {
			child.Parent = node
			node.Children = append(node.Children, child)
		}
	}
	return node
}

// flattenTree lists the visible rows depth-first. Children of collapsed nodes are hidden.
func flattenTree(roots []*TreeNode) []*TreeNode {
	var flat []*TreeNode

	var walk func(node *TreeNode)
	walk = func(node *TreeNode) {
		flat = append(flat, node)
		if node.Expanded {
			for _, child := range node.Children {
				walk(child)
			}
		}
	}

	for _, root := range roots {
		walk(root)
	}
	return flat
}
