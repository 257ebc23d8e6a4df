package render

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mattn/go-runewidth"

	"erbname/convert"
)

// treeNode represents a node in the results tree
type treeNode struct {
	name     string
	isFile   bool
	result   *convert.FileResult
	children map[string]*treeNode
}

// buildTree builds a nested tree from the flat result list
func buildTree(files []convert.FileResult) *treeNode {
	root := &treeNode{children: make(map[string]*treeNode)}

	for _, f := range files {
		parts := strings.Split(f.Path, "/")
		current := root
		for i, part := range parts {
			if i == len(parts)-1 {
				// File
				fileCopy := f
				current.children[part] = &treeNode{
					name:   part,
					isFile: true,
					result: &fileCopy,
				}
			} else {
				// Directory
				if current.children[part] == nil {
					current.children[part] = &treeNode{
						name:     part,
						children: make(map[string]*treeNode),
					}
				}
				current = current.children[part]
			}
		}
	}
	return root
}

// dirStats recursively counts files, resolved references and bytes
func dirStats(node *treeNode) (int, int, int64) {
	if node.isFile {
		return 1, node.result.Resolved, node.result.Size
	}
	files, resolved := 0, 0
	var size int64
	for _, child := range node.children {
		f, r, s := dirStats(child)
		files += f
		resolved += r
		size += s
	}
	return files, resolved, size
}

// formatSize converts bytes to human readable format
func formatSize(size int64) string {
	units := []string{"B", "KB", "MB", "GB", "TB"}
	fsize := float64(size)
	for _, unit := range units[:len(units)-1] {
		if fsize < 1024 {
			return fmt.Sprintf("%.1f%s", fsize, unit)
		}
		fsize /= 1024
	}
	return fmt.Sprintf("%.1f%s", fsize, units[len(units)-1])
}

// Tree renders the per-file results as a directory tree
func Tree(report *convert.Report) {
	rootName := filepath.Base(report.Root)

	// Title in top border line, widths measured in terminal cells
	innerWidth := 64
	statsLine := fmt.Sprintf("Scripts: %d | Changed: %d | Resolved: %d", report.Scanned, report.Changed, report.Resolved)
	if report.DryRun {
		statsLine += " | dry-run"
	}
	if w := runewidth.StringWidth(statsLine) + 4; w > innerWidth {
		innerWidth = w
	}
	titleLine := fmt.Sprintf(" %s ", rootName)
	titleWidth := runewidth.StringWidth(titleLine)
	if titleWidth+2 > innerWidth {
		innerWidth = titleWidth + 2
	}
	padding := innerWidth - titleWidth
	leftPad := padding / 2
	rightPad := padding - leftPad
	fmt.Printf("╭%s%s%s╮\n", strings.Repeat("─", leftPad), titleLine, strings.Repeat("─", rightPad))
	fmt.Printf("│ %s │\n", runewidth.FillRight(statsLine, innerWidth-2))
	fmt.Printf("╰%s╯\n", strings.Repeat("─", innerWidth))

	root := buildTree(report.Files)
	fmt.Printf("%s%s%s\n", Bold, rootName, Reset)
	printTreeNode(root, "")
}

// printTreeNode recursively prints tree nodes
func printTreeNode(node *treeNode, prefix string) {
	// Separate dirs and files
	var dirs, fileNodes []*treeNode
	for _, child := range node.children {
		if child.isFile {
			fileNodes = append(fileNodes, child)
		} else {
			dirs = append(dirs, child)
		}
	}

	// Sort
	sort.Slice(dirs, func(i, j int) bool { return dirs[i].name < dirs[j].name })
	sort.Slice(fileNodes, func(i, j int) bool { return fileNodes[i].name < fileNodes[j].name })

	entries := len(dirs) + len(fileNodes)
	printed := 0

	// Print directories first
	for _, dir := range dirs {
		printed++

		// Flatten single-child directory chains
		mergedName := dir.name
		current := dir
		for len(current.children) == 1 {
			var onlyChild *treeNode
			for _, c := range current.children {
				onlyChild = c
			}
			if onlyChild.isFile {
				break
			}
			mergedName = mergedName + "/" + onlyChild.name
			current = onlyChild
		}

		fileCount, resolved, size := dirStats(current)
		stats := fmt.Sprintf("%d files, %s", fileCount, formatSize(size))
		if fileCount == 1 {
			stats = formatSize(size)
		}
		if resolved > 0 {
			stats += fmt.Sprintf(", %d resolved", resolved)
		}

		connector, childPrefix := "├── ", prefix+"│   "
		if printed == entries {
			connector, childPrefix = "└── ", prefix+"    "
		}
		fmt.Printf("%s%s%s%s/%s %s(%s)%s\n",
			prefix, connector, BoldBlue, mergedName, Reset, Dim, stats, Reset)
		printTreeNode(current, childPrefix)
	}

	// Print files with their per-file outcome
	for _, f := range fileNodes {
		printed++
		connector := "├── "
		if printed == entries {
			connector = "└── "
		}
		fmt.Printf("%s%s%s\n", prefix, connector, fileLabel(f))
	}
}

// fileLabel formats one file name with its outcome annotation
func fileLabel(node *treeNode) string {
	res := node.result
	switch {
	case res.Error != "":
		return fmt.Sprintf("%s%s%s %s(%s)%s", Red, node.name, Reset, Dim, res.Error, Reset)
	case res.Skipped:
		return fmt.Sprintf("%s%s (no BOM)%s", Yellow, node.name, Reset)
	case res.Resolved > 0:
		return fmt.Sprintf("%s %s(%d resolved)%s", node.name, Green, res.Resolved, Reset)
	default:
		return fmt.Sprintf("%s%s%s", Dim, node.name, Reset)
	}
}
