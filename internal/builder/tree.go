// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// tree.go converts the flat, slash-delimited file list into a navigable
// directory tree and back. The flat list is the single source of truth;
// the tree is always a derived view.
package builder

import (
	"fmt"
	"sort"
	"strings"

	"scaffolder/internal/models"
)

// TreeNode is one node of the derived file tree. Directory nodes carry
// children; leaf nodes carry the file they represent.
type TreeNode struct {
	Name     string              `json:"name"`
	Path     string              `json:"path"`
	Dir      bool                `json:"dir"`
	File     *models.ProjectFile `json:"file,omitempty"`
	Children []*TreeNode         `json:"children,omitempty"`
}

// BuildTree converts a flat file list into a directory tree. Every path
// segment except the last becomes (or reuses) a directory node; the last
// segment attaches the file as a leaf. Directories are merged by name, so
// the resulting tree depends only on the set of paths, not on insertion
// order. Duplicate paths are kept as separate leaves; flagging them is
// validation's job.
func BuildTree(files []models.ProjectFile) *TreeNode {
	root := &TreeNode{Dir: true}

	for i := range files {
		file := files[i]
		segments := strings.Split(file.Path, "/")
		node := root

		for depth, segment := range segments {
			if depth == len(segments)-1 {
				leaf := &TreeNode{
					Name: segment,
					Path: file.Path,
					File: &file,
				}
				node.Children = append(node.Children, leaf)
				break
			}
			node = node.childDir(segment)
		}
	}

	root.sortChildren()
	return root
}

// childDir returns the existing directory child with the given name,
// creating it if necessary.
func (n *TreeNode) childDir(name string) *TreeNode {
	for _, child := range n.Children {
		if child.Dir && child.Name == name {
			return child
		}
	}

	path := name
	if n.Path != "" {
		path = n.Path + "/" + name
	}
	dir := &TreeNode{Name: name, Path: path, Dir: true}
	n.Children = append(n.Children, dir)
	return dir
}

// sortChildren orders children deterministically: directories before files,
// then by name. Applied recursively so equal path sets always produce
// identical trees.
func (n *TreeNode) sortChildren() {
	sort.SliceStable(n.Children, func(i, j int) bool {
		a, b := n.Children[i], n.Children[j]
		if a.Dir != b.Dir {
			return a.Dir
		}
		return a.Name < b.Name
	})
	for _, child := range n.Children {
		if child.Dir {
			child.sortChildren()
		}
	}
}

// Flatten walks the tree and returns every leaf path, reconstructed by
// joining ancestor directory names. For any tree built by BuildTree the
// result equals the original path set.
func Flatten(root *TreeNode) []string {
	var paths []string
	var walk func(node *TreeNode, prefix string)
	walk = func(node *TreeNode, prefix string) {
		for _, child := range node.Children {
			name := child.Name
			if prefix != "" {
				name = prefix + "/" + name
			}
			if child.Dir {
				walk(child, name)
				continue
			}
			paths = append(paths, name)
		}
	}
	walk(root, "")
	return paths
}

// defaultExtensions maps a file's semantic type to the extension used for
// the default path of a freshly added file.
var defaultExtensions = map[models.FileType]string{
	models.FileTypeComponent: "tsx",
	models.FileTypeConfig:    "json",
	models.FileTypeStyle:     "css",
	models.FileTypePage:      "tsx",
	models.FileTypeUtil:      "ts",
	models.FileTypeDoc:       "md",
}

// AddFile appends a file to the list and returns the new list. A file with
// an empty path gets a default path derived from its type. Path collisions
// are the caller's problem: this function never deduplicates.
func AddFile(files []models.ProjectFile, file models.ProjectFile) []models.ProjectFile {
	if file.Path == "" {
		ext, ok := defaultExtensions[file.Type]
		if !ok {
			ext = "txt"
		}
		file.Path = "new-file." + ext
	}

	out := make([]models.ProjectFile, 0, len(files)+1)
	out = append(out, files...)
	return append(out, file)
}

// FilePatch describes a partial update to a file. Nil fields are unchanged.
type FilePatch struct {
	Path         *string          `json:"path,omitempty"`
	Content      *string          `json:"content,omitempty"`
	Type         *models.FileType `json:"type,omitempty"`
	Dependencies *[]string        `json:"dependencies,omitempty"`
}

// UpdateFile applies a patch to the file at index and returns the new list.
// An out-of-range index is a caller bug and fails with ErrOutOfRange.
func UpdateFile(files []models.ProjectFile, index int, patch FilePatch) ([]models.ProjectFile, error) {
	if index < 0 || index >= len(files) {
		return nil, fmt.Errorf("%w: file index %d of %d", ErrOutOfRange, index, len(files))
	}

	out := append([]models.ProjectFile(nil), files...)
	f := out[index]
	if patch.Path != nil {
		f.Path = *patch.Path
	}
	if patch.Content != nil {
		f.Content = *patch.Content
	}
	if patch.Type != nil {
		f.Type = *patch.Type
	}
	if patch.Dependencies != nil {
		f.Dependencies = append([]string(nil), (*patch.Dependencies)...)
	}
	out[index] = f
	return out, nil
}

// RemoveFile deletes the file at index and returns the new list.
func RemoveFile(files []models.ProjectFile, index int) ([]models.ProjectFile, error) {
	if index < 0 || index >= len(files) {
		return nil, fmt.Errorf("%w: file index %d of %d", ErrOutOfRange, index, len(files))
	}

	out := make([]models.ProjectFile, 0, len(files)-1)
	out = append(out, files[:index]...)
	return append(out, files[index+1:]...), nil
}
