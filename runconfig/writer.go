package runconfig

import (
	"strings"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/productscience/monorange/runconfig/schema"
)

// linkAliases rewrites serialized YAML so that each link's path is an alias of its
// source's value. anchors maps anchor names to key paths; sources without one get an
// anchor named after the path. Links whose two values differ, or whose source comes
// after the path, are left as written.
func linkAliases(data []byte, links []schema.Link, anchors map[string]string) ([]byte, error) {
	if len(links) == 0 {
		return data, nil
	}
	var root yamlv3.Node
	if err := yamlv3.Unmarshal(data, &root); err != nil {
		return nil, err
	}
	if root.Kind != yamlv3.DocumentNode || len(root.Content) == 0 {
		return data, nil
	}
	top := root.Content[0]

	changed := false
	for _, l := range links {
		srcParent, si := findValue(top, l.Source)
		dstParent, di := findValue(top, l.Path)
		if srcParent == nil || dstParent == nil {
			continue
		}
		src, dst := srcParent.Content[si], dstParent.Content[di]
		if src.Kind != yamlv3.ScalarNode || dst.Kind != yamlv3.ScalarNode {
			continue
		}
		if src.Value != dst.Value || src.ShortTag() != dst.ShortTag() || src.Line > dst.Line {
			continue
		}
		if src.Anchor == "" {
			src.Anchor = anchorName(l.Source, anchors)
		}
		dstParent.Content[di] = &yamlv3.Node{Kind: yamlv3.AliasNode, Value: src.Anchor, Alias: src}
		changed = true
	}
	if !changed {
		return data, nil
	}
	return yamlv3.Marshal(&root)
}

// findValue returns the mapping holding the dotted key path and the index of its value.
func findValue(n *yamlv3.Node, path string) (*yamlv3.Node, int) {
	parts := strings.Split(path, ".")
	for depth, part := range parts {
		if n.Kind != yamlv3.MappingNode {
			return nil, 0
		}
		found := -1
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == part {
				found = i + 1
				break
			}
		}
		if found < 0 {
			return nil, 0
		}
		if depth == len(parts)-1 {
			return n, found
		}
		n = n.Content[found]
	}
	return nil, 0
}

func anchorName(path string, anchors map[string]string) string {
	for _, name := range sortedStrings(anchors) {
		if anchors[name] == path {
			return name
		}
	}
	return strings.ReplaceAll(path, ".", "_")
}
