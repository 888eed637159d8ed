// Package split partitions ordered (item, size) lists into size-bounded groups.
package split

// Item is a single entry to be grouped, typically a file path and its byte size.
type Item struct {
	Path string
	Size int64
}

// Group is an ordered run of items whose sizes sum to at most the ceiling,
// unless the group holds a single item that alone exceeds it.
type Group struct {
	Items []Item
	Size  int64
}

// Pack partitions items into ordered groups whose cumulative size stays at
// or under ceiling. Input order is preserved and no item is ever split: an
// item larger than ceiling is placed alone in its own group. Single pass,
// deterministic.
func Pack(items []Item, ceiling int64) []Group {
	var groups []Group
	var cur Group

	for _, it := range items {
		if len(cur.Items) > 0 && cur.Size+it.Size > ceiling {
			groups = append(groups, cur)
			cur = Group{}
		}
		cur.Items = append(cur.Items, it)
		cur.Size += it.Size
	}
	if len(cur.Items) > 0 {
		groups = append(groups, cur)
	}
	return groups
}
