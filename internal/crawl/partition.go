package crawl

// Partition splits nodes into min(maxWorkers, len(nodes)) contiguous chunks.
// The first len(nodes)%count chunks hold one extra node. Input order is kept
// and chunks share the backing array of nodes.
func Partition(nodes []string, maxWorkers int) [][]string {
	if len(nodes) == 0 || maxWorkers < 1 {
		return nil
	}

	count := min(maxWorkers, len(nodes))
	base := len(nodes) / count
	extra := len(nodes) % count

	chunks := make([][]string, 0, count)
	start := 0
	for i := range count {
		size := base
		if i < extra {
			size++
		}
		end := start + size
		chunks = append(chunks, nodes[start:end:end])
		start = end
	}

	return chunks
}
