package datasets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// writeLines writes one line per entry to dir/name_suffix.txt.
func writeLines(t *testing.T, dir, name, suffix string, lines []string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	path := filepath.Join(dir, fmt.Sprintf("%s_%s.txt", name, suffix))
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0644))
}

// toyFiles is a three graph dataset without node features:
//
//	graph 1: path 1-2-3          label -1
//	graph 2: edge 4-5            label  1
//	graph 3: triangle 6-7-8      label -1 (plus a self loop and a duplicate edge)
var toyFiles = map[string][]string{
	"A": {
		"1, 2", "2, 1", "2, 3", "3, 2",
		"4, 5", "5, 4",
		"6, 7", "7, 6", "6, 8", "8, 6", "7, 8", "8, 7", "6, 6", "6, 7",
	},
	"graph_indicator": {"1", "1", "1", "2", "2", "3", "3", "3"},
	"graph_labels":    {"-1", "1", "-1"},
}

// mutagFiles is a two graph dataset with node and edge attributes followed
// by labels.
var mutagFiles = map[string][]string{
	"A":               {"1, 2", "2, 1", "3, 4", "4, 3", "4, 5", "5, 4"},
	"graph_indicator": {"1", "1", "2", "2", "2"},
	"graph_labels":    {"1", "2"},
	"node_labels":     {"0", "1", "0", "2", "2"},
	"node_attributes": {"0.5, 1.5", "0.5, 1.5", "0.5, 1.5", "0.5, 1.5", "0.5, 1.5"},
	"edge_labels":     {"1", "1", "0", "0", "2", "2"},
	"edge_attributes": {"0.25", "0.25", "0.25", "0.25", "0.25", "0.25"},
}

func writeDataset(t *testing.T, dir, name string, files map[string][]string) {
	t.Helper()
	for suffix, lines := range files {
		writeLines(t, dir, name, suffix, lines)
	}
}

// labeledPaths builds TU files for one small path graph per label; graph i
// has 2 + i%3 nodes.
func labeledPaths(labels []int) map[string][]string {
	files := map[string][]string{}
	node := 1
	for g, y := range labels {
		n := 2 + g%3
		for i := 0; i < n; i++ {
			files["graph_indicator"] = append(files["graph_indicator"], fmt.Sprint(g+1))
		}
		for i := 0; i+1 < n; i++ {
			a, b := node+i, node+i+1
			files["A"] = append(files["A"], fmt.Sprintf("%d, %d", a, b), fmt.Sprintf("%d, %d", b, a))
		}
		files["graph_labels"] = append(files["graph_labels"], fmt.Sprint(y))
		node += n
	}
	return files
}
