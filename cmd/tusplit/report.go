package main

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gopkg.in/yaml.v3"

	"github.com/Noofbiz/tugraphs/config"
	"github.com/Noofbiz/tugraphs/datasets"
	"github.com/Noofbiz/tugraphs/errkind"
)

// manifest records which graph ids ended up in which split. Ids are the
// positions in the processed collection, so a manifest can be replayed
// against the same cache.
type manifest struct {
	Dataset  string          `yaml:"dataset"`
	Seed     int64           `yaml:"seed"`
	ImbRatio float64         `yaml:"imb_ratio"`
	Splits   []manifestSplit `yaml:"splits"`
}

type manifestSplit struct {
	Name   string `yaml:"name"`
	Counts []int  `yaml:"counts,omitempty"`
	IDs    []int  `yaml:"ids"`
}

func buildManifest(cfg *config.Config, s *datasets.Splits) (*manifest, error) {
	m := &manifest{Dataset: cfg.Name, Seed: cfg.Seed, ImbRatio: cfg.ImbRatio}
	views := []struct {
		name   string
		view   *datasets.TUDataset
		counts []int
	}{
		{"train", s.Train, s.TrainCounts},
		{"val", s.Val, s.ValCounts},
		{"test", s.Test, nil},
	}
	for _, v := range views {
		ids := make([]int, v.view.Len())
		for k := range ids {
			g, err := v.view.Get(k)
			if err != nil {
				return nil, err
			}
			ids[k] = g.ID
		}
		m.Splits = append(m.Splits, manifestSplit{Name: v.name, Counts: v.counts, IDs: ids})
	}
	return m, nil
}

func writeManifest(path string, m *manifest) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return errkind.Formatf("encode manifest: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errkind.IO(err, "mkdir %s", filepath.Dir(path))
	}
	if err := os.WriteFile(path, out, 0644); err != nil {
		return errkind.IO(err, "write manifest %s", path)
	}
	return nil
}

// classCounts tallies the labels of a view into numClasses buckets.
func classCounts(view *datasets.TUDataset, numClasses int) plotter.Values {
	counts := make(plotter.Values, numClasses)
	for _, y := range view.Labels() {
		if y >= 0 && y < numClasses {
			counts[y]++
		}
	}
	return counts
}

var classColors = []color.Color{
	color.RGBA{R: 20, G: 80, B: 200, A: 255},
	color.RGBA{R: 200, G: 30, B: 30, A: 255},
	color.RGBA{R: 40, G: 120, B: 40, A: 255},
	color.RGBA{R: 120, G: 120, B: 120, A: 255},
}

// plotClassCounts writes a grouped bar chart with one group per split and
// one bar per class.
func plotClassCounts(path, name string, s *datasets.Splits, numClasses int) error {
	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s: graphs per class and split", name)
	p.Y.Label.Text = "graphs"

	views := []*datasets.TUDataset{s.Train, s.Val, s.Test}
	width := vg.Points(14)
	for c := 0; c < numClasses; c++ {
		vals := make(plotter.Values, len(views))
		for i, v := range views {
			vals[i] = classCounts(v, numClasses)[c]
		}
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return errkind.Formatf("bar chart for class %d: %v", c, err)
		}
		bars.LineStyle.Width = vg.Length(0)
		bars.Color = classColors[c%len(classColors)]
		bars.Offset = width * vg.Length(float64(c)-float64(numClasses-1)/2)
		p.Add(bars)
		p.Legend.Add(fmt.Sprintf("class %d", c), bars)
	}
	p.Legend.Top = true
	p.NominalX("train", "val", "test")

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errkind.IO(err, "mkdir %s", filepath.Dir(path))
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errkind.IO(err, "save plot %s", path)
	}
	return nil
}
