package plan

import (
	"path/filepath"

	"github.com/productscience/monorange/runconfig"
)

// Input geometry of the KITTI loader.
const (
	InputWidth       = 1280
	InputHeight      = 384
	Downsample       = 32
	RangeDownsample  = 16
	MaxObjects       = 50
	testSplit        = "test"
	imageSetsDirName = "ImageSets"
)

// Layout is where one split of the dataset lives on disk.
type Layout struct {
	Split     string `json:"split"`
	SplitFile string `json:"split_file"`
	DataDir   string `json:"data_dir"`
	ImageDir  string `json:"image_dir"`
	RangeDir  string `json:"range_dir"`
	CalibDir  string `json:"calib_dir"`
	LabelDir  string `json:"label_dir"`
	// Augment is set for training splits; evaluation splits are never augmented.
	Augment bool `json:"augment"`
}

func NewLayout(d runconfig.DatasetConfig, split string) Layout {
	sub := "training"
	if split == testSplit {
		sub = "testing"
	}
	dataDir := filepath.Join(d.RootDir, sub)
	imageDir := d.ImageDir
	if imageDir == "" {
		imageDir = "image_2"
	}
	return Layout{
		Split:     split,
		SplitFile: filepath.Join(d.RootDir, imageSetsDirName, split+".txt"),
		DataDir:   dataDir,
		ImageDir:  filepath.Join(dataDir, imageDir),
		RangeDir:  filepath.Join(dataDir, "range_2"),
		CalibDir:  filepath.Join(dataDir, "calib"),
		LabelDir:  filepath.Join(dataDir, "label_2"),
		Augment:   split == "train" || split == "trainval",
	}
}

// FeatureSize is the width and height of the backbone's coarsest feature map.
func FeatureSize() (int, int) {
	return InputWidth / Downsample, InputHeight / Downsample
}
