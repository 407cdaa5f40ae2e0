package plan

import "github.com/productscience/monorange/runconfig"

var classIDs = map[string]int{"Pedestrian": 0, "Car": 1, "Cyclist": 2}

// Classes returns the classes loaded from the labels: the writelist, plus Van and Truck
// when class merging is on and DontCare when requested.
func Classes(d runconfig.DatasetConfig) []string {
	out := make([]string, 0, len(d.Writelist)+3)
	seen := make(map[string]bool)
	add := func(names ...string) {
		for _, n := range names {
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	add(d.Writelist...)
	if d.ClassMerging {
		add("Van", "Truck")
	}
	if d.UseDontCare {
		add("DontCare")
	}
	return out
}

// ClassID is the label index of one of the three detected classes.
func ClassID(name string) (int, bool) {
	id, ok := classIDs[name]
	return id, ok
}
