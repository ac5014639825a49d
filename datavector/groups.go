// SPDX-License-Identifier: MIT

package datavector

// Group is a named set of window indices, in window order.
type Group struct {
	Name    string
	Windows []int
}

// GroupByEvent groups windows by event id, groups ordered by first
// appearance.
func (dv *DataVector) GroupByEvent() []Group {
	return dv.groupBy(func(i int) string { return dv.windows[i].Event })
}

// GroupByStation groups windows by station name, groups ordered by first
// appearance.
func (dv *DataVector) GroupByStation() []Group {
	return dv.groupBy(func(i int) string { return dv.windows[i].Station })
}

func (dv *DataVector) groupBy(name func(int) string) []Group {
	var out []Group
	pos := make(map[string]int)
	for i := range dv.windows {
		n := name(i)
		j, ok := pos[n]
		if !ok {
			j = len(out)
			pos[n] = j
			out = append(out, Group{Name: n})
		}
		out[j].Windows = append(out[j].Windows, i)
	}

	return out
}
