package roster

// Dataset is the whole content of the data file for the lifetime of one request.
type Dataset struct {
	People      []Person     `json:"People" yaml:"People"`
	Departments []Department `json:"Departments" yaml:"Departments"`
}

// Department is opaque to the service: any encodable value, read back verbatim.
type Department = any

// Normalize replaces nil collections with empty ones so they encode as [] rather than null.
func (d *Dataset) Normalize() {
	if d.People == nil {
		d.People = []Person{}
	}
	if d.Departments == nil {
		d.Departments = []Department{}
	}
}

// IndexOf returns the position of the first person carrying id, or -1.
func (d *Dataset) IndexOf(id int64) int {
	for i, p := range d.People {
		if got, ok := p.ID(); ok && got == id {
			return i
		}
	}
	return -1
}

// NextID returns 1 + the largest assigned id, or 1 when nobody has one.
func (d *Dataset) NextID() int64 {
	var (
		highest int64
		found   bool
	)
	for _, p := range d.People {
		id, ok := p.ID()
		if !ok {
			continue
		}
		if !found || id > highest {
			highest, found = id, true
		}
	}
	if !found {
		return 1
	}
	return highest + 1
}

// RemoveID drops every person carrying id and reports how many were removed.
func (d *Dataset) RemoveID(id int64) int {
	kept := d.People[:0]
	removed := 0
	for _, p := range d.People {
		if got, ok := p.ID(); ok && got == id {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	d.People = kept
	return removed
}
