package types

// Record is one serialized entity: its identifier and its codec-encoded body.
type Record struct {
	ID   string `json:"id" yaml:"id" msgpack:"id"`
	Body []byte `json:"body" yaml:"body" msgpack:"body"`
}

// Section holds every record of one entity type in insertion order.
type Section struct {
	Name    string   `json:"name" yaml:"name" msgpack:"name"`
	Records []Record `json:"records" yaml:"records" msgpack:"records"`
}

// Document is the backend-neutral serialized form of a whole object store.
// Codec names the encoding of every Record.Body.
type Document struct {
	Codec    string    `json:"codec" yaml:"codec" msgpack:"codec"`
	Sections []Section `json:"sections" yaml:"sections" msgpack:"sections"`
}

// Section returns the section with the given name and whether it exists.
func (d Document) Section(name string) (Section, bool) {
	for _, s := range d.Sections {
		if s.Name == name {
			return s, true
		}
	}
	return Section{}, false
}

// Len returns the total number of records across all sections.
func (d Document) Len() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Records)
	}
	return n
}
