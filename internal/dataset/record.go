package dataset

// Header is the ordered column set shared by every record of one load.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader builds a header from raw header fields. Duplicate names keep the
// position of their first occurrence while lookups resolve to the last one,
// which is how a dict-per-row CSV reader behaves.
func NewHeader(fields []string) *Header {
	h := &Header{index: make(map[string]int, len(fields))}
	for i, name := range fields {
		if _, seen := h.index[name]; !seen {
			h.names = append(h.names, name)
		}
		h.index[name] = i
	}
	return h
}

// Names returns the column names in order.
func (h *Header) Names() []string {
	if h == nil {
		return nil
	}
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Len is the number of distinct columns.
func (h *Header) Len() int {
	if h == nil {
		return 0
	}
	return len(h.names)
}

// Has reports whether the header declares the column.
func (h *Header) Has(name string) bool {
	if h == nil {
		return false
	}
	_, ok := h.index[name]
	return ok
}

// Record is one row: raw field values addressed by header name.
type Record struct {
	header *Header
	values []string
}

// NewRecord binds values to a header. Values beyond the header width are kept
// but unreachable; a short row simply lacks its trailing columns.
func NewRecord(h *Header, values []string) Record {
	return Record{header: h, values: values}
}

// Get returns the raw value for a column and whether the record carries it.
func (r Record) Get(name string) (string, bool) {
	if r.header == nil {
		return "", false
	}
	i, ok := r.header.index[name]
	if !ok || i >= len(r.values) {
		return "", false
	}
	return r.values[i], true
}

// Columns returns the header columns present in this record, in header order.
func (r Record) Columns() []string {
	if r.header == nil {
		return nil
	}
	out := make([]string, 0, len(r.header.names))
	for _, name := range r.header.names {
		if r.header.index[name] < len(r.values) {
			out = append(out, name)
		}
	}
	return out
}

// Header returns the shared header.
func (r Record) Header() *Header { return r.header }

// Records binds each row to the header built from columns. Handy for tests
// and in-memory callers.
func Records(columns []string, rows ...[]string) []Record {
	h := NewHeader(columns)
	out := make([]Record, len(rows))
	for i, row := range rows {
		out[i] = NewRecord(h, row)
	}
	return out
}

// Table is a loaded dataset.
type Table struct {
	Name    string
	Header  *Header
	Records []Record
}

// Columns returns the header column names.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	return t.Header.Names()
}
