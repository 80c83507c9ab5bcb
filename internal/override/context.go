package override

import (
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Context describes the document a column belongs to. It is built by the
// caller for each resolution and never modified by the engine.
type Context struct {
	DocumentType string
	FileName     *string
	UserID       *string
	Organization *string
	SessionID    *string
	ProjectID    *string
	// Headers are the document's column headers in order.
	Headers     []string
	ColumnCount *int
	RowCount    *int
	FileSize    *int64
	SampleData  [][]string
	Metadata    map[string]string
}

// NewContext returns a context for the given document type.
func NewContext(documentType string) Context {
	return Context{DocumentType: documentType}
}

// WithFileName returns a copy with the file name set.
func (c Context) WithFileName(name string) Context {
	c.FileName = &name
	return c
}

// WithUser returns a copy with the user id set.
func (c Context) WithUser(id string) Context {
	c.UserID = &id
	return c
}

// WithOrganization returns a copy with the organization set.
func (c Context) WithOrganization(id string) Context {
	c.Organization = &id
	return c
}

// WithSession returns a copy with the session id set.
func (c Context) WithSession(id string) Context {
	c.SessionID = &id
	return c
}

// WithProject returns a copy with the project id set.
func (c Context) WithProject(id string) Context {
	c.ProjectID = &id
	return c
}

// WithHeaders returns a copy with the column headers set.
func (c Context) WithHeaders(headers ...string) Context {
	c.Headers = headers
	return c
}

// WithColumnCount returns a copy with an explicit column count.
func (c Context) WithColumnCount(n int) Context {
	c.ColumnCount = &n
	return c
}

// WithRowCount returns a copy with the row count set.
func (c Context) WithRowCount(n int) Context {
	c.RowCount = &n
	return c
}

// WithFileSize returns a copy with the file size in bytes set.
func (c Context) WithFileSize(n int64) Context {
	c.FileSize = &n
	return c
}

// WithSampleData returns a copy with sample rows set.
func (c Context) WithSampleData(rows [][]string) Context {
	c.SampleData = rows
	return c
}

// WithMetadata returns a copy with one metadata entry added.
func (c Context) WithMetadata(key, value string) Context {
	m := make(map[string]string, len(c.Metadata)+1)
	maps.Copy(m, c.Metadata)
	m[key] = value
	c.Metadata = m

	return c
}

// columnCount returns the explicit column count, else the number of headers.
func (c *Context) columnCount() int {
	if c.ColumnCount != nil {
		return *c.ColumnCount
	}

	return len(c.Headers)
}

// fingerprint returns a stable string identifying every context field that
// scopes, conditions and position constraints can observe.
func (c *Context) fingerprint() string {
	var b strings.Builder

	opt := func(name string, v *string) {
		b.WriteString(name)
		b.WriteByte('=')

		if v != nil {
			b.WriteString(strconv.Quote(*v))
		}

		b.WriteByte(';')
	}

	opt("file", c.FileName)
	opt("user", c.UserID)
	opt("org", c.Organization)
	opt("session", c.SessionID)
	opt("project", c.ProjectID)

	b.WriteString("cols=")
	b.WriteString(strconv.Itoa(c.columnCount()))
	b.WriteByte(';')

	b.WriteString("rows=")
	if c.RowCount != nil {
		b.WriteString(strconv.Itoa(*c.RowCount))
	}
	b.WriteString(";size=")
	if c.FileSize != nil {
		b.WriteString(strconv.FormatInt(*c.FileSize, 10))
	}
	b.WriteByte(';')

	b.WriteString("headers=")
	for _, h := range c.Headers {
		b.WriteString(strconv.Quote(h))
		b.WriteByte(',')
	}
	b.WriteByte(';')

	b.WriteString("sample=")
	for _, row := range c.SampleData {
		for _, cell := range row {
			b.WriteString(strconv.Quote(cell))
			b.WriteByte(',')
		}
		b.WriteByte('|')
	}
	b.WriteByte(';')

	for _, k := range slices.Sorted(maps.Keys(c.Metadata)) {
		b.WriteString(strconv.Quote(k))
		b.WriteByte('=')
		b.WriteString(strconv.Quote(c.Metadata[k]))
		b.WriteByte(';')
	}

	return b.String()
}
