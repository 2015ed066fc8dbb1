package repository

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type Page struct {
	Number int
	Size   int
}

// Normalized clamps a page request into the supported range.
func (p Page) Normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.Size < 1 {
		p.Size = DefaultPageSize
	}
	if p.Size > MaxPageSize {
		p.Size = MaxPageSize
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalized()
	return (n.Number - 1) * n.Size
}
