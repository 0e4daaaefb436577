package tabular

// Options controls how an uploaded table is read.
type Options struct {
	// Delimiter separates cells. If 0, it is detected from the header line among ',', ';' and '\t'.
	Delimiter rune
	// MaxRows limits the number of data rows; 0 means unlimited.
	MaxRows int
}

const defaultMaxRows = 100000

func DefaultOptions() Options {
	return Options{
		MaxRows: defaultMaxRows,
	}
}
