package lzip

import (
	"fmt"
	"io"
)

// formatDictSize renders a dictionary size with a binary prefix, e.g.
// "8 MiB" or "132 KiB".
func formatDictSize(size uint32) string {
	num := size
	prefix := "B  "
	switch {
	case size >= 1<<20 && size%(1<<20) == 0:
		num = size >> 20
		prefix = "MiB"
	case size >= 1<<10 && size%(1<<10) == 0:
		num = size >> 10
		prefix = "KiB"
	}
	return fmt.Sprintf("%4d %s", num, prefix)
}

// Lister pretty-prints index data. It accumulates totals over multiple
// files; Totals writes the summary line.
type Lister struct {
	w io.Writer
	// Verbosity controls the number of columns and, at values of two or
	// more, the per-member table.
	Verbosity int

	firstPost   bool
	files       int
	totalComp   int64
	totalUncomp int64
}

// NewLister creates a Lister writing to w.
func NewLister(w io.Writer, verbosity int) *Lister {
	return &Lister{w: w, Verbosity: verbosity, firstPost: true}
}

// line writes one data line of the listing.
func (l *Lister) line(uncompSize, compSize int64, name string) error {
	var err error
	if uncompSize > 0 {
		saved := 100.0 - (100.0*float64(compSize))/float64(uncompSize)
		_, err = fmt.Fprintf(l.w, "%14d %14d %6.2f%%  %s\n",
			uncompSize, compSize, saved, name)
	} else {
		_, err = fmt.Fprintf(l.w, "%14d %14d   -INF%%  %s\n",
			uncompSize, compSize, name)
	}
	return err
}

// List writes the listing of a single indexed file.
func (l *Lister) List(ix *Index, name string) error {
	udataSize, cdataSize := ix.UncompressedSize(), ix.CompressedSize()
	l.totalUncomp += udataSize
	l.totalComp += cdataSize
	l.files++
	if l.firstPost {
		l.firstPost = false
		if l.Verbosity >= 1 {
			if _, err := fmt.Fprint(l.w,
				"   dict   memb  trail "); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprint(l.w,
			"  uncompressed     compressed   saved  name\n",
		); err != nil {
			return err
		}
	}
	if l.Verbosity >= 1 {
		_, err := fmt.Fprintf(l.w, "%s %5d %6d ",
			formatDictSize(ix.DictSize()), len(ix.Members),
			ix.TrailingSize())
		if err != nil {
			return err
		}
	}
	if err := l.line(udataSize, cdataSize, name); err != nil {
		return err
	}
	if l.Verbosity >= 2 && len(ix.Members) > 1 {
		_, err := fmt.Fprint(l.w, " member      data_pos      data_size     member_pos    member_size\n")
		if err != nil {
			return err
		}
		for i, m := range ix.Members {
			_, err = fmt.Fprintf(l.w,
				"%6d %14d %14d %14d %14d\n", i+1,
				m.DataBlock.Pos, m.DataBlock.Size,
				m.MemberBlock.Pos, m.MemberBlock.Size)
			if err != nil {
				return err
			}
		}
		// reprint the heading after a list of members
		l.firstPost = true
	}
	return nil
}

// Totals writes the summary line if more than one file has been listed.
func (l *Lister) Totals() error {
	if l.files <= 1 {
		return nil
	}
	if l.Verbosity >= 1 {
		if _, err := fmt.Fprint(l.w,
			"                      "); err != nil {
			return err
		}
	}
	return l.line(l.totalUncomp, l.totalComp, "(totals)")
}
