// Package emit renders catalog structures and layout placements as the
// tag-per-line records read by the world renderer.
package emit

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"

	"github.com/beka-birhanu/vinom-structures/catalog"
	"github.com/beka-birhanu/vinom-structures/domain"
)

const (
	defaultCellSize = 10

	structureFmt = `<structure clear="false" id="%s"><region><cuboid min="%d,0,%d" size="%d,%d,%d"/></region></structure>` + "\n"
	dynamicFmt   = `<dynamic trigger="always" id="%s" structure="%s" location="%d,0,%d"><filter><variable var="structure_choice">%d</variable></filter></dynamic>` + "\n"
	dynamicIDFmt = "%ddstrid%d"
)

// Config holds the emitter settings.
type Config struct {
	CellSize int // Edge length of a structure and spacing between placements; 0 means 10
}

// Emitter writes placement records.
type Emitter struct {
	cellSize int
}

// New creates an Emitter.
func New(cfg Config) *Emitter {
	if cfg.CellSize <= 0 {
		cfg.CellSize = defaultCellSize
	}
	return &Emitter{cellSize: cfg.CellSize}
}

// WriteStructures writes one structure definition per catalog entry.
func (e *Emitter) WriteStructures(w io.Writer, structures []catalog.Structure) error {
	for _, s := range structures {
		_, err := fmt.Fprintf(w, structureFmt, escape(s.ID), s.Origin.X, s.Origin.Z, e.cellSize, e.cellSize, e.cellSize)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteLayout writes one dynamic placement per cell, numbered in placement order.
// The record is only active while structure_choice equals the layout's try.
func (e *Emitter) WriteLayout(w io.Writer, layout domain.Layout) error {
	for n, p := range layout.Placements {
		id := fmt.Sprintf(dynamicIDFmt, layout.Try, n)
		_, err := fmt.Fprintf(w, dynamicFmt, escape(id), escape(p.StructureID), p.X*e.cellSize, p.Z*e.cellSize, layout.Try)
		if err != nil {
			return err
		}
	}
	return nil
}

// WriteBatch writes the structure definitions followed by every layout.
func (e *Emitter) WriteBatch(w io.Writer, structures []catalog.Structure, batch *domain.Batch) error {
	if err := e.WriteStructures(w, structures); err != nil {
		return fmt.Errorf("writing structures: %w", err)
	}
	for _, layout := range batch.Layouts {
		if err := e.WriteLayout(w, layout); err != nil {
			return fmt.Errorf("writing layout %d: %w", layout.Try, err)
		}
	}
	return nil
}

func escape(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}
