package doctor

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type stubSection struct {
	name   string
	output string
	err    error
}

func (s *stubSection) Name() string { return s.name }

func (s *stubSection) Print(w io.Writer) error {
	if s.err != nil {
		return s.err
	}
	_, err := w.Write([]byte(s.output))
	return err
}

func TestRegistryOrder(t *testing.T) {
	reg := NewRegistry()
	reg.Register(&stubSection{name: "first"})
	reg.Register(&stubSection{name: "second"})

	sections := reg.Sections()
	if len(sections) != 2 {
		t.Fatalf("Sections = %d, want 2", len(sections))
	}
	if sections[0].Name() != "first" || sections[1].Name() != "second" {
		t.Error("sections must keep registration order")
	}
}

func TestSectionPrint(t *testing.T) {
	var buf bytes.Buffer
	ok := &stubSection{name: "ok", output: "all good\n"}
	if err := ok.Print(&buf); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if buf.String() != "all good\n" {
		t.Errorf("output = %q", buf.String())
	}

	bad := &stubSection{name: "bad", err: errors.New("probe failed")}
	if err := bad.Print(&buf); err == nil {
		t.Error("expected error from failing section")
	}
}
