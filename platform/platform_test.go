//go:build !(rp2040 || rp2350)

package platform

import (
	"context"
	"testing"

	"loratx-go/board"
	"loratx-go/radio"
	"loratx-go/types"
)

func TestHostSetup(t *testing.T) {
	pl, err := Setup(board.Host, types.ConsoleFormat{Baud: 115200, DataBits: 8, StopBits: 1})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if pl.Console == nil || pl.Open == nil || pl.LED != nil {
		t.Fatalf("unexpected platform %+v", pl)
	}
	for name, s := range map[string]interface{ Read() (float32, error) }{"a0": pl.A0, "a2": pl.A2} {
		v, err := s.Read()
		if err != nil || v < 0 || v > 1 {
			t.Fatalf("%s read %v, %v", name, v, err)
		}
	}

	r, err := radio.Initialize(context.Background(), board.Host, pl.Open, radio.Options{})
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if r.Board() != board.Host.Type {
		t.Fatalf("board = %s", r.Board())
	}
}
