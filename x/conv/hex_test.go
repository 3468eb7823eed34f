package conv

import "testing"

func TestAppendHexBytes(t *testing.T) {
	got := string(AppendHexBytes([]byte("Data: "), []byte{0x41, 0x0f, 0x00, 0xff}))
	if want := "Data: 41 0F 00 FF"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if got := AppendHexBytes(nil, nil); len(got) != 0 {
		t.Fatalf("empty input produced %q", got)
	}
}
