package digest

import (
	"testing"
)

func TestBytes(t *testing.T) {
	cases := []struct {
		name string
		in   []byte
		exp  string
	}{
		{"empty", []byte{}, "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"},
		{"abc", []byte("abc"), "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"},
	}
	for _, c := range cases {
		if got := Bytes(c.in); got != c.exp {
			t.Errorf("%s: got %s expected %s", c.name, got, c.exp)
		}
	}
}

func TestRecordDeterministic(t *testing.T) {
	type rec struct {
		A string `json:"a"`
		B int    `json:"b"`
	}
	d1, err := Record(rec{A: "x", B: 2})
	if err != nil {
		t.Fatalf("Record:%e", err)
	}
	d2, err := Record(rec{A: "x", B: 2})
	if err != nil {
		t.Fatalf("Record:%e", err)
	}
	if d1 != d2 {
		t.Errorf("digest not deterministic: %s != %s", d1, d2)
	}
	d3, _ := Record(rec{A: "y", B: 2})
	if d1 == d3 {
		t.Errorf("different records yield same digest %s", d1)
	}
	if len(d1) != 64 {
		t.Errorf("unexpected digest length %d", len(d1))
	}
}

func TestLocal(t *testing.T) {
	d := Local([]byte("deed"))
	if !IsLocal(d) {
		t.Errorf("local digest %s not flagged", d)
	}
	if IsLocal(Bytes([]byte("deed"))) {
		t.Error("store digest wrongly flagged as local")
	}
}
