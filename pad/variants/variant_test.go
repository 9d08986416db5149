package variants

import (
	"encoding/json"
	"testing"
)

func TestParseVariant(t *testing.T) {
	for _, v := range []Variant{Generic, Android} {
		parsed, err := ParseVariant(v.String())
		if err != nil {
			t.Errorf("%s: %s", v, err)
		}
		if parsed != v {
			t.Errorf("%s: parsed %s", v, parsed)
		}
	}
	if _, err := ParseVariant("dualshock"); err == nil {
		t.Error("expected error for unknown variant")
	}
}

func TestVariantJSON(t *testing.T) {
	b, err := json.Marshal(Android)
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `"android"` {
		t.Errorf("marshal: %s", b)
	}
	var v Variant
	if err := json.Unmarshal([]byte(`"generic"`), &v); err != nil {
		t.Fatal(err)
	}
	if v != Generic {
		t.Errorf("unmarshal: %s", v)
	}
}

func TestNewIsPerDevice(t *testing.T) {
	a := New(Android)
	b := New(Android)
	if a == b {
		t.Error("parsers must be distinct instances")
	}
}
