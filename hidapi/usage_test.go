package hidapi

import (
	"testing"
)

func TestUsagePageID(t *testing.T) {
	u := NewUsage(PageButton, 0x0f)
	if u.Page() != PageButton {
		t.Errorf("page: 0x%02x != 0x%02x", u.Page(), PageButton)
	}
	if u.ID() != 0x0f {
		t.Errorf("id: 0x%02x != 0x0f", u.ID())
	}
	if u.String() != "0x09/0x0f" {
		t.Errorf("string: %q", u.String())
	}
}
