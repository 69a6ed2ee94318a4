package host

import "testing"

func TestErrorTableCoversEveryKind(t *testing.T) {
	table := ErrorTable()
	if len(table) != 13 {
		t.Fatalf("ErrorTable() has %d entries, want 13", len(table))
	}
	if table[0].Name != "eSockNoError" || table[0].Value != 0 {
		t.Fatalf("first entry = %+v, want eSockNoError/0", table[0])
	}
}
