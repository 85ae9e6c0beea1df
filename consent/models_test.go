package consent

import "testing"

func TestSetAndGranted(t *testing.T) {
	l := make(Ledger)

	if l.Granted("0xpat", "0xdoc") {
		t.Error("absent pair must default to false")
	}

	l.Set("0xpat", "0xdoc", true)
	if !l.Granted("0xpat", "0xdoc") {
		t.Error("expected grant after Set(true)")
	}

	l.Set("0xpat", "0xdoc", false)
	if l.Granted("0xpat", "0xdoc") {
		t.Error("expected revoke after Set(false)")
	}

	// The edge stays in the map after revocation.
	if _, ok := l["0xpat"]["0xdoc"]; !ok {
		t.Error("revoked edge must remain recorded")
	}
}

func TestNoOpRevoke(t *testing.T) {
	l := make(Ledger)
	l.Set("0xpat", "0xdoc", false)

	if l.Granted("0xpat", "0xdoc") {
		t.Error("revoke without prior grant must leave consent false")
	}
}

func TestClone(t *testing.T) {
	l := make(Ledger)
	l.Set("0xpat", "0xdoc", true)

	c := l.Clone()
	c.Set("0xpat", "0xdoc", false)
	c.Set("0xother", "0xdoc", true)

	if !l.Granted("0xpat", "0xdoc") {
		t.Error("mutating the clone must not affect the original")
	}
	if _, ok := l["0xother"]; ok {
		t.Error("clone must not share patient maps with the original")
	}
}
