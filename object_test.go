package simcore

import "testing"

func TestObjectIsAlive(t *testing.T) {
	cases := []struct {
		flags ObjectFlags
		want  bool
	}{
		{ObjAlive, true},
		{ObjAlive | ObjHidden, false},
		{0, false},
		{ObjHidden, false},
	}
	for _, c := range cases {
		o := Object{Flags: c.flags}
		if got := o.IsAlive(); got != c.want {
			t.Errorf("Object{Flags: %v}.IsAlive() = %v, want %v", c.flags, got, c.want)
		}
	}
}

func TestAncestorMatricesValidNoAttachment(t *testing.T) {
	w := newTestWorld(t)
	o := &Object{Flags: ObjAlive}
	if !AncestorMatricesValid(w, o) {
		t.Error("an unattached object should trivially have valid ancestors")
	}
}

func TestAncestorMatricesValidChainHolds(t *testing.T) {
	w := newTestWorld(t)
	grandparent := w.Objects.Alloc(Object{Flags: ObjAlive, Matrix: MatrixCache{Valid: true}})
	parent := w.Objects.Alloc(Object{
		Flags:      ObjAlive | ObjAttached,
		Attachment: AttachmentSlots{HeldBy: grandparent},
		Matrix:     MatrixCache{Valid: true},
	})
	child := Object{Flags: ObjAlive | ObjAttached, Attachment: AttachmentSlots{HeldBy: parent}}
	if !AncestorMatricesValid(w, &child) {
		t.Error("a chain of valid ancestor matrices should report valid")
	}
}

func TestAncestorMatricesValidBrokenByInvalidAncestor(t *testing.T) {
	w := newTestWorld(t)
	grandparent := w.Objects.Alloc(Object{Flags: ObjAlive, Matrix: MatrixCache{Valid: false}})
	parent := w.Objects.Alloc(Object{
		Flags:      ObjAlive | ObjAttached,
		Attachment: AttachmentSlots{HeldBy: grandparent},
		Matrix:     MatrixCache{Valid: true},
	})
	child := Object{Flags: ObjAlive | ObjAttached, Attachment: AttachmentSlots{HeldBy: parent}}
	if AncestorMatricesValid(w, &child) {
		t.Error("an invalid ancestor matrix should invalidate the whole chain")
	}
}

func TestAncestorMatricesValidMissingHolder(t *testing.T) {
	w := newTestWorld(t)
	missing := w.Objects.Alloc(Object{Flags: ObjAlive})
	w.Objects.Free(missing)
	child := Object{Flags: ObjAlive | ObjAttached, Attachment: AttachmentSlots{HeldBy: missing}}
	if AncestorMatricesValid(w, &child) {
		t.Error("a holder reference that no longer resolves should invalidate the chain")
	}
}
