package models

// Identity tells a record that has not been written yet apart from one that
// already exists in storage. The zero value is Unsaved.
type Identity struct {
	id uint
}

// Unsaved is the identity of a record that has no primary key yet.
func Unsaved() Identity {
	return Identity{}
}

// Persisted is the identity of a stored record. A zero id yields Unsaved.
func Persisted(id uint) Identity {
	return Identity{id: id}
}

// ID returns the primary key and whether the record has been persisted.
func (i Identity) ID() (uint, bool) {
	return i.id, i.id != 0
}

// IsPersisted reports whether the record exists in storage.
func (i Identity) IsPersisted() bool {
	return i.id != 0
}
