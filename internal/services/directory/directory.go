// Package directory tracks which identities are known and which connection,
// if any, each one is currently bound to.
//
// A Directory is not safe for concurrent use on its own. Callers serialise
// access, as the coordinator does.
package directory

import (
	"github.com/mcoot/chessrelay/internal/model"
)

// Directory maps identities to bindings and connections back to identities
type Directory struct {
	bindings map[model.Identity]*model.Binding
	conns    map[model.ConnID]model.Identity
}

// New creates an empty Directory
func New() *Directory {
	return &Directory{
		bindings: make(map[model.Identity]*model.Binding),
		conns:    make(map[model.ConnID]model.Identity),
	}
}

// Register records identity as known with its latest credential.
// An existing binding keeps its connection.
func (d *Directory) Register(identity model.Identity, credential string) {
	if b, ok := d.bindings[identity]; ok {
		b.Credential = credential
		return
	}
	d.bindings[identity] = &model.Binding{
		Identity:   identity,
		Credential: credential,
	}
}

// Bind attaches conn to identity, replacing any earlier connection
func (d *Directory) Bind(identity model.Identity, conn model.ConnID) error {
	b, ok := d.bindings[identity]
	if !ok {
		return model.ErrUnknownIdentity
	}
	if b.Conn != "" {
		delete(d.conns, b.Conn)
	}
	if prev, ok := d.conns[conn]; ok && prev != identity {
		d.bindings[prev].Conn = ""
	}
	b.Conn = conn
	d.conns[conn] = identity
	return nil
}

// Resolve returns the identity bound to conn
func (d *Directory) Resolve(conn model.ConnID) (model.Identity, error) {
	identity, ok := d.conns[conn]
	if !ok {
		return "", model.ErrNotBound
	}
	return identity, nil
}

// IsLive returns true if identity currently has a bound connection
func (d *Directory) IsLive(identity model.Identity) bool {
	b, ok := d.bindings[identity]
	return ok && b.IsLive()
}

// Unbind detaches conn from its identity. The binding record is kept so the
// identity can reconnect. Unknown or superseded connections are ignored.
func (d *Directory) Unbind(conn model.ConnID) (model.Identity, bool) {
	identity, ok := d.conns[conn]
	if !ok {
		return "", false
	}
	delete(d.conns, conn)
	if b := d.bindings[identity]; b.Conn == conn {
		b.Conn = ""
	}
	return identity, true
}

// Lookup returns a copy of the binding for identity
func (d *Directory) Lookup(identity model.Identity) (model.Binding, bool) {
	b, ok := d.bindings[identity]
	if !ok {
		return model.Binding{}, false
	}
	return *b, true
}

// Known returns true if identity has a binding record
func (d *Directory) Known(identity model.Identity) bool {
	_, ok := d.bindings[identity]
	return ok
}

// ConnOf returns the live connection for identity, if any
func (d *Directory) ConnOf(identity model.Identity) (model.ConnID, bool) {
	b, ok := d.bindings[identity]
	if !ok || !b.IsLive() {
		return "", false
	}
	return b.Conn, true
}
