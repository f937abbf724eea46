package inventory

import (
	"fmt"

	"github.com/matzehuels/stackinv/pkg/errors"
	"github.com/matzehuels/stackinv/pkg/props"
	"github.com/matzehuels/stackinv/pkg/store"
	"github.com/matzehuels/stackinv/pkg/value"
)

// Vertex types.
const (
	TypeRoot      = store.TypeRoot
	TypeDomain    = "domain"
	TypeComponent = "component"
	TypeGateway   = "gateway"
	TypeRoute     = "route"
	TypeLanguage  = "language"
	TypeFramework = "framework"
)

// Edge types.
const (
	EdgeOwns    = "owns"
	EdgeGateway = "gateway"
	EdgeRoute   = "route"
	EdgeUses    = "uses"
)

// RootID is the id of the root vertex.
const RootID = "root"

// Property paths written by Build.
var (
	PathName          = props.Path{"name"}
	PathRepository    = props.Path{"details", "repository"}
	PathDocumentation = props.Path{"details", "documentationLink"}
	PathRoute         = props.Path{"path"}
)

// Build creates a store from m.
func Build(m *Manifest) (*store.Store, error) {
	b := &builder{s: store.New()}
	if err := b.vertex(RootID, TypeRoot, m.Name, Details{}); err != nil {
		return nil, err
	}
	for i, d := range m.Domains {
		if d.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "domain %d: missing id", i)
		}
		if err := b.vertex(d.ID, TypeDomain, d.Name, d.Details); err != nil {
			return nil, err
		}
		if err := b.edge(EdgeOwns, RootID, d.ID); err != nil {
			return nil, err
		}
		for j, c := range d.Components {
			if c.ID == "" {
				return nil, errors.New(errors.ErrCodeInvalidInput, "domain %s: component %d: missing id", d.ID, j)
			}
			if err := b.component(d.ID, c); err != nil {
				return nil, err
			}
		}
	}
	return b.s, nil
}

type builder struct {
	s     *store.Store
	edges int
}

func (b *builder) component(domain string, c Component) error {
	if err := b.vertex(c.ID, TypeComponent, c.Name, c.Details); err != nil {
		return err
	}
	if err := b.edge(EdgeOwns, domain, c.ID); err != nil {
		return err
	}
	if err := b.set(c.ID, PathRepository, c.Repository); err != nil {
		return err
	}
	if err := b.set(c.ID, PathDocumentation, c.Documentation); err != nil {
		return err
	}

	if c.Language != "" {
		if err := b.shared(TypeLanguage+":"+c.Language, TypeLanguage, c.Language); err != nil {
			return err
		}
		if err := b.edge(EdgeUses, c.ID, TypeLanguage+":"+c.Language); err != nil {
			return err
		}
	}
	for _, fw := range c.Frameworks {
		id := TypeFramework + ":" + fw
		if err := b.shared(id, TypeFramework, fw); err != nil {
			return err
		}
		if err := b.edge(EdgeUses, c.ID, id); err != nil {
			return err
		}
	}

	for k, g := range c.Gateways {
		if g.key() == "" {
			return errors.New(errors.ErrCodeInvalidInput, "component %s: gateway %d: missing id and name", c.ID, k)
		}
		if err := b.gateway(g); err != nil {
			return err
		}
		if err := b.edge(EdgeGateway, c.ID, TypeGateway+":"+g.key()); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) gateway(g Gateway) error {
	id := TypeGateway + ":" + g.key()
	name := g.Name
	if name == "" {
		name = g.ID
	}
	if err := b.shared(id, TypeGateway, name); err != nil {
		return err
	}
	for _, path := range g.Routes {
		rid := TypeRoute + ":" + g.key() + ":" + path
		if _, ok := b.s.Vertex(rid); ok {
			continue
		}
		if err := b.vertex(rid, TypeRoute, path, Details{}); err != nil {
			return err
		}
		if err := b.set(rid, PathRoute, path); err != nil {
			return err
		}
		if err := b.edge(EdgeRoute, id, rid); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) vertex(id, typ, name string, details Details) error {
	p := props.New()
	if name != "" {
		if err := p.Write(PathName, value.String(name)); err != nil {
			return err
		}
	}
	if details.Len() > 0 {
		if err := p.Write(props.Path{"details"}, value.FromMap(details.Map().Clone())); err != nil {
			return err
		}
	}
	_, err := b.s.AddVertex(id, typ, p)
	return err
}

// shared adds a vertex unless one with the same id already exists.
func (b *builder) shared(id, typ, name string) error {
	if _, ok := b.s.Vertex(id); ok {
		return nil
	}
	return b.vertex(id, typ, name, Details{})
}

// edge adds an edge with a sequential id, so rebuilding the same manifest
// yields the same document.
func (b *builder) edge(typ, from, to string) error {
	b.edges++
	_, err := b.s.AddEdge(fmt.Sprintf("e%d", b.edges), typ, from, to, nil)
	return err
}

func (b *builder) set(id string, path props.Path, s string) error {
	if s == "" {
		return nil
	}
	return b.s.SetProperty(id, path, value.String(s))
}
